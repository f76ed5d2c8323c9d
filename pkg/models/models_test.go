/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceIntegration_Interval(t *testing.T) {
	tests := []struct {
		seconds  int
		expected time.Duration
	}{
		{seconds: 0, expected: 300 * time.Second},
		{seconds: -5, expected: 300 * time.Second},
		{seconds: 3, expected: 10 * time.Second},
		{seconds: 60, expected: time.Minute},
	}

	for _, tt := range tests {
		d := DeviceIntegration{PollIntervalSeconds: tt.seconds}
		assert.Equal(t, tt.expected, d.Interval(), "seconds=%d", tt.seconds)
	}
}

func TestDeviceIntegration_Validate(t *testing.T) {
	valid := DeviceIntegration{ID: "int-1", DeviceID: "printer-1", Protocol: ProtocolIPP, Endpoint: "ipp://10.0.0.5/ipp/print"}
	require.NoError(t, valid.Validate())

	missingDevice := valid
	missingDevice.DeviceID = ""
	assert.ErrorIs(t, missingDevice.Validate(), ErrDeviceIDRequired)

	badProtocol := valid
	badProtocol.Protocol = "lpd"
	assert.ErrorIs(t, badProtocol.Validate(), ErrUnknownProtocol)

	badAuth := valid
	badAuth.AuthMode = "kerberos"
	assert.ErrorIs(t, badAuth.Validate(), ErrUnknownAuthMode)
}

func TestDeviceIntegration_DecodeCredentials(t *testing.T) {
	d := DeviceIntegration{ID: "int-1", Credentials: json.RawMessage(`{"username":"admin","password":"pw","community":"private"}`)}

	creds, err := d.DecodeCredentials()
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)
	assert.Equal(t, "private", creds.Community)

	empty := DeviceIntegration{ID: "int-2"}
	creds, err = empty.DecodeCredentials()
	require.NoError(t, err)
	assert.Empty(t, creds.Username)

	broken := DeviceIntegration{ID: "int-3", Credentials: json.RawMessage(`{"username":`)}
	_, err = broken.DecodeCredentials()
	assert.Error(t, err)
}

func TestDeviceIntegration_ScheduleKey(t *testing.T) {
	a := DeviceIntegration{Protocol: ProtocolSNMP, Endpoint: "10.0.0.1", PollIntervalSeconds: 60}
	b := a
	assert.Equal(t, a.ScheduleKey(), b.ScheduleKey())

	b.PollIntervalSeconds = 120
	assert.NotEqual(t, a.ScheduleKey(), b.ScheduleKey())

	c := a
	c.Credentials = json.RawMessage(`{"community":"other"}`)
	assert.NotEqual(t, a.ScheduleKey(), c.ScheduleKey())
}

func TestPrinterStatusFor(t *testing.T) {
	assert.Equal(t, PrinterStatusError, PrinterStatusFor(DeviceStateError))
	assert.Equal(t, PrinterStatusMaintenance, PrinterStatusFor(DeviceStateMaintenance))
	assert.Equal(t, PrinterStatusActive, PrinterStatusFor(DeviceStateOnline))
	assert.Equal(t, PrinterStatusInactive, PrinterStatusFor(DeviceStateOffline))
	assert.Equal(t, PrinterStatusInactive, PrinterStatusFor("sleeping"))
}

func TestErrorSample(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := ErrorSample("printer-1", SourcePoll, errors.New("connection refused"), now)

	assert.Equal(t, DeviceStateError, s.State)
	assert.Equal(t, []string{"connection refused"}, s.Errors)
	assert.Equal(t, now, s.SampledAt)
}

func TestPrintQuota_Fits(t *testing.T) {
	q := PrintQuota{MonthlyLimit: 1000, CurrentUsage: 950, ColorLimit: 100, ColorUsage: 50}

	assert.False(t, q.Fits(false, 60))
	assert.True(t, q.Fits(false, 50))
	assert.True(t, q.Fits(true, 40))
	assert.True(t, q.Fits(true, 50))
	assert.False(t, q.Fits(true, 51))
	assert.False(t, q.Fits(false, -10))
}

func TestRawJob_UnitsInRange(t *testing.T) {
	for _, tc := range []struct {
		name string
		job  RawJob
		ok   bool
	}{
		{name: "typical", job: RawJob{Pages: 10, Copies: 6}, ok: true},
		{name: "empty job", job: RawJob{Pages: 0, Copies: 1}, ok: true},
		{name: "at limit", job: RawJob{Pages: MaxJobUnits, Copies: 1}, ok: true},
		{name: "product overflows", job: RawJob{Pages: 1 << 62, Copies: 3}},
		{name: "product past limit", job: RawJob{Pages: 1 << 16, Copies: 1 << 16}},
		{name: "pages past limit", job: RawJob{Pages: MaxJobUnits + 1, Copies: 1}},
		{name: "copies past limit", job: RawJob{Pages: 1, Copies: MaxJobUnits + 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			job := tc.job
			job.Normalize()
			assert.Equal(t, tc.ok, job.UnitsInRange())
		})
	}
}

func TestCapturedJobEvent_FromRaw(t *testing.T) {
	now := time.Now().UTC()
	ev := NewCapturedJobEvent("cap-1", "printer-1", SourceWebhook, RawJob{NativeID: "J-100", Pages: 4}, now)

	assert.Equal(t, 1, ev.Copies)
	assert.Equal(t, 4, ev.TotalUnits())
	assert.Equal(t, CaptureStatusCaptured, ev.Status)
	assert.Equal(t, "J-100", ev.NativeJobID)
	assert.Equal(t, SourceWebhook, ev.Source)
}

func TestServiceConfig_Validate(t *testing.T) {
	cfg := ServiceConfig{
		Database: DatabaseConfig{Host: "db"},
		Webhook:  WebhookConfig{Secret: "s"},
		NATS:     &NATSConfig{URL: "nats://localhost:4222"},
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "PRINTRADAR", cfg.NATS.StreamName)
	assert.Equal(t, time.Minute, time.Duration(cfg.Scheduler.SyncInterval))
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	noSecret := ServiceConfig{Database: DatabaseConfig{Driver: DatabaseDriverMemory}}
	assert.ErrorIs(t, noSecret.Validate(), errWebhookSecretRequired)

	badDriver := ServiceConfig{Database: DatabaseConfig{Driver: "sqlite"}, Webhook: WebhookConfig{Secret: "s"}}
	assert.ErrorIs(t, badDriver.Validate(), errUnknownDatabaseDriver)

	negative := ServiceConfig{
		Database: DatabaseConfig{Driver: DatabaseDriverMemory},
		Webhook:  WebhookConfig{Secret: "s"},
		Billing:  BillingConfig{DefaultBWRate: -1},
	}
	assert.ErrorIs(t, negative.Validate(), errNegativeRate)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[]`), &d))
}

func TestJobPayload_RawJob(t *testing.T) {
	p := JobPayload{JobID: " J-100 ", Pages: 3, Color: true, PaperSize: "A4"}
	raw := p.RawJob()

	assert.Equal(t, "J-100", raw.NativeID)
	assert.Equal(t, 1, raw.Copies)
	assert.True(t, raw.Color)
}

func TestStatusPayload_Sample(t *testing.T) {
	now := time.Now()
	p := StatusPayload{Status: "Printing", Consumables: map[string]float64{"black": 42}, QueueDepth: 2}
	s := p.Sample("printer-9", SourceWebhook, now)

	assert.Equal(t, DeviceStateOnline, s.State)
	assert.Equal(t, 2, s.QueueDepth)
	assert.Equal(t, DeviceStateOffline, ParseDeviceState("asleep"))
	assert.Equal(t, DeviceStateMaintenance, ParseDeviceState("maintenance"))
}
