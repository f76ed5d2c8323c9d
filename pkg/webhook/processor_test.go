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

package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

const testSecret = "s3cret"

func newTestProcessor(t *testing.T) (*Processor, *db.MemoryStore, *capture.Engine) {
	t.Helper()

	store := db.NewMemoryStore()
	engine := capture.NewEngine(store, capture.WithLogger(logger.NewTestLogger()))

	p, err := NewProcessor(testSecret, engine, store, nil, logger.NewTestLogger())
	require.NoError(t, err)

	return p, store, engine
}

func signed(body string) (payload []byte, signature string) {
	payload = []byte(body)

	return payload, ComputeSignature([]byte(testSecret), payload)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"job_completed"}`)
	sig := ComputeSignature([]byte(testSecret), body)

	require.NoError(t, VerifySignature([]byte(testSecret), body, sig))
	require.NoError(t, VerifySignature([]byte(testSecret), body, "  "+sig+" "))

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"missing prefix", sig[len(signaturePrefix):]},
		{"not hex", "sha256=zz"},
		{"wrong secret", ComputeSignature([]byte("other"), body)},
		{"truncated", sig[:len(sig)-2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, VerifySignature([]byte(testSecret), body, tt.header), ErrInvalidSignature)
		})
	}
}

func TestProcessWebhook_JobCompleted(t *testing.T) {
	p, store, _ := newTestProcessor(t)
	ctx := context.Background()

	body, sig := signed(`{"type":"job_completed","data":{"job_id":"J-7","pages":3,"copies":2,"color":true}}`)

	res, err := p.ProcessWebhook(ctx, "dev-1", body, sig)
	require.NoError(t, err)
	require.NotNil(t, res.Capture)
	assert.Equal(t, TypeJobCompleted, res.Type)
	assert.False(t, res.Capture.Duplicate)

	stored, err := store.GetCapture(ctx, res.Capture.Capture.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceWebhook, stored.Source)
	assert.Equal(t, "J-7", stored.NativeJobID)
	assert.Equal(t, 6, stored.TotalUnits())
	assert.True(t, stored.Color)
}

func TestProcessWebhook_FlatPayload(t *testing.T) {
	p, store, _ := newTestProcessor(t)

	body, sig := signed(`{"type":"job_completed","job_id":"J-8","pages":1}`)

	res, err := p.ProcessWebhook(context.Background(), "dev-1", body, sig)
	require.NoError(t, err)

	stored, err := store.GetCapture(context.Background(), res.Capture.Capture.ID)
	require.NoError(t, err)
	assert.Equal(t, "J-8", stored.NativeJobID)
	assert.Equal(t, 1, stored.Copies)
}

func TestProcessWebhook_TamperedBodyRejected(t *testing.T) {
	p, store, _ := newTestProcessor(t)

	body, sig := signed(`{"type":"job_completed","data":{"job_id":"J-1","pages":1}}`)
	tampered := []byte(`{"type":"job_completed","data":{"job_id":"J-1","pages":100}}`)

	_, err := p.ProcessWebhook(context.Background(), "dev-1", tampered, sig)
	require.ErrorIs(t, err, ErrInvalidSignature)

	captured, err := store.ListCapturesByStatus(context.Background(), models.CaptureStatusCaptured, 10)
	require.NoError(t, err)
	assert.Empty(t, captured)

	_, err = p.ProcessWebhook(context.Background(), "dev-1", body, "")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestProcessWebhook_DeduplicatesAgainstPoll(t *testing.T) {
	p, store, engine := newTestProcessor(t)
	ctx := context.Background()

	polled, err := engine.CaptureJob(ctx, "dev-1", models.SourcePoll, models.RawJob{NativeID: "J-100", Pages: 4})
	require.NoError(t, err)

	body, sig := signed(`{"type":"job_completed","data":{"job_id":"J-100","pages":4}}`)

	res, err := p.ProcessWebhook(ctx, "dev-1", body, sig)
	require.NoError(t, err)
	assert.True(t, res.Capture.Duplicate)
	assert.Equal(t, polled.Capture.ID, res.Capture.Capture.ID)

	captured, err := store.ListCapturesByStatus(ctx, models.CaptureStatusCaptured, 10)
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, models.SourcePoll, captured[0].Source)
}

func TestProcessWebhook_StatusUpdate(t *testing.T) {
	p, store, _ := newTestProcessor(t)

	body, sig := signed(`{"type":"status_update","data":{"status":"error","errors":["paper jam"],"queue_depth":2,` +
		`"consumables":{"toner_black":12.5}}}`)

	res, err := p.ProcessWebhook(context.Background(), "dev-9", body, sig)
	require.NoError(t, err)
	require.NotNil(t, res.Sample)

	samples := store.StatusSamples("dev-9")
	require.Len(t, samples, 1)
	assert.Equal(t, models.DeviceStateError, samples[0].State)
	assert.Equal(t, []string{"paper jam"}, samples[0].Errors)
	assert.Equal(t, models.SourceWebhook, samples[0].Source)
	assert.InDelta(t, 12.5, samples[0].Consumables["toner_black"], 0.001)

	status, ok := store.PrinterStatus("dev-9")
	require.True(t, ok)
	assert.Equal(t, models.PrinterStatusError, status)
}

func TestProcessWebhook_UnknownTypeIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)

	capturer := NewMockJobCapturer(ctrl)
	statusStore := NewMockStatusStore(ctrl)
	recorder := NewMockRecorder(ctrl)

	recorder.EXPECT().WebhookRecorded("toner_low", ResultIgnored)

	p, err := NewProcessor(testSecret, capturer, statusStore, recorder, logger.NewTestLogger())
	require.NoError(t, err)

	body, sig := signed(`{"type":"toner_low","data":{}}`)

	res, err := p.ProcessWebhook(context.Background(), "dev-1", body, sig)
	require.NoError(t, err)
	assert.True(t, res.Ignored)
}

func TestProcessWebhook_InvalidPayloads(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	tests := []struct {
		name     string
		deviceID string
		body     string
		want     error
	}{
		{"not json", "dev-1", `{nope`, ErrInvalidPayload},
		{"missing job id", "dev-1", `{"type":"job_completed","data":{"pages":1}}`, ErrInvalidPayload},
		{"bad job fields", "dev-1", `{"type":"job_completed","data":{"pages":"many"}}`, ErrInvalidPayload},
		{"no device", "", `{"type":"job_completed","data":{"job_id":"J"}}`, ErrDeviceIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, sig := signed(tt.body)

			_, err := p.ProcessWebhook(context.Background(), tt.deviceID, body, sig)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessWebhook_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	capturer := NewMockJobCapturer(ctrl)
	statusStore := NewMockStatusStore(ctrl)
	errBoom := errors.New("boom")

	statusStore.EXPECT().AppendStatusSample(gomock.Any(), gomock.Any()).Return(errBoom)

	p, err := NewProcessor(testSecret, capturer, statusStore, nil, logger.NewTestLogger())
	require.NoError(t, err)

	body, sig := signed(`{"type":"status_update","data":{"status":"online"}}`)

	_, err = p.ProcessWebhook(context.Background(), "dev-1", body, sig)
	require.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrInvalidPayload)
}

func TestNewProcessor_Requirements(t *testing.T) {
	store := db.NewMemoryStore()
	engine := capture.NewEngine(store)

	_, err := NewProcessor("", engine, store, nil, nil)
	require.Error(t, err)

	_, err = NewProcessor(testSecret, nil, store, nil, nil)
	require.Error(t, err)

	_, err = NewProcessor(testSecret, engine, nil, nil, nil)
	require.Error(t, err)
}
