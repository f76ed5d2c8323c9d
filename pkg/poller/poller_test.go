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

package poller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/connector"
	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/models"
)

const syncEvery = time.Hour

type harness struct {
	store  *db.MemoryStore
	clock  *fakeClock
	poller *Poller
	conns  map[string]connector.Connector
}

func newHarness(t *testing.T, conns map[string]connector.Connector, integrations ...*models.DeviceIntegration) *harness {
	t.Helper()

	store := db.NewMemoryStore()
	for _, in := range integrations {
		require.NoError(t, store.UpsertIntegration(context.Background(), in))
	}

	clock := newFakeClock()

	p, err := New(Config{
		SyncInterval: syncEvery,
		PollTimeout:  time.Second,
		Registry:     registryFor(conns),
	}, store, capture.NewEngine(store), clock, createTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_ = p.Stop(ctx)
	})

	return &harness{store: store, clock: clock, poller: p, conns: conns}
}

func (h *harness) captures(t *testing.T) []*models.CapturedJobEvent {
	t.Helper()

	out, err := h.store.ListCapturesByStatus(context.Background(), models.CaptureStatusCaptured, 0)
	require.NoError(t, err)

	return out
}

func TestStartPollsImmediatelyAndCaptures(t *testing.T) {
	conn := newFakeConnector(models.RawJob{NativeID: "J-1", Pages: 2}, models.RawJob{NativeID: "J-2", Pages: 1})
	h := newHarness(t, map[string]connector.Connector{"p-1": conn}, testIntegration("i-1", "p-1", 60))

	require.NoError(t, h.poller.Start(context.Background()))

	waitFor(t, func() bool {
		in, err := h.store.GetIntegration(context.Background(), "i-1")
		return err == nil && in.LastSyncAt != nil
	}, "last sync not recorded")

	assert.Len(t, h.captures(t), 2)

	samples := h.store.StatusSamples("p-1")
	require.Len(t, samples, 1)
	assert.Equal(t, models.DeviceStateOnline, samples[0].State)
	assert.Equal(t, models.SourcePoll, samples[0].Source)

	status, ok := h.store.PrinterStatus("p-1")
	require.True(t, ok)
	assert.Equal(t, models.PrinterStatusActive, status)

	snap := h.poller.Status()
	require.Len(t, snap, 1)
	assert.Equal(t, "p-1", snap[0].DeviceID)
	assert.Equal(t, time.Minute, snap[0].Interval)
	assert.Zero(t, snap[0].ConsecutiveFailures)

	// Re-reported jobs on the next tick stay deduplicated and the job log is
	// asked for jobs since the previous cycle.
	waitFor(t, func() bool { return h.clock.tickerCount(time.Minute) == 1 }, "device ticker not created")
	h.clock.tick(time.Minute)
	waitFor(t, func() bool { return conn.calls() == 2 && len(h.store.StatusSamples("p-1")) == 2 }, "second cycle did not run")

	assert.Len(t, h.captures(t), 2)

	conn.mu.Lock()
	defer conn.mu.Unlock()

	require.Len(t, conn.sinceSeen, 2)
	assert.Nil(t, conn.sinceSeen[0])
	require.NotNil(t, conn.sinceSeen[1])
	assert.True(t, testEpoch.Equal(*conn.sinceSeen[1]))
}

func TestFetchFailureRecordsErrorSampleAndOtherDevicesKeepPolling(t *testing.T) {
	broken := newFakeConnector(models.RawJob{NativeID: "X-1"})
	broken.statusErr = fmt.Errorf("%w: connection refused", connector.ErrConnectorUnreachable)
	healthy := newFakeConnector()

	h := newHarness(t,
		map[string]connector.Connector{"x": broken, "y": healthy},
		testIntegration("i-x", "x", 60),
		testIntegration("i-y", "y", 90),
	)

	require.NoError(t, h.poller.Start(context.Background()))

	waitFor(t, func() bool { return len(h.store.StatusSamples("x")) == 1 }, "no error sample for x")

	sample := h.store.StatusSamples("x")[0]
	assert.Equal(t, models.DeviceStateError, sample.State)
	require.Len(t, sample.Errors, 1)
	assert.Contains(t, sample.Errors[0], "connection refused")
	assert.Empty(t, h.captures(t), "a failed cycle must not capture")

	in, err := h.store.GetIntegration(context.Background(), "i-x")
	require.NoError(t, err)
	assert.Nil(t, in.LastSyncAt)

	waitFor(t, func() bool { return h.clock.tickerCount(90*time.Second) == 1 }, "y ticker not created")
	h.clock.tick(90 * time.Second)
	waitFor(t, func() bool { return healthy.calls() == 2 }, "y did not poll on its own tick")

	waitFor(t, func() bool { return h.clock.tickerCount(time.Minute) == 1 }, "x ticker not created")
	h.clock.tick(time.Minute)
	waitFor(t, func() bool { return broken.calls() == 2 }, "x ticker stopped firing after a failure")

	var xStatus DeviceStatus

	waitFor(t, func() bool {
		for _, s := range h.poller.Status() {
			if s.DeviceID == "x" {
				xStatus = s
			}
		}

		return xStatus.ConsecutiveFailures == 2
	}, "failures not counted")

	assert.Contains(t, xStatus.LastError, "connection refused")
}

func TestHungDeviceDoesNotDelayOthers(t *testing.T) {
	hung := newFakeConnector()
	hung.gate = make(chan struct{})
	defer close(hung.gate)

	healthy := newFakeConnector()

	h := newHarness(t,
		map[string]connector.Connector{"hung": hung, "ok": healthy},
		testIntegration("i-hung", "hung", 60),
		testIntegration("i-ok", "ok", 120),
	)

	require.NoError(t, h.poller.Start(context.Background()))
	<-hung.entered

	waitFor(t, func() bool { return h.clock.tickerCount(2*time.Minute) == 1 }, "ok ticker not created")

	for i := 0; i < 3; i++ {
		h.clock.tick(2 * time.Minute)
		want := i + 2
		waitFor(t, func() bool { return healthy.calls() == want }, "healthy device blocked by hung device")
	}
}

func TestRemoveDeviceLetsInFlightCycleFinish(t *testing.T) {
	conn := newFakeConnector(models.RawJob{NativeID: "J-9", Pages: 4})
	conn.gate = make(chan struct{})

	h := newHarness(t, map[string]connector.Connector{"p-1": conn}, testIntegration("i-1", "p-1", 60))
	require.NoError(t, h.poller.Start(context.Background()))

	<-conn.entered
	require.NoError(t, h.poller.RemoveDevice("p-1"))
	assert.Empty(t, h.poller.Status())

	close(conn.gate)

	waitFor(t, func() bool { return len(h.captures(t)) == 1 }, "in-flight cycle did not write its results")
	waitFor(t, conn.isClosed, "connector not closed after loop exit")

	h.clock.tick(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, conn.calls(), "no cycle may start after removal")

	assert.ErrorIs(t, h.poller.RemoveDevice("p-1"), ErrDeviceNotArmed)
}

func TestRestartWaitsForInFlightCycle(t *testing.T) {
	conn := newFakeConnector(models.RawJob{NativeID: "J-3", Pages: 1})
	conn.gate = make(chan struct{})

	h := newHarness(t, map[string]connector.Connector{"p-1": conn}, testIntegration("i-1", "p-1", 60))
	require.NoError(t, h.poller.Start(context.Background()))

	<-conn.entered
	require.NoError(t, h.poller.RestartDevice(context.Background(), "i-1"))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, conn.calls(), "replacement cycle started while the old one was in flight")

	close(conn.gate)

	waitFor(t, func() bool { return conn.calls() == 2 }, "replacement loop never polled")
	assert.Len(t, h.captures(t), 1)

	status := h.poller.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "i-1", status[0].IntegrationID)
}

func TestStopWaitsAndIsIdempotent(t *testing.T) {
	conn := newFakeConnector()
	conn.gate = make(chan struct{})

	h := newHarness(t, map[string]connector.Connector{"p-1": conn}, testIntegration("i-1", "p-1", 60))
	require.NoError(t, h.poller.Start(context.Background()))
	<-conn.entered

	stopped := make(chan error, 1)

	go func() { stopped <- h.poller.Stop(context.Background()) }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a cycle was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(conn.gate)
	require.NoError(t, <-stopped)
	require.NoError(t, h.poller.Stop(context.Background()))

	assert.ErrorIs(t, h.poller.Start(context.Background()), ErrSchedulerStopped)
	assert.ErrorIs(t, h.poller.AddDevice(context.Background(), "i-1"), ErrSchedulerStopped)
}

func TestStopHonorsContextDeadline(t *testing.T) {
	conn := newFakeConnector()
	conn.gate = make(chan struct{})
	defer close(conn.gate)

	h := newHarness(t, map[string]connector.Connector{"p-1": conn}, testIntegration("i-1", "p-1", 60))
	require.NoError(t, h.poller.Start(context.Background()))
	<-conn.entered

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := h.poller.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReconcileArmsDisarmsAndRestarts(t *testing.T) {
	c1, c2 := newFakeConnector(), newFakeConnector()
	h := newHarness(t, map[string]connector.Connector{"p-1": c1, "p-2": c2}, testIntegration("i-1", "p-1", 60))
	ctx := context.Background()

	require.NoError(t, h.poller.Start(ctx))
	require.Len(t, h.poller.Status(), 1)

	// New integration is armed on the next reconciliation.
	require.NoError(t, h.store.UpsertIntegration(ctx, testIntegration("i-2", "p-2", 60)))
	waitFor(t, func() bool { return h.clock.tickerCount(syncEvery) == 1 }, "sync ticker not created")
	h.clock.tick(syncEvery)
	waitFor(t, func() bool { return len(h.poller.Status()) == 2 }, "new integration not armed")

	// Interval change restarts the device with the new interval.
	changed := testIntegration("i-1", "p-1", 300)
	require.NoError(t, h.store.UpsertIntegration(ctx, changed))
	require.NoError(t, h.poller.Reconcile(ctx))

	var p1 DeviceStatus

	for _, s := range h.poller.Status() {
		if s.DeviceID == "p-1" {
			p1 = s
		}
	}

	assert.Equal(t, 5*time.Minute, p1.Interval)

	// Deactivation disarms.
	require.NoError(t, h.store.SetIntegrationActive(ctx, "i-2", false))
	require.NoError(t, h.poller.Reconcile(ctx))

	status := h.poller.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "p-1", status[0].DeviceID)
	waitFor(t, c2.isClosed, "disarmed connector not closed")
}

func TestAddAndRestartDevice(t *testing.T) {
	conn := newFakeConnector()
	h := newHarness(t, map[string]connector.Connector{"p-1": conn})
	ctx := context.Background()

	require.NoError(t, h.poller.Start(ctx))
	assert.Empty(t, h.poller.Status())

	inactive := testIntegration("i-1", "p-1", 60)
	inactive.Active = false
	require.NoError(t, h.store.UpsertIntegration(ctx, inactive))
	assert.ErrorIs(t, h.poller.AddDevice(ctx, "i-1"), ErrIntegrationInactive)

	require.NoError(t, h.store.SetIntegrationActive(ctx, "i-1", true))
	require.NoError(t, h.poller.AddDevice(ctx, "i-1"))
	waitFor(t, func() bool { return conn.calls() == 1 }, "added device did not poll immediately")

	// Adding an unchanged integration again does not restart it.
	require.NoError(t, h.poller.AddDevice(ctx, "i-1"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, conn.calls())

	require.NoError(t, h.poller.RestartDevice(ctx, "i-1"))
	waitFor(t, func() bool { return conn.calls() == 2 }, "restart did not poll immediately")

	require.NoError(t, h.store.SetIntegrationActive(ctx, "i-1", false))
	assert.ErrorIs(t, h.poller.RestartDevice(ctx, "i-1"), ErrIntegrationInactive)
	assert.Empty(t, h.poller.Status())

	assert.ErrorIs(t, h.poller.AddDevice(ctx, "missing"), db.ErrIntegrationNotFound)
}

func TestConnectorConstructionFailureDisablesOnlyThatDevice(t *testing.T) {
	good := newFakeConnector()
	h := newHarness(t,
		map[string]connector.Connector{"good": good},
		testIntegration("i-bad", "bad", 60),
		testIntegration("i-good", "good", 60),
	)

	require.NoError(t, h.poller.Start(context.Background()))
	waitFor(t, func() bool { return good.calls() == 1 }, "healthy device did not poll")

	status := h.poller.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "bad", status[0].DeviceID)
	assert.Equal(t, StateDisabled, status[0].State)
	assert.NotEmpty(t, status[0].LastError)

	samples := h.store.StatusSamples("bad")
	require.Len(t, samples, 1)
	assert.Equal(t, models.DeviceStateError, samples[0].State)

	// An unchanged broken integration is not rebuilt on every reconciliation.
	require.NoError(t, h.poller.Reconcile(context.Background()))
	assert.Len(t, h.store.StatusSamples("bad"), 1)
}

func TestCaptureFailureKeepsLastSyncUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	capturer := NewMockJobCapturer(ctrl)

	conn := newFakeConnector(models.RawJob{NativeID: "J-1"})
	store := db.NewMemoryStore()
	require.NoError(t, store.UpsertIntegration(context.Background(), testIntegration("i-1", "p-1", 60)))

	capturer.EXPECT().
		CaptureJob(gomock.Any(), "p-1", models.SourcePoll, gomock.Any()).
		Return(nil, errors.New("store unavailable"))

	clock := newFakeClock()
	p, err := New(Config{
		SyncInterval: syncEvery,
		Registry:     registryFor(map[string]connector.Connector{"p-1": conn}),
	}, store, capturer, clock, createTestLogger())
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(context.Background()) }()

	waitFor(t, func() bool {
		s := p.Status()
		return len(s) == 1 && s[0].ConsecutiveFailures == 1
	}, "partial cycle not reported")

	in, err := store.GetIntegration(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Nil(t, in.LastSyncAt)
	assert.Len(t, store.StatusSamples("p-1"), 1, "status sample is still kept")
}

func TestStartUsesIntegrationIntervalForTicker(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := NewMockClock(ctrl)
	syncTicker := NewMockTicker(ctrl)
	deviceTicker := NewMockTicker(ctrl)

	never := make(chan time.Time)

	clock.EXPECT().Now().Return(testEpoch).AnyTimes()
	clock.EXPECT().Ticker(syncEvery).Return(syncTicker)
	clock.EXPECT().Ticker(7 * time.Minute).Return(deviceTicker)
	syncTicker.EXPECT().Chan().Return(never).AnyTimes()
	deviceTicker.EXPECT().Chan().Return(never).AnyTimes()
	syncTicker.EXPECT().Stop()
	deviceTicker.EXPECT().Stop()

	conn := newFakeConnector()
	store := db.NewMemoryStore()
	require.NoError(t, store.UpsertIntegration(context.Background(), testIntegration("i-1", "p-1", 420)))

	p, err := New(Config{
		SyncInterval: syncEvery,
		Registry:     registryFor(map[string]connector.Connector{"p-1": conn}),
	}, store, capture.NewEngine(store), clock, createTestLogger())
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	waitFor(t, func() bool { return conn.calls() == 1 }, "device did not poll")
	require.NoError(t, p.Stop(context.Background()))
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{}, nil, capture.NewEngine(db.NewMemoryStore()), nil, nil)
	assert.ErrorIs(t, err, errStoreRequired)

	_, err = New(Config{}, db.NewMemoryStore(), nil, nil, nil)
	assert.ErrorIs(t, err, errCapturerRequired)
}
