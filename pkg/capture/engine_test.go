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

package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/models"
)

var fixedNow = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

type recordedEvent struct {
	eventType string
	subject   string
	data      interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakePublisher) Publish(_ context.Context, eventType, subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, recordedEvent{eventType: eventType, subject: subject, data: data})

	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.eventType)
	}

	return out
}

func newTestEngine(t *testing.T) (*Engine, *db.MemoryStore, *fakePublisher) {
	t.Helper()

	store := db.NewMemoryStore()
	store.PutUser(models.User{ID: "alice", DepartmentID: "finance", Active: true})
	store.PutQuota(models.PrintQuota{
		UserID:       "alice",
		MonthlyLimit: 1000,
		CurrentUsage: 950,
		ColorLimit:   100,
		ColorUsage:   50,
	})
	store.PutCost(models.PrintCost{DepartmentID: "finance", BWRate: 0.02, ColorRate: 0.15})

	pub := &fakePublisher{}
	engine := NewEngine(store,
		WithPublisher(pub),
		WithClock(func() time.Time { return fixedNow }),
		WithDefaultRates(models.BillingConfig{DefaultBWRate: 0.05, DefaultColorRate: 0.25}),
	)

	return engine, store, pub
}

func captureFor(t *testing.T, e *Engine, deviceID string, raw models.RawJob) *models.CapturedJobEvent {
	t.Helper()

	res, err := e.CaptureJob(context.Background(), deviceID, models.SourcePoll, raw)
	require.NoError(t, err)
	require.False(t, res.Duplicate)

	return res.Capture
}

func TestProcessCaptureRejectsOverQuotaMonochromeJob(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-1", Pages: 10, Copies: 6})

	_, err := engine.ProcessCapture(context.Background(), capture.ID, "alice")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	var qe *QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 1000, qe.Limit)
	assert.Equal(t, 950, qe.Usage)
	assert.Equal(t, 60, qe.Requested)
	assert.False(t, qe.Color)

	quota, _ := store.Quota("alice")
	assert.Equal(t, 950, quota.CurrentUsage)
	assert.Empty(t, store.PrintJobs())

	stored, err := store.GetCapture(context.Background(), capture.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaptureStatusCaptured, stored.Status)

	assert.Contains(t, pub.types(), models.EventTypeQuotaExceeded)
}

func TestProcessCaptureBillsColorJob(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-2", Pages: 4, Copies: 10, Color: true})

	res, err := engine.ProcessCapture(context.Background(), capture.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, res.PrintJob)

	assert.InDelta(t, 40*0.15, res.PrintJob.Cost, 1e-9)
	assert.Equal(t, models.PrintJobStatusCompleted, res.PrintJob.Status)
	assert.Equal(t, "printer-1", res.PrintJob.PrinterID)

	quota, _ := store.Quota("alice")
	assert.Equal(t, 90, quota.ColorUsage)
	assert.Equal(t, 950, quota.CurrentUsage)

	jobs := store.PrintJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, capture.ID, jobs[0].CaptureID)

	stored, err := store.GetCapture(context.Background(), capture.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaptureStatusProcessed, stored.Status)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, "alice", *stored.UserID)
	require.NotNil(t, stored.PrintJobID)
	assert.Equal(t, res.PrintJob.ID, *stored.PrintJobID)
	require.NotNil(t, stored.ProcessedAt)
	assert.True(t, fixedNow.Equal(*stored.ProcessedAt))

	assert.Equal(t, []string{models.EventTypeJobCaptured, models.EventTypeJobProcessed}, pub.types())
}

func TestProcessCaptureIsExactlyOnce(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-3", Pages: 5})

	_, err := engine.ProcessCapture(context.Background(), capture.ID, "alice")
	require.NoError(t, err)

	_, err = engine.ProcessCapture(context.Background(), capture.ID, "alice")
	require.ErrorIs(t, err, ErrCaptureAlreadyProcessed)

	quota, _ := store.Quota("alice")
	assert.Equal(t, 955, quota.CurrentUsage)
	assert.Len(t, store.PrintJobs(), 1)
}

func TestCaptureJobDeduplicatesAcrossSources(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.CaptureJob(ctx, "printer-1", models.SourcePoll, models.RawJob{NativeID: "J-100", Pages: 1})
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := engine.CaptureJob(ctx, "printer-1", models.SourceWebhook, models.RawJob{NativeID: " J-100 ", Pages: 1})
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Capture.ID, second.Capture.ID)
	assert.Equal(t, models.SourcePoll, second.Capture.Source)

	captured, err := store.ListCapturesByStatus(ctx, models.CaptureStatusCaptured, 0)
	require.NoError(t, err)
	assert.Len(t, captured, 1)
	assert.Equal(t, []string{models.EventTypeJobCaptured}, pub.types())
}

func TestCaptureJobSameNativeIDOnAnotherDevice(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	a, err := engine.CaptureJob(ctx, "printer-1", models.SourcePoll, models.RawJob{NativeID: "7"})
	require.NoError(t, err)

	b, err := engine.CaptureJob(ctx, "printer-2", models.SourcePoll, models.RawJob{NativeID: "7"})
	require.NoError(t, err)

	assert.False(t, b.Duplicate)
	assert.NotEqual(t, a.Capture.ID, b.Capture.ID)
}

func TestCaptureJobValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.CaptureJob(ctx, "printer-1", models.SourcePoll, models.RawJob{NativeID: "  "})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = engine.CaptureJob(ctx, "", models.SourcePoll, models.RawJob{NativeID: "J"})
	assert.ErrorIs(t, err, ErrDeviceIDRequired)
}

func TestCaptureJobRejectsOverflowingUnits(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	ctx := context.Background()

	for _, raw := range []models.RawJob{
		{NativeID: "J-huge", Pages: 1 << 62, Copies: 3},
		{NativeID: "J-wide", Pages: 1 << 20, Copies: 1 << 20},
		{NativeID: "J-copies", Pages: 1, Copies: models.MaxJobUnits + 1},
	} {
		_, err := engine.CaptureJob(ctx, "printer-1", models.SourceWebhook, raw)
		require.ErrorIs(t, err, ErrInvalidJob, raw.NativeID)
	}

	pending, err := store.ListCapturesByStatus(ctx, models.CaptureStatusCaptured, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, pub.types())

	quota, _ := store.Quota("alice")
	assert.Equal(t, 950, quota.CurrentUsage)
	assert.Empty(t, store.PrintJobs())
}

func TestProcessCaptureWithoutUserClosesCapture(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-4", Pages: 3})

	res, err := engine.ProcessCapture(context.Background(), capture.ID, "")
	require.NoError(t, err)
	assert.Nil(t, res.PrintJob)
	assert.Equal(t, models.CaptureStatusProcessed, res.Capture.Status)
	assert.Nil(t, res.Capture.UserID)

	quota, _ := store.Quota("alice")
	assert.Equal(t, 950, quota.CurrentUsage)
	assert.Empty(t, store.PrintJobs())
}

func TestProcessCaptureUnknownUserMarksFailed(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-5", Pages: 3})

	res, err := engine.ProcessCapture(context.Background(), capture.ID, "mallory")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NotNil(t, res)
	assert.Equal(t, models.CaptureStatusFailed, res.Capture.Status)

	stored, err := store.GetCapture(context.Background(), capture.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaptureStatusFailed, stored.Status)
	assert.Contains(t, stored.ProcessingError, "mallory")

	// A failed capture can still be attributed once the user exists.
	_, err = engine.ProcessCapture(context.Background(), capture.ID, "alice")
	require.NoError(t, err)
}

func TestProcessCaptureMissingQuotaAndCapture(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.PutUser(models.User{ID: "bob", DepartmentID: "finance", Active: true})
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-6", Pages: 1})

	_, err := engine.ProcessCapture(context.Background(), capture.ID, "bob")
	assert.ErrorIs(t, err, ErrQuotaNotFound)

	_, err = engine.ProcessCapture(context.Background(), "nope", "alice")
	assert.ErrorIs(t, err, ErrCaptureNotFound)
}

func TestProcessCaptureFallsBackToDefaultRates(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.PutUser(models.User{ID: "carol", DepartmentID: "ops", Active: true})
	store.PutQuota(models.PrintQuota{UserID: "carol", MonthlyLimit: 100})
	capture := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "J-7", Pages: 2, Copies: 3})

	res, err := engine.ProcessCapture(context.Background(), capture.ID, "carol")
	require.NoError(t, err)
	assert.InDelta(t, 6*0.05, res.PrintJob.Cost, 1e-9)
}

func TestProcessCaptureConcurrentBillingConservesQuota(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.PutQuota(models.PrintQuota{UserID: "alice", MonthlyLimit: 50})

	const jobs = 20

	ids := make([]string, 0, jobs)
	for i := 0; i < jobs; i++ {
		c := captureFor(t, engine, "printer-1", models.RawJob{NativeID: "C-" + string(rune('a'+i)), Pages: 3})
		ids = append(ids, c.ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		billed   int
		rejected int
	)

	for _, id := range ids {
		wg.Add(1)

		go func(id string) {
			defer wg.Done()

			_, err := engine.ProcessCapture(context.Background(), id, "alice")

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				billed++
			case errors.Is(err, ErrQuotaExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}

	wg.Wait()

	quota, _ := store.Quota("alice")
	assert.Equal(t, 16, billed)
	assert.Equal(t, jobs-16, rejected)
	assert.Equal(t, billed*3, quota.CurrentUsage)
	assert.LessOrEqual(t, quota.CurrentUsage, quota.MonthlyLimit)
	assert.Len(t, store.PrintJobs(), billed)
}

func TestProcessCaptureRollsBackOnWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := db.NewMockService(ctrl)
	tx := db.NewMockBillingTx(ctrl)
	recorder := NewMockRecorder(ctrl)

	errWrite := errors.New("disk full")
	capture := &models.CapturedJobEvent{
		ID: "c-1", DeviceID: "printer-1", NativeJobID: "J", Pages: 2, Copies: 1,
		Status: models.CaptureStatusCaptured,
	}

	store.EXPECT().WithBillingTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, db.BillingTx) error) error {
			return fn(ctx, tx)
		})
	tx.EXPECT().GetCaptureForUpdate(gomock.Any(), "c-1").Return(capture, nil)
	tx.EXPECT().GetUser(gomock.Any(), "alice").Return(&models.User{ID: "alice"}, nil)
	tx.EXPECT().GetQuotaForUpdate(gomock.Any(), "alice").Return(&models.PrintQuota{UserID: "alice", MonthlyLimit: 10}, nil)
	tx.EXPECT().CreatePrintJob(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().IncrementQuota(gomock.Any(), "alice", false, 2).Return(errWrite)
	recorder.EXPECT().ProcessingRecorded(ResultError)

	engine := NewEngine(store, WithRecorder(recorder))

	_, err := engine.ProcessCapture(context.Background(), "c-1", "alice")
	require.ErrorIs(t, err, errWrite)
}

func TestPublishFailureDoesNotFailCapture(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockEventPublisher(ctrl)
	pub.EXPECT().
		Publish(gomock.Any(), models.EventTypeJobCaptured, "printer-1", gomock.Any()).
		Return(errors.New("nats down"))

	engine := NewEngine(db.NewMemoryStore(), WithPublisher(pub))

	res, err := engine.CaptureJob(context.Background(), "printer-1", models.SourceWebhook, models.RawJob{NativeID: "W-1"})
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
}
