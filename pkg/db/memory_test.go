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

package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/printradar/pkg/models"
)

func testIntegration(id, deviceID string) *models.DeviceIntegration {
	return &models.DeviceIntegration{
		ID:                  id,
		DeviceID:            deviceID,
		Protocol:            models.ProtocolHTTP,
		Endpoint:            "http://printer.local",
		AuthMode:            models.AuthNone,
		PollIntervalSeconds: 60,
		Active:              true,
	}
}

func TestMemoryStoreIntegrations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.UpsertIntegration(ctx, testIntegration("i-1", "p-1")))
	require.NoError(t, store.UpsertIntegration(ctx, testIntegration("i-2", "p-2")))

	synced := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateLastSync(ctx, "i-1", synced))

	// A CRUD update must not clobber the scheduler owned last_sync_at.
	updated := testIntegration("i-1", "p-1")
	updated.Endpoint = "http://printer-2.local"
	require.NoError(t, store.UpsertIntegration(ctx, updated))

	got, err := store.GetIntegration(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, "http://printer-2.local", got.Endpoint)
	require.NotNil(t, got.LastSyncAt)
	assert.True(t, synced.Equal(*got.LastSyncAt))

	require.NoError(t, store.SetIntegrationActive(ctx, "i-2", false))

	active, err := store.ListActiveIntegrations(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "i-1", active[0].ID)

	byDevice, err := store.GetIntegrationByDevice(ctx, "p-2")
	require.NoError(t, err)
	assert.False(t, byDevice.Active)

	_, err = store.GetIntegration(ctx, "missing")
	assert.ErrorIs(t, err, ErrIntegrationNotFound)
	assert.ErrorIs(t, store.UpdateLastSync(ctx, "missing", synced), ErrIntegrationNotFound)
}

func TestMemoryStoreInsertCaptureIfAbsentConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const workers = 16

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
		ids      = make(map[string]struct{})
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			event := models.NewCapturedJobEvent("", "p-1", models.SourcePoll,
				models.RawJob{NativeID: "J-9", Pages: 2}, time.Now())

			ok, err := store.InsertCaptureIfAbsent(ctx, event)
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()

			if ok {
				inserted++
			}

			ids[event.ID] = struct{}{}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, inserted)
	assert.Len(t, ids, 1, "duplicates must observe the stored row")

	captured, err := store.ListCapturesByStatus(ctx, models.CaptureStatusCaptured, 0)
	require.NoError(t, err)
	assert.Len(t, captured, 1)
}

func TestMemoryStoreInsertCaptureRequiresKey(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.InsertCaptureIfAbsent(context.Background(), &models.CapturedJobEvent{DeviceID: "p-1"})
	assert.ErrorIs(t, err, ErrCaptureKeyMissing)
}

func TestMemoryStoreBillingTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(models.User{ID: "u-1", DepartmentID: "d-1", Active: true})
	store.PutQuota(models.PrintQuota{UserID: "u-1", MonthlyLimit: 100})

	event := models.NewCapturedJobEvent("c-1", "p-1", models.SourcePoll, models.RawJob{NativeID: "J-1", Pages: 5}, time.Now())
	_, err := store.InsertCaptureIfAbsent(ctx, event)
	require.NoError(t, err)

	errBoom := errors.New("boom")

	err = store.WithBillingTx(ctx, func(ctx context.Context, tx BillingTx) error {
		require.NoError(t, tx.IncrementQuota(ctx, "u-1", false, 5))
		require.NoError(t, tx.CreatePrintJob(ctx, &models.PrintJob{ID: "j-1", CaptureID: "c-1", UserID: "u-1"}))
		require.NoError(t, tx.MarkCaptureProcessed(ctx, "c-1", nil, nil, time.Now()))

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	quota, _ := store.Quota("u-1")
	assert.Zero(t, quota.CurrentUsage)
	assert.Empty(t, store.PrintJobs())

	got, err := store.GetCapture(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.CaptureStatusCaptured, got.Status)
}

func TestMemoryStoreIncrementQuotaRefusesOverflow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutQuota(models.PrintQuota{UserID: "u-1", MonthlyLimit: 10, CurrentUsage: 8, ColorLimit: 4})

	err := store.WithBillingTx(ctx, func(ctx context.Context, tx BillingTx) error {
		assert.ErrorIs(t, tx.IncrementQuota(ctx, "u-1", false, 3), ErrQuotaWouldOverflow)

		return tx.IncrementQuota(ctx, "u-1", true, 4)
	})
	require.NoError(t, err)

	quota, ok := store.Quota("u-1")
	require.True(t, ok)
	assert.Equal(t, 8, quota.CurrentUsage)
	assert.Equal(t, 4, quota.ColorUsage)
}

func TestMemoryStoreStatusSamples(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendStatusSample(ctx, &models.DeviceStatusSample{
		DeviceID: "p-1", State: models.DeviceStateOnline, SampledAt: base.Add(time.Minute),
	}))
	require.NoError(t, store.AppendStatusSample(ctx, &models.DeviceStatusSample{
		DeviceID: "p-1", State: models.DeviceStateError, SampledAt: base,
	}))

	latest, err := store.LatestStatusSample(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStateOnline, latest.State)
	assert.NotEmpty(t, latest.ID)
	assert.Len(t, store.StatusSamples("p-1"), 2)

	_, err = store.LatestStatusSample(ctx, "p-2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.UpdatePrinterStatus(ctx, "p-1", models.PrinterStatusActive))
	status, ok := store.PrinterStatus("p-1")
	assert.True(t, ok)
	assert.Equal(t, models.PrinterStatusActive, status)
}
