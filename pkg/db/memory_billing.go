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
	"fmt"
	"time"

	"github.com/carverauto/printradar/pkg/models"
)

// WithBillingTx implements Service. Writes are staged on the transaction and
// applied only when fn returns nil.
func (m *MemoryStore) WithBillingTx(ctx context.Context, fn func(ctx context.Context, tx BillingTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryBillingTx{
		store:    m,
		captures: make(map[string]*models.CapturedJobEvent),
		quotas:   make(map[string]*models.PrintQuota),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()

	return nil
}

// memoryBillingTx runs with store.mu held.
type memoryBillingTx struct {
	store    *MemoryStore
	captures map[string]*models.CapturedJobEvent
	quotas   map[string]*models.PrintQuota
	jobs     []*models.PrintJob
}

func (t *memoryBillingTx) capture(id string) (*models.CapturedJobEvent, bool) {
	if staged, ok := t.captures[id]; ok {
		return staged, true
	}

	stored, ok := t.store.captures[id]
	if !ok {
		return nil, false
	}

	staged := cloneCapture(stored)
	t.captures[id] = staged

	return staged, true
}

func (t *memoryBillingTx) quota(userID string) (*models.PrintQuota, bool) {
	if staged, ok := t.quotas[userID]; ok {
		return staged, true
	}

	stored, ok := t.store.quotas[userID]
	if !ok {
		return nil, false
	}

	staged := *stored
	t.quotas[userID] = &staged

	return &staged, true
}

func (t *memoryBillingTx) GetCaptureForUpdate(_ context.Context, captureID string) (*models.CapturedJobEvent, error) {
	event, ok := t.capture(captureID)
	if !ok {
		return nil, ErrCaptureNotFound
	}

	return cloneCapture(event), nil
}

func (t *memoryBillingTx) GetUser(_ context.Context, userID string) (*models.User, error) {
	user, ok := t.store.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	out := *user

	return &out, nil
}

func (t *memoryBillingTx) GetQuotaForUpdate(_ context.Context, userID string) (*models.PrintQuota, error) {
	quota, ok := t.quota(userID)
	if !ok {
		return nil, ErrQuotaNotFound
	}

	out := *quota

	return &out, nil
}

func (t *memoryBillingTx) GetCostByDepartment(_ context.Context, departmentID string) (*models.PrintCost, error) {
	cost, ok := t.store.costs[departmentID]
	if !ok {
		return nil, ErrCostNotFound
	}

	out := *cost

	return &out, nil
}

func (t *memoryBillingTx) CreatePrintJob(_ context.Context, job *models.PrintJob) error {
	if job == nil {
		return ErrPrintJobNil
	}

	if _, ok := t.store.printJobByCap[job.CaptureID]; ok {
		return fmt.Errorf("%w: print job for capture %s already exists", ErrFailedToInsert, job.CaptureID)
	}

	for _, staged := range t.jobs {
		if staged.CaptureID == job.CaptureID {
			return fmt.Errorf("%w: print job for capture %s already exists", ErrFailedToInsert, job.CaptureID)
		}
	}

	stored := *job
	t.jobs = append(t.jobs, &stored)

	return nil
}

func (t *memoryBillingTx) IncrementQuota(_ context.Context, userID string, color bool, units int) error {
	quota, ok := t.quota(userID)
	if !ok {
		return ErrQuotaNotFound
	}

	if !quota.Fits(color, units) {
		return ErrQuotaWouldOverflow
	}

	if color {
		quota.ColorUsage += units
	} else {
		quota.CurrentUsage += units
	}

	return nil
}

func (t *memoryBillingTx) MarkCaptureProcessed(
	_ context.Context, captureID string, userID, printJobID *string, at time.Time) error {
	event, ok := t.capture(captureID)
	if !ok {
		return ErrCaptureNotFound
	}

	if event.Status == models.CaptureStatusProcessed {
		return fmt.Errorf("%w: %s", ErrCaptureNotCaptured, captureID)
	}

	at = at.UTC()
	event.Status = models.CaptureStatusProcessed
	event.UserID = userID
	event.PrintJobID = printJobID
	event.ProcessedAt = &at
	event.ProcessingError = ""

	return nil
}

func (t *memoryBillingTx) MarkCaptureFailed(_ context.Context, captureID, reason string) error {
	event, ok := t.capture(captureID)
	if !ok {
		return ErrCaptureNotFound
	}

	if event.Status == models.CaptureStatusProcessed {
		return fmt.Errorf("%w: %s", ErrCaptureNotCaptured, captureID)
	}

	event.Status = models.CaptureStatusFailed
	event.ProcessingError = reason

	return nil
}

func (t *memoryBillingTx) commit() {
	for id, event := range t.captures {
		t.store.captures[id] = event
	}

	for userID, quota := range t.quotas {
		t.store.quotas[userID] = quota
	}

	for _, job := range t.jobs {
		t.store.printJobs = append(t.store.printJobs, job)
		t.store.printJobByCap[job.CaptureID] = job.ID
	}
}
