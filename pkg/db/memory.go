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
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/printradar/pkg/models"
)

// MemoryStore is an in-process Service used for local development and tests.
// A billing transaction holds the store lock until it commits, so billing is
// serialized exactly like row locks on a single quota row would serialize it.
type MemoryStore struct {
	mu            sync.Mutex
	integrations  map[string]*models.DeviceIntegration
	captures      map[string]*models.CapturedJobEvent
	captureKeys   map[captureKey]string
	samples       map[string][]*models.DeviceStatusSample
	printers      map[string]models.PrinterStatus
	users         map[string]*models.User
	quotas        map[string]*models.PrintQuota
	costs         map[string]*models.PrintCost
	printJobs     []*models.PrintJob
	printJobByCap map[string]string
}

type captureKey struct {
	deviceID string
	nativeID string
}

var _ Service = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		integrations:  make(map[string]*models.DeviceIntegration),
		captures:      make(map[string]*models.CapturedJobEvent),
		captureKeys:   make(map[captureKey]string),
		samples:       make(map[string][]*models.DeviceStatusSample),
		printers:      make(map[string]models.PrinterStatus),
		users:         make(map[string]*models.User),
		quotas:        make(map[string]*models.PrintQuota),
		costs:         make(map[string]*models.PrintCost),
		printJobByCap: make(map[string]string),
	}
}

// Close implements Service.
func (*MemoryStore) Close() error { return nil }

// UpsertIntegration implements Service.
func (m *MemoryStore) UpsertIntegration(_ context.Context, integration *models.DeviceIntegration) error {
	if integration == nil {
		return ErrIntegrationNil
	}

	if err := integration.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneIntegration(integration)

	if existing, ok := m.integrations[integration.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
		stored.LastSyncAt = existing.LastSyncAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	stored.UpdatedAt = now
	m.integrations[integration.ID] = stored

	integration.CreatedAt = stored.CreatedAt
	integration.UpdatedAt = stored.UpdatedAt

	return nil
}

// GetIntegration implements Service.
func (m *MemoryStore) GetIntegration(_ context.Context, id string) (*models.DeviceIntegration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	integration, ok := m.integrations[id]
	if !ok {
		return nil, ErrIntegrationNotFound
	}

	return cloneIntegration(integration), nil
}

// GetIntegrationByDevice implements Service.
func (m *MemoryStore) GetIntegrationByDevice(_ context.Context, deviceID string) (*models.DeviceIntegration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *models.DeviceIntegration

	for _, integration := range m.integrations {
		if integration.DeviceID != deviceID {
			continue
		}

		if found == nil || integration.UpdatedAt.After(found.UpdatedAt) {
			found = integration
		}
	}

	if found == nil {
		return nil, ErrIntegrationNotFound
	}

	return cloneIntegration(found), nil
}

// ListActiveIntegrations implements Service.
func (m *MemoryStore) ListActiveIntegrations(_ context.Context) ([]*models.DeviceIntegration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.DeviceIntegration, 0, len(m.integrations))

	for _, integration := range m.integrations {
		if integration.Active {
			out = append(out, cloneIntegration(integration))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// SetIntegrationActive implements Service.
func (m *MemoryStore) SetIntegrationActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	integration, ok := m.integrations[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrIntegrationNotFound, id)
	}

	integration.Active = active
	integration.UpdatedAt = time.Now().UTC()

	return nil
}

// UpdateLastSync implements Service.
func (m *MemoryStore) UpdateLastSync(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	integration, ok := m.integrations[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrIntegrationNotFound, id)
	}

	at = at.UTC()
	integration.LastSyncAt = &at

	return nil
}

// InsertCaptureIfAbsent implements Service.
func (m *MemoryStore) InsertCaptureIfAbsent(_ context.Context, event *models.CapturedJobEvent) (bool, error) {
	if event == nil {
		return false, ErrCaptureNil
	}

	if event.DeviceID == "" || event.NativeJobID == "" {
		return false, ErrCaptureKeyMissing
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := captureKey{deviceID: event.DeviceID, nativeID: event.NativeJobID}
	if id, ok := m.captureKeys[key]; ok {
		*event = *cloneCapture(m.captures[id])

		return false, nil
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	m.captures[event.ID] = cloneCapture(event)
	m.captureKeys[key] = event.ID

	return true, nil
}

// GetCapture implements Service.
func (m *MemoryStore) GetCapture(_ context.Context, id string) (*models.CapturedJobEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.captures[id]
	if !ok {
		return nil, ErrCaptureNotFound
	}

	return cloneCapture(event), nil
}

// ListCapturesByStatus implements Service.
func (m *MemoryStore) ListCapturesByStatus(
	_ context.Context, status models.CaptureStatus, limit int) ([]*models.CapturedJobEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.CapturedJobEvent

	for _, event := range m.captures {
		if event.Status == status {
			out = append(out, cloneCapture(event))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CapturedAt.Equal(out[j].CapturedAt) {
			return out[i].ID < out[j].ID
		}

		return out[i].CapturedAt.Before(out[j].CapturedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// AppendStatusSample implements Service.
func (m *MemoryStore) AppendStatusSample(_ context.Context, sample *models.DeviceStatusSample) error {
	if sample == nil {
		return ErrStatusSampleNil
	}

	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *sample
	m.samples[sample.DeviceID] = append(m.samples[sample.DeviceID], &stored)

	return nil
}

// LatestStatusSample implements Service.
func (m *MemoryStore) LatestStatusSample(_ context.Context, deviceID string) (*models.DeviceStatusSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	samples := m.samples[deviceID]
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: status sample for %s", ErrNotFound, deviceID)
	}

	latest := samples[0]

	for _, s := range samples[1:] {
		if !s.SampledAt.Before(latest.SampledAt) {
			latest = s
		}
	}

	out := *latest

	return &out, nil
}

// UpdatePrinterStatus implements Service.
func (m *MemoryStore) UpdatePrinterStatus(_ context.Context, deviceID string, status models.PrinterStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.printers[deviceID] = status

	return nil
}

// StatusSamples returns every sample recorded for a device, oldest first.
func (m *MemoryStore) StatusSamples(deviceID string) []models.DeviceStatusSample {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.DeviceStatusSample, 0, len(m.samples[deviceID]))
	for _, s := range m.samples[deviceID] {
		out = append(out, *s)
	}

	return out
}

// PrinterStatus returns the last status written for a device.
func (m *MemoryStore) PrinterStatus(deviceID string) (models.PrinterStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, ok := m.printers[deviceID]

	return status, ok
}

// PutUser seeds a user row.
func (m *MemoryStore) PutUser(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = &user
}

// PutQuota seeds or replaces a quota row.
func (m *MemoryStore) PutQuota(quota models.PrintQuota) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.quotas[quota.UserID] = &quota
}

// PutCost seeds a department rate row.
func (m *MemoryStore) PutCost(cost models.PrintCost) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.costs[cost.DepartmentID] = &cost
}

// Quota returns a copy of a user's quota row.
func (m *MemoryStore) Quota(userID string) (models.PrintQuota, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	quota, ok := m.quotas[userID]
	if !ok {
		return models.PrintQuota{}, false
	}

	return *quota, true
}

// PrintJobs returns every billed job in creation order.
func (m *MemoryStore) PrintJobs() []models.PrintJob {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.PrintJob, 0, len(m.printJobs))
	for _, job := range m.printJobs {
		out = append(out, *job)
	}

	return out
}

func cloneIntegration(in *models.DeviceIntegration) *models.DeviceIntegration {
	out := *in

	if in.Credentials != nil {
		out.Credentials = append([]byte(nil), in.Credentials...)
	}

	if in.LastSyncAt != nil {
		at := *in.LastSyncAt
		out.LastSyncAt = &at
	}

	return &out
}

func cloneCapture(in *models.CapturedJobEvent) *models.CapturedJobEvent {
	out := *in

	if in.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(in.Metadata))
		for k, v := range in.Metadata {
			out.Metadata[k] = v
		}
	}

	return &out
}
