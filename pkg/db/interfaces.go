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

// Package db is the integration record store: device integrations, captured
// job events, status samples and the billing tables, on PostgreSQL or in memory.
package db

import (
	"context"
	"time"

	"github.com/carverauto/printradar/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/printradar/pkg/db Service,BillingTx

// Service is the persistence contract shared by the scheduler, the capture
// engine, the webhook ingress and the control API.
type Service interface {
	Close() error

	// Integration operations.

	UpsertIntegration(ctx context.Context, integration *models.DeviceIntegration) error
	GetIntegration(ctx context.Context, id string) (*models.DeviceIntegration, error)
	GetIntegrationByDevice(ctx context.Context, deviceID string) (*models.DeviceIntegration, error)
	ListActiveIntegrations(ctx context.Context) ([]*models.DeviceIntegration, error)
	SetIntegrationActive(ctx context.Context, id string, active bool) error
	UpdateLastSync(ctx context.Context, id string, at time.Time) error

	// Capture operations.

	// InsertCaptureIfAbsent stores the event unless (device_id, native_job_id)
	// already exists. It reports whether a row was written; on a duplicate the
	// stored row is copied into event.
	InsertCaptureIfAbsent(ctx context.Context, event *models.CapturedJobEvent) (bool, error)
	GetCapture(ctx context.Context, id string) (*models.CapturedJobEvent, error)
	ListCapturesByStatus(ctx context.Context, status models.CaptureStatus, limit int) ([]*models.CapturedJobEvent, error)

	// Status operations.

	AppendStatusSample(ctx context.Context, sample *models.DeviceStatusSample) error
	LatestStatusSample(ctx context.Context, deviceID string) (*models.DeviceStatusSample, error)
	UpdatePrinterStatus(ctx context.Context, deviceID string, status models.PrinterStatus) error

	// Billing operations.

	// WithBillingTx runs fn inside one transaction. A nil return commits,
	// anything else rolls back every write fn made.
	WithBillingTx(ctx context.Context, fn func(ctx context.Context, tx BillingTx) error) error
}

// BillingTx is the set of row-locked reads and writes available inside
// WithBillingTx.
type BillingTx interface {
	GetCaptureForUpdate(ctx context.Context, captureID string) (*models.CapturedJobEvent, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetQuotaForUpdate(ctx context.Context, userID string) (*models.PrintQuota, error)
	// GetCostByDepartment returns ErrCostNotFound when the department has no rate row.
	GetCostByDepartment(ctx context.Context, departmentID string) (*models.PrintCost, error)
	CreatePrintJob(ctx context.Context, job *models.PrintJob) error
	IncrementQuota(ctx context.Context, userID string, color bool, units int) error
	MarkCaptureProcessed(ctx context.Context, captureID string, userID, printJobID *string, at time.Time) error
	MarkCaptureFailed(ctx context.Context, captureID, reason string) error
}
