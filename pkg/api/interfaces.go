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

package api

import (
	"context"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/models"
	"github.com/carverauto/printradar/pkg/poller"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/printradar/pkg/api Scheduler,CaptureProcessor,CaptureStore

// Scheduler is the part of the poll scheduler the API drives.
type Scheduler interface {
	Status() []poller.DeviceStatus
	AddDevice(ctx context.Context, integrationID string) error
	RestartDevice(ctx context.Context, integrationID string) error
	RemoveDevice(deviceID string) error
}

// CaptureProcessor attributes and bills captures.
type CaptureProcessor interface {
	ProcessCapture(ctx context.Context, captureID, userID string) (*capture.ProcessResult, error)
}

// CaptureStore lists captures for review.
type CaptureStore interface {
	ListCapturesByStatus(ctx context.Context, status models.CaptureStatus, limit int) ([]*models.CapturedJobEvent, error)
}

var (
	_ Scheduler        = (*poller.Poller)(nil)
	_ CaptureProcessor = (*capture.Engine)(nil)
)
