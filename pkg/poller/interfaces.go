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

//go:generate mockgen -destination=mock_poller.go -package=poller github.com/carverauto/printradar/pkg/poller Clock,Ticker,JobCapturer

import (
	"context"
	"time"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/models"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Store is the slice of the persistence contract the scheduler needs.
type Store interface {
	ListActiveIntegrations(ctx context.Context) ([]*models.DeviceIntegration, error)
	GetIntegration(ctx context.Context, id string) (*models.DeviceIntegration, error)
	AppendStatusSample(ctx context.Context, sample *models.DeviceStatusSample) error
	UpdatePrinterStatus(ctx context.Context, deviceID string, status models.PrinterStatus) error
	UpdateLastSync(ctx context.Context, id string, at time.Time) error
}

var _ Store = (db.Service)(nil)

// JobCapturer records jobs found in a device's job log.
type JobCapturer interface {
	CaptureJob(ctx context.Context, deviceID string, source models.CaptureSource, raw models.RawJob) (*capture.CaptureResult, error)
}

// Recorder receives poll outcomes for metrics.
type Recorder interface {
	PollRecorded(protocol models.ProtocolKind, result string, elapsed time.Duration)
	ArmedDevices(n int)
}

type nopRecorder struct{}

func (nopRecorder) PollRecorded(models.ProtocolKind, string, time.Duration) {}
func (nopRecorder) ArmedDevices(int)                                        {}
