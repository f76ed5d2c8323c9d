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
	"sync"
	"time"

	"github.com/carverauto/printradar/pkg/connector"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// DeviceState is where a device's loop currently is.
type DeviceState string

const (
	StateIdle      DeviceState = "idle"
	StateScheduled DeviceState = "scheduled"
	StatePolling   DeviceState = "polling"
	// StateDisabled marks a device whose connector could not be built.
	StateDisabled DeviceState = "disabled"
)

// Poll outcomes reported to Recorder.
const (
	ResultSuccess     = "success"
	ResultUnreachable = "unreachable"
	ResultPartial     = "partial"
)

// DeviceStatus is a point-in-time view of one device's poller.
type DeviceStatus struct {
	DeviceID            string              `json:"device_id"`
	IntegrationID       string              `json:"integration_id"`
	Protocol            models.ProtocolKind `json:"protocol"`
	State               DeviceState         `json:"state"`
	Interval            time.Duration       `json:"interval"`
	LastPollAt          *time.Time          `json:"last_poll_at,omitempty"`
	LastSuccessAt       *time.Time          `json:"last_success_at,omitempty"`
	LastError           string              `json:"last_error,omitempty"`
	ConsecutiveFailures int                 `json:"consecutive_failures"`
}

// Poller is the polling scheduler: one independent loop per active device
// integration, keyed by device id.
type Poller struct {
	config   Config
	store    Store
	capturer JobCapturer
	clock    Clock
	logger   logger.Logger

	mu      sync.Mutex
	devices map[string]*devicePoller
	started bool
	stopped bool

	// runCtx outlives device removal so in-flight cycles can finish; it is
	// only cancelled when Stop gives up waiting.
	runCtx    context.Context
	runCancel context.CancelFunc
	syncStop  context.CancelFunc
	wg        sync.WaitGroup
}

// devicePoller owns one device's loop and connector.
type devicePoller struct {
	integration *models.DeviceIntegration
	scheduleKey string
	conn        connector.Connector
	poller      *Poller
	logger      logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
	// replaced is the loop this one took over from; its done channel must
	// close before the first cycle here.
	replaced <-chan struct{}

	mu                  sync.Mutex
	state               DeviceState
	lastSync            *time.Time
	lastPollAt          *time.Time
	lastSuccessAt       *time.Time
	lastError           string
	consecutiveFailures int
}
