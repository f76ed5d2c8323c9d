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

	"github.com/carverauto/printradar/pkg/models"
)

//go:generate mockgen -destination=mock_capture.go -package=capture github.com/carverauto/printradar/pkg/capture EventPublisher,Recorder

// EventPublisher emits CloudEvents. Publishing is best-effort and happens
// after the store has committed.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, subject string, data interface{}) error
}

// Recorder receives capture and processing outcomes for metrics.
type Recorder interface {
	CaptureRecorded(source models.CaptureSource, result string)
	ProcessingRecorded(result string)
}

// Capture outcomes reported to Recorder.
const (
	ResultCaptured  = "captured"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
	ResultError     = "error"
)

// Processing outcomes reported to Recorder.
const (
	ResultProcessed        = "processed"
	ResultUnattributed     = "unattributed"
	ResultQuotaExceeded    = "quota_exceeded"
	ResultUserNotFound     = "user_not_found"
	ResultQuotaNotFound    = "quota_not_found"
	ResultAlreadyProcessed = "already_processed"
	ResultNotFound         = "not_found"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }

type nopRecorder struct{}

func (nopRecorder) CaptureRecorded(models.CaptureSource, string) {}
func (nopRecorder) ProcessingRecorded(string)                    {}
