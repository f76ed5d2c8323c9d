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

package models

import "time"

const (
	// CloudEventSpecVersion is the CloudEvents version stamped on published events.
	CloudEventSpecVersion = "1.0"

	EventTypeJobCaptured   = "com.printradar.job.captured"
	EventTypeJobProcessed  = "com.printradar.job.processed"
	EventTypeQuotaExceeded = "com.printradar.quota.exceeded"
	EventTypeDeviceStatus  = "com.printradar.device.status"
)

// CloudEvent represents a CloudEvents v1.0 compliant event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// JobCapturedEvent is published after a new capture row is inserted.
type JobCapturedEvent struct {
	CaptureID   string        `json:"capture_id"`
	DeviceID    string        `json:"device_id"`
	NativeJobID string        `json:"native_job_id"`
	Source      CaptureSource `json:"source"`
	Pages       int           `json:"pages"`
	Copies      int           `json:"copies"`
	Color       bool          `json:"color"`
	CapturedAt  time.Time     `json:"captured_at"`
}

// JobProcessedEvent is published after the billing transaction commits.
type JobProcessedEvent struct {
	CaptureID   string    `json:"capture_id"`
	PrintJobID  string    `json:"print_job_id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	DeviceID    string    `json:"device_id"`
	Units       int       `json:"units"`
	Color       bool      `json:"color"`
	Cost        float64   `json:"cost"`
	ProcessedAt time.Time `json:"processed_at"`
}

// QuotaExceededEvent is published when a capture is rejected by the quota check.
type QuotaExceededEvent struct {
	CaptureID string    `json:"capture_id"`
	UserID    string    `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	Color     bool      `json:"color"`
	Limit     int       `json:"limit"`
	Usage     int       `json:"usage"`
	Requested int       `json:"requested"`
	At        time.Time `json:"at"`
}
