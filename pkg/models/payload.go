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

import (
	"strings"
	"time"
)

// JobPayload is the JSON shape of a completed job pushed by a device or
// returned from a generic HTTP job log.
type JobPayload struct {
	JobID       string                 `json:"job_id"`
	FileName    string                 `json:"file_name,omitempty"`
	Pages       int                    `json:"pages"`
	Copies      int                    `json:"copies,omitempty"`
	Color       bool                   `json:"color"`
	PaperSize   string                 `json:"paper_size,omitempty"`
	PaperType   string                 `json:"paper_type,omitempty"`
	Quality     string                 `json:"quality,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// RawJob converts the payload into the protocol neutral job shape.
func (p *JobPayload) RawJob() RawJob {
	raw := RawJob{
		NativeID:    strings.TrimSpace(p.JobID),
		FileName:    p.FileName,
		Pages:       p.Pages,
		Copies:      p.Copies,
		Color:       p.Color,
		PaperSize:   p.PaperSize,
		PaperType:   p.PaperType,
		Quality:     p.Quality,
		Metadata:    p.Metadata,
		CompletedAt: p.CompletedAt,
	}
	raw.Normalize()

	return raw
}

// StatusPayload is the JSON shape of a device status report.
type StatusPayload struct {
	Status       string             `json:"status"`
	Consumables  map[string]float64 `json:"consumables,omitempty"`
	Errors       []string           `json:"errors,omitempty"`
	QueueDepth   int                `json:"queue_depth"`
	MonthlyPages int                `json:"monthly_pages"`
}

// Sample converts the payload into a status sample for deviceID.
func (p *StatusPayload) Sample(deviceID string, source CaptureSource, now time.Time) *DeviceStatusSample {
	return &DeviceStatusSample{
		DeviceID:         deviceID,
		State:            ParseDeviceState(p.Status),
		Consumables:      p.Consumables,
		Errors:           p.Errors,
		QueueDepth:       p.QueueDepth,
		MonthlyPageCount: p.MonthlyPages,
		Source:           source,
		SampledAt:        now,
	}
}

// ParseDeviceState normalizes a device reported state string. Unknown values map to offline.
func ParseDeviceState(s string) DeviceState {
	switch DeviceState(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceStateOnline, "idle", "ready", "printing", "processing":
		return DeviceStateOnline
	case DeviceStateError:
		return DeviceStateError
	case DeviceStateMaintenance:
		return DeviceStateMaintenance
	default:
		return DeviceStateOffline
	}
}
