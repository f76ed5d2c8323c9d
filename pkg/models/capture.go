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
	"math"
	"time"
)

// CaptureStatus is the processing state of a captured job.
type CaptureStatus string

const (
	CaptureStatusCaptured  CaptureStatus = "captured"
	CaptureStatusProcessed CaptureStatus = "processed"
	CaptureStatusFailed    CaptureStatus = "failed"
)

// CaptureSource records which ingress path observed a job.
type CaptureSource string

const (
	SourcePoll    CaptureSource = "poll"
	SourceWebhook CaptureSource = "webhook"
)

// MaxJobUnits bounds pages, copies and pages × copies to the int32 range the
// store persists.
const MaxJobUnits = math.MaxInt32

// RawJob is a protocol neutral job log entry reported by a device.
type RawJob struct {
	NativeID    string                 `json:"native_id"`
	FileName    string                 `json:"file_name,omitempty"`
	Pages       int                    `json:"pages"`
	Copies      int                    `json:"copies"`
	Color       bool                   `json:"color"`
	PaperSize   string                 `json:"paper_size,omitempty"`
	PaperType   string                 `json:"paper_type,omitempty"`
	Quality     string                 `json:"quality,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// Normalize applies defaults for fields devices commonly omit.
func (r *RawJob) Normalize() {
	if r.Copies <= 0 {
		r.Copies = 1
	}

	if r.Pages < 0 {
		r.Pages = 0
	}
}

// UnitsInRange reports whether pages × copies fits in MaxJobUnits after
// Normalize.
func (r *RawJob) UnitsInRange() bool {
	if r.Pages < 0 || r.Copies <= 0 || r.Pages > MaxJobUnits || r.Copies > MaxJobUnits {
		return false
	}

	return r.Pages <= MaxJobUnits/r.Copies
}

// CapturedJobEvent is one device reported print event, unique on (DeviceID, NativeJobID).
type CapturedJobEvent struct {
	ID              string                 `json:"id"`
	DeviceID        string                 `json:"device_id"`
	NativeJobID     string                 `json:"native_job_id"`
	FileName        string                 `json:"file_name,omitempty"`
	Pages           int                    `json:"pages"`
	Copies          int                    `json:"copies"`
	Color           bool                   `json:"color"`
	PaperSize       string                 `json:"paper_size,omitempty"`
	PaperType       string                 `json:"paper_type,omitempty"`
	Quality         string                 `json:"quality,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Source          CaptureSource          `json:"source"`
	Status          CaptureStatus          `json:"status"`
	UserID          *string                `json:"user_id,omitempty"`
	PrintJobID      *string                `json:"print_job_id,omitempty"`
	ProcessingError string                 `json:"processing_error,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	CapturedAt      time.Time              `json:"captured_at"`
	ProcessedAt     *time.Time             `json:"processed_at,omitempty"`
}

// TotalUnits is the number of impressions billed for the capture.
func (c *CapturedJobEvent) TotalUnits() int {
	copies := c.Copies
	if copies <= 0 {
		copies = 1
	}

	return c.Pages * copies
}

// NewCapturedJobEvent builds an unsaved capture row from a raw job.
func NewCapturedJobEvent(id, deviceID string, source CaptureSource, raw RawJob, now time.Time) *CapturedJobEvent {
	raw.Normalize()

	return &CapturedJobEvent{
		ID:          id,
		DeviceID:    deviceID,
		NativeJobID: raw.NativeID,
		FileName:    raw.FileName,
		Pages:       raw.Pages,
		Copies:      raw.Copies,
		Color:       raw.Color,
		PaperSize:   raw.PaperSize,
		PaperType:   raw.PaperType,
		Quality:     raw.Quality,
		Metadata:    raw.Metadata,
		Source:      source,
		Status:      CaptureStatusCaptured,
		CompletedAt: raw.CompletedAt,
		CapturedAt:  now,
	}
}
