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

// PrintJobStatusCompleted is the only status the billing step writes.
const PrintJobStatusCompleted = "completed"

// User is the subset of the user record the billing step reads.
type User struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id,omitempty"`
	Active       bool   `json:"active"`
}

// PrintQuota holds a user's monthly limits and usage counters.
type PrintQuota struct {
	UserID       string `json:"user_id"`
	MonthlyLimit int    `json:"monthly_limit"`
	CurrentUsage int    `json:"current_usage"`
	ColorLimit   int    `json:"color_limit"`
	ColorUsage   int    `json:"color_usage"`
}

// Fits reports whether units more impressions stay within the relevant limit.
// Negative units never fit, so a quota counter only grows.
func (q *PrintQuota) Fits(color bool, units int) bool {
	if units < 0 {
		return false
	}

	if color {
		return units <= q.ColorLimit-q.ColorUsage
	}

	return units <= q.MonthlyLimit-q.CurrentUsage
}

// PrintCost is a department's per page rate table.
type PrintCost struct {
	DepartmentID string  `json:"department_id"`
	BWRate       float64 `json:"bw_rate"`
	ColorRate    float64 `json:"color_rate"`
}

// Rate returns the per page rate for the job kind.
func (c *PrintCost) Rate(color bool) float64 {
	if color {
		return c.ColorRate
	}

	return c.BWRate
}

// PrintJob is the billed record created from a processed capture.
type PrintJob struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	PrinterID   string     `json:"printer_id"`
	CaptureID   string     `json:"capture_id"`
	FileName    string     `json:"file_name,omitempty"`
	Pages       int        `json:"pages"`
	Copies      int        `json:"copies"`
	Color       bool       `json:"color"`
	PaperSize   string     `json:"paper_size,omitempty"`
	Cost        float64    `json:"cost"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
