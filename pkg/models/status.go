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

// DeviceState is the operational state a device reports about itself.
type DeviceState string

const (
	DeviceStateOnline      DeviceState = "online"
	DeviceStateOffline     DeviceState = "offline"
	DeviceStateError       DeviceState = "error"
	DeviceStateMaintenance DeviceState = "maintenance"
)

// PrinterStatus is the administrative status kept on the printer record.
type PrinterStatus string

const (
	PrinterStatusActive      PrinterStatus = "active"
	PrinterStatusInactive    PrinterStatus = "inactive"
	PrinterStatusError       PrinterStatus = "error"
	PrinterStatusMaintenance PrinterStatus = "maintenance"
)

// DeviceStatusSample is one append-only status observation for a device.
type DeviceStatusSample struct {
	ID               string             `json:"id"`
	DeviceID         string             `json:"device_id"`
	State            DeviceState        `json:"state"`
	Consumables      map[string]float64 `json:"consumables,omitempty"`
	Errors           []string           `json:"errors,omitempty"`
	QueueDepth       int                `json:"queue_depth"`
	MonthlyPageCount int                `json:"monthly_page_count"`
	Source           CaptureSource      `json:"source"`
	SampledAt        time.Time          `json:"sampled_at"`
}

// PrinterStatusFor maps a device reported state onto the printer's administrative status.
func PrinterStatusFor(state DeviceState) PrinterStatus {
	switch state {
	case DeviceStateError:
		return PrinterStatusError
	case DeviceStateMaintenance:
		return PrinterStatusMaintenance
	case DeviceStateOnline:
		return PrinterStatusActive
	case DeviceStateOffline:
		return PrinterStatusInactive
	default:
		return PrinterStatusInactive
	}
}

// ErrorSample records an integration layer failure for a device.
func ErrorSample(deviceID string, source CaptureSource, err error, now time.Time) *DeviceStatusSample {
	return &DeviceStatusSample{
		DeviceID:  deviceID,
		State:     DeviceStateError,
		Errors:    []string{err.Error()},
		Source:    source,
		SampledAt: now,
	}
}
