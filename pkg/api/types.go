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
	"time"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/models"
	"github.com/carverauto/printradar/pkg/poller"
	"github.com/carverauto/printradar/pkg/version"
)

// ProcessRequest is the body of POST /api/captures/{id}/process.
type ProcessRequest struct {
	UserID string `json:"user_id"`
}

// ProcessResponse reports the billed print job, if any.
type ProcessResponse struct {
	Capture  *models.CapturedJobEvent `json:"capture"`
	PrintJob *models.PrintJob         `json:"print_job,omitempty"`
}

// QuotaExceededResponse is the 409 body for a quota rejection.
type QuotaExceededResponse struct {
	models.ErrorResponse
	UserID    string `json:"user_id"`
	Color     bool   `json:"color"`
	Limit     int    `json:"limit"`
	Usage     int    `json:"usage"`
	Requested int    `json:"requested"`
}

// PollerStatus is one row of GET /api/pollers.
type PollerStatus struct {
	DeviceID            string              `json:"device_id"`
	IntegrationID       string              `json:"integration_id"`
	Protocol            models.ProtocolKind `json:"protocol"`
	State               poller.DeviceState  `json:"state"`
	IntervalSeconds     float64             `json:"interval_seconds"`
	LastPollAt          *time.Time          `json:"last_poll_at,omitempty"`
	LastSuccessAt       *time.Time          `json:"last_success_at,omitempty"`
	LastError           string              `json:"last_error,omitempty"`
	ConsecutiveFailures int                 `json:"consecutive_failures"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status       string       `json:"status"`
	Version      version.Info `json:"version"`
	ArmedDevices int          `json:"armed_devices"`
}

func quotaExceededResponse(qe *capture.QuotaExceededError, status int) QuotaExceededResponse {
	return QuotaExceededResponse{
		ErrorResponse: models.ErrorResponse{Message: qe.Error(), Status: status},
		UserID:        qe.UserID,
		Color:         qe.Color,
		Limit:         qe.Limit,
		Usage:         qe.Usage,
		Requested:     qe.Requested,
	}
}

func pollerStatus(s *poller.DeviceStatus) PollerStatus {
	return PollerStatus{
		DeviceID:            s.DeviceID,
		IntegrationID:       s.IntegrationID,
		Protocol:            s.Protocol,
		State:               s.State,
		IntervalSeconds:     s.Interval.Seconds(),
		LastPollAt:          s.LastPollAt,
		LastSuccessAt:       s.LastSuccessAt,
		LastError:           s.LastError,
		ConsecutiveFailures: s.ConsecutiveFailures,
	}
}
