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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/models"
	"github.com/carverauto/printradar/pkg/poller"
	"github.com/carverauto/printradar/pkg/version"
)

const (
	defaultCaptureLimit = 100
	maxCaptureLimit     = 1000
	maxRequestBytes     = 64 << 10
)

func (s *APIServer) getHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Version: version.Get()}
	if s.scheduler != nil {
		resp.ArmedDevices = len(s.scheduler.Status())
	}

	s.encodeJSONResponse(w, http.StatusOK, resp)
}

func (s *APIServer) getPollers(w http.ResponseWriter, _ *http.Request) {
	if s.scheduler == nil {
		writeError(w, "scheduler not configured", http.StatusServiceUnavailable)

		return
	}

	snapshot := s.scheduler.Status()

	out := make([]PollerStatus, 0, len(snapshot))
	for i := range snapshot {
		out = append(out, pollerStatus(&snapshot[i]))
	}

	s.encodeJSONResponse(w, http.StatusOK, out)
}

func (s *APIServer) armIntegration(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeError(w, "scheduler not configured", http.StatusServiceUnavailable)

		return
	}

	id := mux.Vars(r)["id"]

	if err := s.scheduler.AddDevice(r.Context(), id); err != nil {
		s.writeSchedulerError(w, id, err)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, map[string]string{"status": "armed", "integration_id": id})
}

func (s *APIServer) restartIntegration(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeError(w, "scheduler not configured", http.StatusServiceUnavailable)

		return
	}

	id := mux.Vars(r)["id"]

	if err := s.scheduler.RestartDevice(r.Context(), id); err != nil {
		s.writeSchedulerError(w, id, err)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, map[string]string{"status": "restarted", "integration_id": id})
}

func (s *APIServer) removeDevicePoller(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeError(w, "scheduler not configured", http.StatusServiceUnavailable)

		return
	}

	deviceID := mux.Vars(r)["device_id"]

	if err := s.scheduler.RemoveDevice(deviceID); err != nil {
		s.writeSchedulerError(w, deviceID, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) writeSchedulerError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, db.ErrIntegrationNotFound), errors.Is(err, poller.ErrDeviceNotArmed):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, poller.ErrIntegrationInactive):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, poller.ErrSchedulerStopped):
		writeError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.logger.Error().Err(err).Str("id", id).Msg("scheduler request failed")
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *APIServer) listCaptures(w http.ResponseWriter, r *http.Request) {
	if s.captures == nil {
		writeError(w, "capture store not configured", http.StatusServiceUnavailable)

		return
	}

	query := r.URL.Query()

	status := models.CaptureStatus(query.Get("status"))
	switch status {
	case "":
		status = models.CaptureStatusCaptured
	case models.CaptureStatusCaptured, models.CaptureStatusProcessed, models.CaptureStatusFailed:
	default:
		writeError(w, "status must be captured, processed or failed", http.StatusBadRequest)

		return
	}

	limit := defaultCaptureLimit

	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)

			return
		}

		limit = min(n, maxCaptureLimit)
	}

	captures, err := s.captures.ListCapturesByStatus(r.Context(), status, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(status)).Msg("failed to list captures")
		writeError(w, "internal error", http.StatusInternalServerError)

		return
	}

	if captures == nil {
		captures = []*models.CapturedJobEvent{}
	}

	s.encodeJSONResponse(w, http.StatusOK, captures)
}

func (s *APIServer) processCapture(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		writeError(w, "capture processor not configured", http.StatusServiceUnavailable)

		return
	}

	captureID := mux.Vars(r)["id"]

	var req ProcessRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, "unreadable request body", http.StatusBadRequest)

		return
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, "invalid request body", http.StatusBadRequest)

			return
		}
	}

	result, err := s.processor.ProcessCapture(r.Context(), captureID, req.UserID)
	if err != nil {
		s.writeProcessError(w, captureID, err)

		return
	}

	s.encodeJSONResponse(w, http.StatusOK, ProcessResponse{Capture: result.Capture, PrintJob: result.PrintJob})
}

func (s *APIServer) writeProcessError(w http.ResponseWriter, captureID string, err error) {
	var qe *capture.QuotaExceededError

	switch {
	case errors.As(err, &qe):
		s.encodeJSONResponse(w, http.StatusConflict, quotaExceededResponse(qe, http.StatusConflict))
	case errors.Is(err, capture.ErrCaptureAlreadyProcessed):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, capture.ErrCaptureNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, capture.ErrUserNotFound), errors.Is(err, capture.ErrQuotaNotFound):
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error().Err(err).Str("capture_id", captureID).Msg("capture processing failed")
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
