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

package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/carverauto/printradar/pkg/logger"
)

const (
	// RoutePath is the push endpoint with the device id in the path.
	RoutePath = "/api/webhooks/printers/{device_id}"
	// RoutePathHeader is the push endpoint for devices that send X-Device-ID.
	RoutePathHeader = "/api/webhooks/printers"

	defaultMaxBodyBytes int64 = 1 << 20
)

// Ack is the JSON body returned to the device.
type Ack struct {
	Status    string `json:"status"`
	Type      string `json:"type,omitempty"`
	CaptureID string `json:"capture_id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Handler serves webhook posts.
type Handler struct {
	processor    *Processor
	maxBodyBytes int64
	logger       logger.Logger
}

// NewHandler wraps processor for HTTP. maxBodyBytes <= 0 selects 1 MiB.
func NewHandler(processor *Processor, maxBodyBytes int64, log logger.Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	if log == nil {
		log = processor.logger
	}

	return &Handler{processor: processor, maxBodyBytes: maxBodyBytes, logger: log}
}

// Register mounts both webhook routes on router.
func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc(RoutePath, h.ServeHTTP).Methods(http.MethodPost)
	router.HandleFunc(RoutePathHeader, h.ServeHTTP).Methods(http.MethodPost)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := strings.TrimSpace(mux.Vars(r)["device_id"])
	if deviceID == "" {
		deviceID = strings.TrimSpace(r.Header.Get(DeviceIDHeader))
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeAck(w, http.StatusBadRequest, Ack{Status: "rejected", Error: "body too large"})

			return
		}

		writeAck(w, http.StatusBadRequest, Ack{Status: "rejected", Error: "unreadable body"})

		return
	}

	result, err := h.processor.ProcessWebhook(r.Context(), deviceID, body, r.Header.Get(SignatureHeader))

	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidSignature):
		writeAck(w, http.StatusUnauthorized, Ack{Status: "rejected", Error: "invalid signature"})

		return
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrDeviceIDRequired):
		writeAck(w, http.StatusBadRequest, Ack{Status: "rejected", Error: err.Error()})

		return
	default:
		h.logger.Error().Err(err).Str("device_id", deviceID).Msg("webhook processing failed")
		writeAck(w, http.StatusInternalServerError, Ack{Status: "error", Error: "internal error"})

		return
	}

	ack := Ack{Status: "ok", Type: result.Type}

	switch {
	case result.Ignored:
		ack.Status = "ignored"
	case result.Capture != nil && result.Capture.Capture != nil:
		ack.CaptureID = result.Capture.Capture.ID
		ack.Duplicate = result.Capture.Duplicate
	}

	writeAck(w, http.StatusOK, ack)
}

func writeAck(w http.ResponseWriter, status int, ack Ack) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ack)
}
