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

// Package api provides the HTTP control surface for printradar: scheduler
// control, capture processing, the webhook ingress and metrics.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
	"github.com/carverauto/printradar/pkg/webhook"
)

const apiKeyHeader = "X-API-Key"

// APIServer routes control requests to the scheduler and capture engine.
type APIServer struct {
	router      *mux.Router
	scheduler   Scheduler
	processor   CaptureProcessor
	captures    CaptureStore
	webhook     *webhook.Handler
	metrics     http.Handler
	metricsPath string
	apiKey      string
	logger      logger.Logger
}

// NewAPIServer creates a new API server with the given options.
func NewAPIServer(options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router: mux.NewRouter(),
		logger: logger.NewTestLogger(),
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	return s
}

// WithScheduler wires the poll scheduler.
func WithScheduler(sched Scheduler) func(server *APIServer) {
	return func(server *APIServer) {
		server.scheduler = sched
	}
}

// WithCaptureProcessor wires the capture engine.
func WithCaptureProcessor(p CaptureProcessor) func(server *APIServer) {
	return func(server *APIServer) {
		server.processor = p
	}
}

// WithCaptureStore wires capture listing.
func WithCaptureStore(store CaptureStore) func(server *APIServer) {
	return func(server *APIServer) {
		server.captures = store
	}
}

// WithWebhookHandler mounts the webhook ingress.
func WithWebhookHandler(h *webhook.Handler) func(server *APIServer) {
	return func(server *APIServer) {
		server.webhook = h
	}
}

// WithMetricsHandler serves h at path without authentication.
func WithMetricsHandler(path string, h http.Handler) func(server *APIServer) {
	return func(server *APIServer) {
		server.metricsPath = path
		server.metrics = h
	}
}

// WithAPIKey requires X-API-Key on control routes. An empty key leaves
// them open.
func WithAPIKey(key string) func(server *APIServer) {
	return func(server *APIServer) {
		server.apiKey = key
	}
}

// WithLogger sets the server logger.
func WithLogger(log logger.Logger) func(server *APIServer) {
	return func(server *APIServer) {
		server.logger = log
	}
}

func (s *APIServer) setupRoutes() {
	// Webhooks are authenticated by their body signature.
	if s.webhook != nil {
		s.webhook.Register(s.router)
	}

	if s.metrics != nil {
		path := s.metricsPath
		if path == "" {
			path = "/metrics"
		}

		s.router.Handle(path, s.metrics).Methods(http.MethodGet)
	}

	s.router.HandleFunc("/api/health", s.getHealth).Methods(http.MethodGet)

	protected := s.router.PathPrefix("/api").Subrouter()
	protected.Use(s.authenticationMiddleware)

	protected.HandleFunc("/pollers", s.getPollers).Methods(http.MethodGet)
	protected.HandleFunc("/integrations/{id}/arm", s.armIntegration).Methods(http.MethodPost)
	protected.HandleFunc("/integrations/{id}/restart", s.restartIntegration).Methods(http.MethodPost)
	protected.HandleFunc("/devices/{device_id}/poller", s.removeDevicePoller).Methods(http.MethodDelete)
	protected.HandleFunc("/captures", s.listCaptures).Methods(http.MethodGet)
	protected.HandleFunc("/captures/{id}/process", s.processCapture).Methods(http.MethodPost)
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *APIServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router.
func (s *APIServer) Router() *mux.Router {
	return s.router
}

func (s *APIServer) authenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)

			return
		}

		got := r.Header.Get(apiKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.apiKey)) != 1 {
			writeError(w, "Unauthorized", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) encodeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	errResponse := models.ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
