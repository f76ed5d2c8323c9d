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

// Package webhook is the push ingress: devices post signed job and status
// events which go through the same capture path as polled ones.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// Event types understood by the ingress.
const (
	TypeJobCompleted = "job_completed"
	TypeStatusUpdate = "status_update"
)

// Outcomes reported to Recorder.
const (
	ResultAccepted         = "accepted"
	ResultDuplicate        = "duplicate"
	ResultIgnored          = "ignored"
	ResultInvalidSignature = "invalid_signature"
	ResultInvalidPayload   = "invalid_payload"
	ResultError            = "error"
)

//go:generate mockgen -destination=mock_webhook.go -package=webhook github.com/carverauto/printradar/pkg/webhook JobCapturer,StatusStore,Recorder

// JobCapturer records pushed jobs.
type JobCapturer interface {
	CaptureJob(ctx context.Context, deviceID string, source models.CaptureSource, raw models.RawJob) (*capture.CaptureResult, error)
}

// StatusStore persists pushed status reports.
type StatusStore interface {
	AppendStatusSample(ctx context.Context, sample *models.DeviceStatusSample) error
	UpdatePrinterStatus(ctx context.Context, deviceID string, status models.PrinterStatus) error
}

// Recorder receives webhook outcomes for metrics.
type Recorder interface {
	WebhookRecorded(eventType, result string)
}

type nopRecorder struct{}

func (nopRecorder) WebhookRecorded(string, string) {}

// Processor verifies and dispatches webhook payloads.
type Processor struct {
	secret   []byte
	capturer JobCapturer
	store    StatusStore
	recorder Recorder
	logger   logger.Logger
	now      func() time.Time
}

// NewProcessor returns a processor that trusts only bodies signed with secret.
func NewProcessor(secret string, capturer JobCapturer, store StatusStore, recorder Recorder, log logger.Logger) (*Processor, error) {
	if secret == "" {
		return nil, errSecretRequired
	}

	if capturer == nil {
		return nil, errCapturerRequired
	}

	if store == nil {
		return nil, errStoreRequired
	}

	if recorder == nil {
		recorder = nopRecorder{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Processor{
		secret:   []byte(secret),
		capturer: capturer,
		store:    store,
		recorder: recorder,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// envelope is the webhook body. Event fields may sit under "data" or next to
// "type" at the top level.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Result describes what a webhook did.
type Result struct {
	Type    string
	Ignored bool
	Capture *capture.CaptureResult
	Sample  *models.DeviceStatusSample
}

// ProcessWebhook authenticates body against signature and dispatches it on
// its type. Nothing is read from body before the signature matches.
func (p *Processor) ProcessWebhook(ctx context.Context, deviceID string, body []byte, signature string) (*Result, error) {
	if err := VerifySignature(p.secret, body, signature); err != nil {
		p.recorder.WebhookRecorded("", ResultInvalidSignature)
		p.logger.Warn().Str("device_id", deviceID).Msg("rejected webhook with bad signature")

		return nil, err
	}

	if deviceID == "" {
		p.recorder.WebhookRecorded("", ResultInvalidPayload)

		return nil, ErrDeviceIDRequired
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		p.recorder.WebhookRecorded("", ResultInvalidPayload)

		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	data := env.Data
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		data = body
	}

	var (
		result *Result
		err    error
	)

	switch env.Type {
	case TypeJobCompleted:
		result, err = p.jobCompleted(ctx, deviceID, data)
	case TypeStatusUpdate:
		result, err = p.statusUpdate(ctx, deviceID, data)
	default:
		p.recorder.WebhookRecorded(env.Type, ResultIgnored)
		p.logger.Info().Str("device_id", deviceID).Str("type", env.Type).Msg("ignoring unrecognized webhook type")

		return &Result{Type: env.Type, Ignored: true}, nil
	}

	if err != nil {
		return nil, err
	}

	result.Type = env.Type

	return result, nil
}

func (p *Processor) jobCompleted(ctx context.Context, deviceID string, data json.RawMessage) (*Result, error) {
	var payload models.JobPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		p.recorder.WebhookRecorded(TypeJobCompleted, ResultInvalidPayload)

		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	res, err := p.capturer.CaptureJob(ctx, deviceID, models.SourceWebhook, payload.RawJob())
	if err != nil {
		if isPayloadError(err) {
			p.recorder.WebhookRecorded(TypeJobCompleted, ResultInvalidPayload)

			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}

		p.recorder.WebhookRecorded(TypeJobCompleted, ResultError)

		return nil, err
	}

	outcome := ResultAccepted
	if res.Duplicate {
		outcome = ResultDuplicate
	}

	p.recorder.WebhookRecorded(TypeJobCompleted, outcome)

	return &Result{Capture: res}, nil
}

func (p *Processor) statusUpdate(ctx context.Context, deviceID string, data json.RawMessage) (*Result, error) {
	var payload models.StatusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		p.recorder.WebhookRecorded(TypeStatusUpdate, ResultInvalidPayload)

		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	sample := payload.Sample(deviceID, models.SourceWebhook, p.now())

	if err := p.store.AppendStatusSample(ctx, sample); err != nil {
		p.recorder.WebhookRecorded(TypeStatusUpdate, ResultError)

		return nil, fmt.Errorf("append status sample: %w", err)
	}

	if err := p.store.UpdatePrinterStatus(ctx, deviceID, models.PrinterStatusFor(sample.State)); err != nil {
		p.recorder.WebhookRecorded(TypeStatusUpdate, ResultError)

		return nil, fmt.Errorf("update printer status: %w", err)
	}

	p.recorder.WebhookRecorded(TypeStatusUpdate, ResultAccepted)
	p.logger.Debug().Str("device_id", deviceID).Str("state", string(sample.State)).Msg("status update stored")

	return &Result{Sample: sample}, nil
}

func isPayloadError(err error) bool {
	return errors.Is(err, capture.ErrInvalidJob) || errors.Is(err, capture.ErrDeviceIDRequired)
}
