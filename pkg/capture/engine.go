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

// Package capture turns device reported jobs into captured events exactly once
// and bills them against user quotas.
package capture

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// Engine implements CaptureJob and ProcessCapture on top of a db.Service.
type Engine struct {
	store     db.Service
	publisher EventPublisher
	recorder  Recorder
	rates     models.BillingConfig
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPublisher sets the CloudEvent publisher.
func WithPublisher(p EventPublisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithDefaultRates sets the rates used for departments without a rate row.
func WithDefaultRates(cfg models.BillingConfig) Option {
	return func(e *Engine) { e.rates = cfg }
}

// WithLogger sets the engine logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine bound to store.
func NewEngine(store db.Service, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		publisher: nopPublisher{},
		recorder:  nopRecorder{},
		logger:    logger.NewTestLogger(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CaptureResult is the outcome of CaptureJob.
type CaptureResult struct {
	Capture *models.CapturedJobEvent
	// Duplicate is set when (device, native id) was already captured; Capture
	// then holds the stored row.
	Duplicate bool
}

// CaptureJob records a device reported job. Re-reporting the same job is a
// successful no-op.
func (e *Engine) CaptureJob(
	ctx context.Context, deviceID string, source models.CaptureSource, raw models.RawJob) (*CaptureResult, error) {
	raw.NativeID = strings.TrimSpace(raw.NativeID)

	if deviceID == "" {
		e.recorder.CaptureRecorded(source, ResultRejected)

		return nil, ErrDeviceIDRequired
	}

	if raw.NativeID == "" {
		e.recorder.CaptureRecorded(source, ResultRejected)

		return nil, fmt.Errorf("%w: device %s", ErrInvalidJob, deviceID)
	}

	raw.Normalize()

	if !raw.UnitsInRange() {
		e.recorder.CaptureRecorded(source, ResultRejected)

		return nil, fmt.Errorf("%w: device %s job %s: %d pages x %d copies out of range",
			ErrInvalidJob, deviceID, raw.NativeID, raw.Pages, raw.Copies)
	}

	event := models.NewCapturedJobEvent(e.newID(), deviceID, source, raw, e.now())

	inserted, err := e.store.InsertCaptureIfAbsent(ctx, event)
	if err != nil {
		e.recorder.CaptureRecorded(source, ResultError)

		return nil, fmt.Errorf("capture %s/%s: %w", deviceID, raw.NativeID, err)
	}

	if !inserted {
		e.recorder.CaptureRecorded(source, ResultDuplicate)
		e.logger.Debug().
			Str("device_id", deviceID).
			Str("native_job_id", raw.NativeID).
			Str("capture_id", event.ID).
			Msg("job already captured")

		return &CaptureResult{Capture: event, Duplicate: true}, nil
	}

	e.recorder.CaptureRecorded(source, ResultCaptured)
	e.logger.Info().
		Str("device_id", deviceID).
		Str("native_job_id", raw.NativeID).
		Str("capture_id", event.ID).
		Str("source", string(source)).
		Int("units", event.TotalUnits()).
		Msg("job captured")

	e.publish(ctx, models.EventTypeJobCaptured, deviceID, &models.JobCapturedEvent{
		CaptureID:   event.ID,
		DeviceID:    deviceID,
		NativeJobID: event.NativeJobID,
		Source:      source,
		Pages:       event.Pages,
		Copies:      event.Copies,
		Color:       event.Color,
		CapturedAt:  event.CapturedAt,
	})

	return &CaptureResult{Capture: event}, nil
}

// ProcessResult is the outcome of a committed ProcessCapture.
type ProcessResult struct {
	Capture *models.CapturedJobEvent
	// PrintJob is nil for unattributed captures.
	PrintJob *models.PrintJob
}

// ProcessCapture attributes a capture to userID and bills it. All writes
// happen in one store transaction; an empty userID closes the capture
// without billing anyone.
func (e *Engine) ProcessCapture(ctx context.Context, captureID, userID string) (*ProcessResult, error) {
	var (
		result     ProcessResult
		deferred   error
		quotaError *QuotaExceededError
	)

	err := e.store.WithBillingTx(ctx, func(ctx context.Context, tx db.BillingTx) error {
		result = ProcessResult{}
		deferred = nil

		capture, err := tx.GetCaptureForUpdate(ctx, captureID)
		if errors.Is(err, db.ErrCaptureNotFound) {
			return fmt.Errorf("%w: %s", ErrCaptureNotFound, captureID)
		}

		if err != nil {
			return err
		}

		if capture.Status == models.CaptureStatusProcessed {
			return fmt.Errorf("%w: %s", ErrCaptureAlreadyProcessed, captureID)
		}

		now := e.now()

		if userID == "" {
			if err := tx.MarkCaptureProcessed(ctx, captureID, nil, nil, now); err != nil {
				return err
			}

			markProcessed(capture, nil, nil, now)
			result.Capture = capture

			return nil
		}

		user, err := tx.GetUser(ctx, userID)
		if errors.Is(err, db.ErrUserNotFound) {
			reason := fmt.Sprintf("user %s not found", userID)
			if err := tx.MarkCaptureFailed(ctx, captureID, reason); err != nil {
				return err
			}

			capture.Status = models.CaptureStatusFailed
			capture.ProcessingError = reason
			result.Capture = capture
			deferred = fmt.Errorf("%w: %s", ErrUserNotFound, userID)

			return nil
		}

		if err != nil {
			return err
		}

		job, err := e.bill(ctx, tx, capture, user, now)
		if err != nil {
			return err
		}

		markProcessed(capture, &user.ID, &job.ID, now)
		result.Capture = capture
		result.PrintJob = job

		return nil
	})

	switch {
	case errors.As(err, &quotaError):
		e.recorder.ProcessingRecorded(ResultQuotaExceeded)
		e.logger.Warn().
			Str("capture_id", captureID).
			Str("user_id", userID).
			Int("limit", quotaError.Limit).
			Int("usage", quotaError.Usage).
			Int("requested", quotaError.Requested).
			Bool("color", quotaError.Color).
			Msg("capture rejected by quota")

		e.publishQuotaExceeded(ctx, captureID, quotaError)

		return nil, err
	case err != nil:
		e.recorder.ProcessingRecorded(processingResultFor(err))

		return nil, err
	case deferred != nil:
		e.recorder.ProcessingRecorded(ResultUserNotFound)
		e.logger.Warn().Str("capture_id", captureID).Str("user_id", userID).Msg("capture marked failed: unknown user")

		return &result, deferred
	}

	e.afterProcessed(ctx, &result)

	return &result, nil
}

// bill runs the quota, rate and write steps for an attributed capture.
func (e *Engine) bill(
	ctx context.Context, tx db.BillingTx, capture *models.CapturedJobEvent, user *models.User, now time.Time,
) (*models.PrintJob, error) {
	quota, err := tx.GetQuotaForUpdate(ctx, user.ID)
	if errors.Is(err, db.ErrQuotaNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrQuotaNotFound, user.ID)
	}

	if err != nil {
		return nil, err
	}

	units := capture.TotalUnits()

	if !quota.Fits(capture.Color, units) {
		return nil, quotaExceeded(quota, capture.Color, units)
	}

	rate, err := e.rateFor(ctx, tx, user.DepartmentID, capture.Color)
	if err != nil {
		return nil, err
	}

	job := &models.PrintJob{
		ID:          e.newID(),
		UserID:      user.ID,
		PrinterID:   capture.DeviceID,
		CaptureID:   capture.ID,
		FileName:    capture.FileName,
		Pages:       capture.Pages,
		Copies:      capture.Copies,
		Color:       capture.Color,
		PaperSize:   capture.PaperSize,
		Cost:        roundCost(float64(units) * rate),
		Status:      models.PrintJobStatusCompleted,
		SubmittedAt: capture.CapturedAt,
		CompletedAt: capture.CompletedAt,
	}

	if job.CompletedAt == nil {
		job.CompletedAt = &now
	}

	if err := tx.CreatePrintJob(ctx, job); err != nil {
		return nil, err
	}

	if err := tx.IncrementQuota(ctx, user.ID, capture.Color, units); err != nil {
		if errors.Is(err, db.ErrQuotaWouldOverflow) {
			return nil, quotaExceeded(quota, capture.Color, units)
		}

		return nil, err
	}

	if err := tx.MarkCaptureProcessed(ctx, capture.ID, &user.ID, &job.ID, now); err != nil {
		return nil, err
	}

	return job, nil
}

func (e *Engine) rateFor(ctx context.Context, tx db.BillingTx, departmentID string, color bool) (float64, error) {
	if departmentID != "" {
		cost, err := tx.GetCostByDepartment(ctx, departmentID)

		switch {
		case err == nil:
			return cost.Rate(color), nil
		case !errors.Is(err, db.ErrCostNotFound):
			return 0, err
		}
	}

	defaults := models.PrintCost{BWRate: e.rates.DefaultBWRate, ColorRate: e.rates.DefaultColorRate}

	return defaults.Rate(color), nil
}

func (e *Engine) afterProcessed(ctx context.Context, result *ProcessResult) {
	capture := result.Capture

	event := &models.JobProcessedEvent{
		CaptureID: capture.ID,
		DeviceID:  capture.DeviceID,
		Units:     capture.TotalUnits(),
		Color:     capture.Color,
	}

	if capture.ProcessedAt != nil {
		event.ProcessedAt = *capture.ProcessedAt
	}

	if result.PrintJob == nil {
		e.recorder.ProcessingRecorded(ResultUnattributed)
		e.logger.Info().Str("capture_id", capture.ID).Msg("capture closed without attribution")
	} else {
		event.PrintJobID = result.PrintJob.ID
		event.UserID = result.PrintJob.UserID
		event.Cost = result.PrintJob.Cost

		e.recorder.ProcessingRecorded(ResultProcessed)
		e.logger.Info().
			Str("capture_id", capture.ID).
			Str("user_id", result.PrintJob.UserID).
			Str("print_job_id", result.PrintJob.ID).
			Int("units", event.Units).
			Float64("cost", event.Cost).
			Msg("capture billed")
	}

	e.publish(ctx, models.EventTypeJobProcessed, capture.DeviceID, event)
}

func (e *Engine) publishQuotaExceeded(ctx context.Context, captureID string, qe *QuotaExceededError) {
	// The transaction rolled back, so re-read the device id outside it.
	deviceID := ""
	if capture, err := e.store.GetCapture(ctx, captureID); err == nil {
		deviceID = capture.DeviceID
	}

	e.publish(ctx, models.EventTypeQuotaExceeded, deviceID, &models.QuotaExceededEvent{
		CaptureID: captureID,
		UserID:    qe.UserID,
		DeviceID:  deviceID,
		Color:     qe.Color,
		Limit:     qe.Limit,
		Usage:     qe.Usage,
		Requested: qe.Requested,
		At:        e.now(),
	})
}

func (e *Engine) publish(ctx context.Context, eventType, subject string, data interface{}) {
	if err := e.publisher.Publish(ctx, eventType, subject, data); err != nil {
		e.logger.Warn().Err(err).Str("event_type", eventType).Str("device_id", subject).Msg("failed to publish event")
	}
}

func quotaExceeded(quota *models.PrintQuota, color bool, units int) *QuotaExceededError {
	qe := &QuotaExceededError{
		UserID:    quota.UserID,
		Color:     color,
		Limit:     quota.MonthlyLimit,
		Usage:     quota.CurrentUsage,
		Requested: units,
	}

	if color {
		qe.Limit = quota.ColorLimit
		qe.Usage = quota.ColorUsage
	}

	return qe
}

func markProcessed(capture *models.CapturedJobEvent, userID, printJobID *string, at time.Time) {
	capture.Status = models.CaptureStatusProcessed
	capture.UserID = userID
	capture.PrintJobID = printJobID
	capture.ProcessedAt = &at
	capture.ProcessingError = ""
}

func processingResultFor(err error) string {
	switch {
	case errors.Is(err, ErrCaptureNotFound):
		return ResultNotFound
	case errors.Is(err, ErrCaptureAlreadyProcessed):
		return ResultAlreadyProcessed
	case errors.Is(err, ErrQuotaNotFound):
		return ResultQuotaNotFound
	default:
		return ResultError
	}
}

// roundCost keeps costs at the four decimal places the store persists.
func roundCost(v float64) float64 {
	return math.Round(v*10000) / 10000
}
