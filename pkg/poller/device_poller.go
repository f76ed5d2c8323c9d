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

package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/printradar/pkg/connector"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// newDevicePoller builds the connector for integration. A construction
// failure yields a disabled poller and an error sample for the device.
func (p *Poller) newDevicePoller(ctx context.Context, integration *models.DeviceIntegration) *devicePoller {
	log := logger.New(p.logger.WithFields(map[string]interface{}{
		"device_id":      integration.DeviceID,
		"integration_id": integration.ID,
		"protocol":       string(integration.Protocol),
	}))

	dp := &devicePoller{
		integration: integration,
		scheduleKey: integration.ScheduleKey(),
		poller:      p,
		logger:      log,
		done:        make(chan struct{}),
		state:       StateIdle,
	}

	if integration.LastSyncAt != nil {
		since := *integration.LastSyncAt
		dp.lastSync = &since
	}

	conn, err := p.config.Registry.New(integration, connector.Options{
		Timeout: p.config.PollTimeout,
		Logger:  log,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build connector; device disabled")

		close(dp.done)
		dp.state = StateDisabled
		dp.lastError = err.Error()
		dp.consecutiveFailures = 1

		now := p.clock.Now()
		dp.lastPollAt = &now

		dp.writeErrorSample(ctx, err, now)

		return dp
	}

	dp.conn = conn

	log.Info().Dur("interval", integration.Interval()).Msg("device poller armed")

	return dp
}

// run is the device loop: one immediate cycle, then one per tick. Cycles use
// the scheduler's run context so cancelling loopCtx never interrupts one. A
// replacement loop waits for the loop it replaced so one device never has two
// cycles in flight.
func (dp *devicePoller) run(loopCtx context.Context) {
	p := dp.poller

	defer p.wg.Done()
	defer close(dp.done)
	defer dp.closeConnector()

	if dp.replaced != nil {
		select {
		case <-dp.replaced:
		case <-loopCtx.Done():
			dp.setState(StateIdle)

			return
		}
	}

	ticker := p.clock.Ticker(dp.integration.Interval())
	defer ticker.Stop()

	dp.setState(StateScheduled)

	if loopCtx.Err() == nil {
		dp.cycle(p.runCtx)
	}

	for {
		select {
		case <-loopCtx.Done():
			dp.setState(StateIdle)

			return
		case <-ticker.Chan():
			if loopCtx.Err() != nil {
				dp.setState(StateIdle)

				return
			}

			dp.cycle(p.runCtx)
		}
	}
}

func (dp *devicePoller) stop() {
	if dp.cancel != nil {
		dp.cancel()
	}
}

func (dp *devicePoller) closeConnector() {
	if dp.conn == nil {
		return
	}

	if err := dp.conn.Close(); err != nil {
		dp.logger.Warn().Err(err).Msg("failed to close connector")
	}
}

func (dp *devicePoller) setState(state DeviceState) {
	dp.mu.Lock()
	dp.state = state
	dp.mu.Unlock()
}

func (dp *devicePoller) snapshot() DeviceStatus {
	dp.mu.Lock()
	defer dp.mu.Unlock()

	return DeviceStatus{
		DeviceID:            dp.integration.DeviceID,
		IntegrationID:       dp.integration.ID,
		Protocol:            dp.integration.Protocol,
		State:               dp.state,
		Interval:            dp.integration.Interval(),
		LastPollAt:          dp.lastPollAt,
		LastSuccessAt:       dp.lastSuccessAt,
		LastError:           dp.lastError,
		ConsecutiveFailures: dp.consecutiveFailures,
	}
}

// cycle runs one poll and folds the outcome into the device status.
func (dp *devicePoller) cycle(ctx context.Context) {
	p := dp.poller
	start := p.clock.Now()

	dp.mu.Lock()
	dp.state = StatePolling
	since := dp.lastSync
	dp.mu.Unlock()

	result, err := dp.poll(ctx, start, since)

	p.config.Recorder.PollRecorded(dp.integration.Protocol, result, p.clock.Now().Sub(start))

	dp.mu.Lock()
	defer dp.mu.Unlock()

	if dp.state == StatePolling {
		dp.state = StateScheduled
	}

	dp.lastPollAt = &start

	if err != nil {
		dp.consecutiveFailures++
		dp.lastError = err.Error()

		dp.logger.Warn().Err(err).Str("result", result).Int("consecutive_failures", dp.consecutiveFailures).
			Msg("poll cycle failed")

		return
	}

	dp.consecutiveFailures = 0
	dp.lastError = ""
	dp.lastSuccessAt = &start
	dp.lastSync = &start
}

// poll fetches status then the job log, stores the sample, captures every job
// and advances last_sync_at only when all of that succeeded. The next cycle
// asks for jobs since this cycle's start.
func (dp *devicePoller) poll(ctx context.Context, start time.Time, since *time.Time) (string, error) {
	p := dp.poller
	deviceID := dp.integration.DeviceID

	sample, err := dp.fetchStatus(ctx)
	if err != nil {
		dp.writeErrorSample(ctx, err, start)

		return ResultUnreachable, err
	}

	jobs, err := dp.fetchJobLog(ctx, since)
	if err != nil {
		dp.writeErrorSample(ctx, err, start)

		return ResultUnreachable, err
	}

	sample.DeviceID = deviceID
	sample.Source = models.SourcePoll

	if sample.SampledAt.IsZero() {
		sample.SampledAt = start
	}

	var errs error

	if err := p.store.AppendStatusSample(ctx, sample); err != nil {
		errs = errors.Join(errs, fmt.Errorf("append status sample: %w", err))
	}

	if err := p.store.UpdatePrinterStatus(ctx, deviceID, models.PrinterStatusFor(sample.State)); err != nil {
		errs = errors.Join(errs, fmt.Errorf("update printer status: %w", err))
	}

	captured := 0

	for _, job := range jobs {
		res, err := p.capturer.CaptureJob(ctx, deviceID, models.SourcePoll, job)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("capture job %q: %w", job.NativeID, err))

			continue
		}

		if !res.Duplicate {
			captured++
		}
	}

	if errs != nil {
		return ResultPartial, errs
	}

	if err := p.store.UpdateLastSync(ctx, dp.integration.ID, start); err != nil {
		return ResultPartial, fmt.Errorf("update last sync: %w", err)
	}

	dp.logger.Debug().
		Str("state", string(sample.State)).
		Int("jobs", len(jobs)).
		Int("captured", captured).
		Msg("poll cycle complete")

	return ResultSuccess, nil
}

func (dp *devicePoller) fetchStatus(ctx context.Context) (*models.DeviceStatusSample, error) {
	callCtx, cancel := context.WithTimeout(ctx, dp.poller.config.PollTimeout)
	defer cancel()

	sample, err := dp.conn.FetchStatus(callCtx)
	if err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}

	if sample == nil {
		return nil, fmt.Errorf("fetch status: %w: empty sample", connector.ErrUnexpectedResponse)
	}

	return sample, nil
}

func (dp *devicePoller) fetchJobLog(ctx context.Context, since *time.Time) ([]models.RawJob, error) {
	callCtx, cancel := context.WithTimeout(ctx, dp.poller.config.PollTimeout)
	defer cancel()

	jobs, err := dp.conn.FetchJobLog(callCtx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch job log: %w", err)
	}

	return jobs, nil
}

// writeErrorSample records a failure as an error sample so it shows up in
// the device's status history.
func (dp *devicePoller) writeErrorSample(ctx context.Context, cause error, at time.Time) {
	p := dp.poller
	deviceID := dp.integration.DeviceID

	if err := p.store.AppendStatusSample(ctx, models.ErrorSample(deviceID, models.SourcePoll, cause, at)); err != nil {
		dp.logger.Error().Err(err).Msg("failed to record error sample")
	}

	if err := p.store.UpdatePrinterStatus(ctx, deviceID, models.PrinterStatusError); err != nil {
		dp.logger.Error().Err(err).Msg("failed to update printer status")
	}
}
