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

// Package poller runs one independent polling loop per active device
// integration and reconciles the set of loops against the store.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// New creates a scheduler. Nothing runs until Start.
func New(config Config, store Store, capturer JobCapturer, clock Clock, log logger.Logger) (*Poller, error) {
	if store == nil {
		return nil, errStoreRequired
	}

	if capturer == nil {
		return nil, errCapturerRequired
	}

	if clock == nil {
		clock = realClock{}
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	config.applyDefaults()

	return &Poller{
		config:   config,
		store:    store,
		capturer: capturer,
		clock:    clock,
		logger:   log,
		devices:  make(map[string]*devicePoller),
	}, nil
}

// Start arms a loop for every active integration and starts the
// reconciliation loop. Each armed device polls once immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()

	if p.stopped {
		p.mu.Unlock()

		return ErrSchedulerStopped
	}

	if p.started {
		p.mu.Unlock()

		return ErrSchedulerStarted
	}

	p.started = true
	p.runCtx, p.runCancel = context.WithCancel(context.WithoutCancel(ctx))

	var syncCtx context.Context
	syncCtx, p.syncStop = context.WithCancel(p.runCtx)

	p.wg.Add(1)
	p.mu.Unlock()

	p.logger.Info().
		Dur("sync_interval", p.config.SyncInterval).
		Dur("poll_timeout", p.config.PollTimeout).
		Msg("starting polling scheduler")

	// A failed initial load is retried by the reconciliation loop.
	if err := p.Reconcile(ctx); err != nil {
		p.logger.Error().Err(err).Msg("initial integration load failed")
	}

	go p.syncLoop(syncCtx)

	return nil
}

// Stop cancels every loop and waits for in-flight poll cycles. If ctx ends
// first the cycles are aborted and ctx's error is returned. Stop is idempotent.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()

	if p.stopped {
		p.mu.Unlock()

		return nil
	}

	p.stopped = true
	devices := p.devices
	p.devices = make(map[string]*devicePoller)
	syncStop, runCancel := p.syncStop, p.runCancel
	p.mu.Unlock()

	if syncStop != nil {
		syncStop()
	}

	for _, dp := range devices {
		dp.stop()
	}

	p.config.Recorder.ArmedDevices(0)

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if runCancel != nil {
			runCancel()
		}

		return fmt.Errorf("waiting for poll cycles: %w", ctx.Err())
	}

	if runCancel != nil {
		runCancel()
	}

	p.logger.Info().Int("devices", len(devices)).Msg("polling scheduler stopped")

	return nil
}

func (p *Poller) syncLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := p.clock.Ticker(p.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := p.Reconcile(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error().Err(err).Msg("integration reconciliation failed")
			}
		}
	}
}

// Reconcile aligns the armed loops with the store: new active integrations
// are armed, deactivated ones disarmed and changed ones restarted.
func (p *Poller) Reconcile(ctx context.Context) error {
	integrations, err := p.store.ListActiveIntegrations(ctx)
	if err != nil {
		return fmt.Errorf("list active integrations: %w", err)
	}

	active := make(map[string]*models.DeviceIntegration, len(integrations))

	for _, integration := range integrations {
		if prev, ok := active[integration.DeviceID]; ok {
			p.logger.Warn().
				Str("device_id", integration.DeviceID).
				Str("integration_id", integration.ID).
				Str("kept_integration_id", prev.ID).
				Msg("device has more than one active integration")

			continue
		}

		active[integration.DeviceID] = integration
	}

	var (
		toStop []*devicePoller
		toArm  []*models.DeviceIntegration
	)

	p.mu.Lock()

	if p.stopped {
		p.mu.Unlock()

		return ErrSchedulerStopped
	}

	for deviceID, dp := range p.devices {
		integration, ok := active[deviceID]

		switch {
		case !ok:
			delete(p.devices, deviceID)
			toStop = append(toStop, dp)
		case integration.ID != dp.integration.ID || integration.ScheduleKey() != dp.scheduleKey:
			toArm = append(toArm, integration)
		}
	}

	for deviceID, integration := range active {
		if _, ok := p.devices[deviceID]; !ok {
			toArm = append(toArm, integration)
		}
	}

	remaining := len(p.devices)
	p.mu.Unlock()

	for _, dp := range toStop {
		dp.logger.Info().Msg("integration deactivated; disarming")
		dp.stop()
	}

	if len(toStop) > 0 {
		p.config.Recorder.ArmedDevices(remaining)
	}

	var errs error

	for _, integration := range toArm {
		if err := p.arm(ctx, integration); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}

// AddDevice arms the loop for one integration. Re-adding an unchanged,
// already armed integration is a no-op.
func (p *Poller) AddDevice(ctx context.Context, integrationID string) error {
	integration, err := p.loadActive(ctx, integrationID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	dp, ok := p.devices[integration.DeviceID]
	unchanged := ok && dp.integration.ID == integration.ID && dp.scheduleKey == integration.ScheduleKey()
	p.mu.Unlock()

	if unchanged {
		return nil
	}

	return p.arm(ctx, integration)
}

// RestartDevice rebuilds the connector and loop for one integration from the
// stored record. An inactive integration is disarmed.
func (p *Poller) RestartDevice(ctx context.Context, integrationID string) error {
	integration, err := p.loadActive(ctx, integrationID)
	if errors.Is(err, ErrIntegrationInactive) && integration != nil {
		if rmErr := p.RemoveDevice(integration.DeviceID); rmErr != nil && !errors.Is(rmErr, ErrDeviceNotArmed) {
			return rmErr
		}

		return err
	}

	if err != nil {
		return err
	}

	return p.arm(ctx, integration)
}

// RemoveDevice disarms a device. A cycle already in flight runs to
// completion; no new cycle starts.
func (p *Poller) RemoveDevice(deviceID string) error {
	p.mu.Lock()

	dp, ok := p.devices[deviceID]
	if !ok {
		p.mu.Unlock()

		return fmt.Errorf("%w: %s", ErrDeviceNotArmed, deviceID)
	}

	delete(p.devices, deviceID)
	remaining := len(p.devices)
	p.mu.Unlock()

	dp.stop()
	p.config.Recorder.ArmedDevices(remaining)

	dp.logger.Info().Msg("device disarmed")

	return nil
}

// Status returns a snapshot of every armed device ordered by device id.
func (p *Poller) Status() []DeviceStatus {
	p.mu.Lock()

	devices := make([]*devicePoller, 0, len(p.devices))
	for _, dp := range p.devices {
		devices = append(devices, dp)
	}

	p.mu.Unlock()

	out := make([]DeviceStatus, 0, len(devices))
	for _, dp := range devices {
		out = append(out, dp.snapshot())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })

	return out
}

func (p *Poller) loadActive(ctx context.Context, integrationID string) (*models.DeviceIntegration, error) {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()

	if stopped {
		return nil, ErrSchedulerStopped
	}

	integration, err := p.store.GetIntegration(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("load integration %s: %w", integrationID, err)
	}

	if !integration.Active {
		return integration, fmt.Errorf("%w: %s", ErrIntegrationInactive, integrationID)
	}

	return integration, nil
}

// arm installs a fresh loop for the integration's device, replacing any
// loop already armed for it.
func (p *Poller) arm(ctx context.Context, integration *models.DeviceIntegration) error {
	dp := p.newDevicePoller(ctx, integration)

	p.mu.Lock()

	if p.stopped || !p.started {
		p.mu.Unlock()
		dp.closeConnector()

		return ErrSchedulerStopped
	}

	old := p.devices[integration.DeviceID]
	p.devices[integration.DeviceID] = dp

	if old != nil {
		dp.replaced = old.done
	}

	if dp.conn != nil {
		loopCtx, cancel := context.WithCancel(p.runCtx)
		dp.cancel = cancel

		p.wg.Add(1)

		go dp.run(loopCtx)
	}

	armed := len(p.devices)
	p.mu.Unlock()

	if old != nil {
		old.logger.Info().Msg("replacing device poller")
		old.stop()
	}

	p.config.Recorder.ArmedDevices(armed)

	return nil
}
