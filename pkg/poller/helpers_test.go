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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carverauto/printradar/pkg/connector"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

func createTestLogger() logger.Logger {
	return logger.NewTestLogger()
}

var testEpoch = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()                  { t.stopped.Store(true) }

// fakeClock hands out tickers that only fire when the test says so.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers map[time.Duration][]*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch, tickers: make(map[time.Duration][]*fakeTicker)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Ticker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers[d] = append(c.tickers[d], t)

	return t
}

func (c *fakeClock) tickerCount(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.tickers[d])
}

// tick advances the clock and fires every live ticker created for d.
func (c *fakeClock) tick(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	tickers := append([]*fakeTicker(nil), c.tickers[d]...)
	c.mu.Unlock()

	for _, t := range tickers {
		if t.stopped.Load() {
			continue
		}

		select {
		case t.ch <- now:
		default:
		}
	}
}

// fakeConnector serves canned results. When gate is set every FetchStatus
// call signals entered and then waits for the gate to close.
type fakeConnector struct {
	mu          sync.Mutex
	state       models.DeviceState
	statusErr   error
	jobs        []models.RawJob
	statusCalls int
	sinceSeen   []*time.Time
	closed      bool

	gate    chan struct{}
	entered chan struct{}
}

func newFakeConnector(jobs ...models.RawJob) *fakeConnector {
	return &fakeConnector{state: models.DeviceStateOnline, jobs: jobs, entered: make(chan struct{}, 16)}
}

func (f *fakeConnector) FetchStatus(ctx context.Context) (*models.DeviceStatusSample, error) {
	f.mu.Lock()
	f.statusCalls++
	gate := f.gate
	err := f.statusErr
	state := f.state
	f.mu.Unlock()

	if gate != nil {
		f.entered <- struct{}{}

		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	return &models.DeviceStatusSample{
		State:            state,
		Consumables:      map[string]float64{"toner_black": 80},
		MonthlyPageCount: 12,
	}, nil
}

func (f *fakeConnector) FetchJobLog(_ context.Context, since *time.Time) ([]models.RawJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sinceSeen = append(f.sinceSeen, since)

	return append([]models.RawJob(nil), f.jobs...), nil
}

func (f *fakeConnector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

func (f *fakeConnector) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.statusCalls
}

func (f *fakeConnector) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

// registryFor routes integrations to connectors by device id.
func registryFor(conns map[string]connector.Connector) *connector.Registry {
	r := connector.NewRegistry()
	r.Register(models.ProtocolHTTP, func(in *models.DeviceIntegration, _ connector.Options) (connector.Connector, error) {
		conn, ok := conns[in.DeviceID]
		if !ok {
			return nil, connector.ErrUnsupportedProtocol
		}

		return conn, nil
	})

	return r
}

func testIntegration(id, deviceID string, intervalSeconds int) *models.DeviceIntegration {
	return &models.DeviceIntegration{
		ID:                  id,
		DeviceID:            deviceID,
		Protocol:            models.ProtocolHTTP,
		Endpoint:            "http://" + deviceID + ".local",
		AuthMode:            models.AuthNone,
		PollIntervalSeconds: intervalSeconds,
		Active:              true,
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}
