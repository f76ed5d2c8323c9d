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
	"time"

	"github.com/carverauto/printradar/pkg/connector"
	"github.com/carverauto/printradar/pkg/models"
)

const (
	defaultSyncInterval = 60 * time.Second
	defaultPollTimeout  = 30 * time.Second
)

// Config tunes the scheduler.
type Config struct {
	// SyncInterval is the reconciliation period against the store.
	SyncInterval time.Duration
	// PollTimeout bounds each connector call.
	PollTimeout time.Duration
	// Registry builds connectors; DefaultRegistry when nil.
	Registry *connector.Registry
	Recorder Recorder
}

// ConfigFrom maps the service configuration onto a scheduler Config.
func ConfigFrom(cfg models.SchedulerConfig) Config {
	return Config{
		SyncInterval: time.Duration(cfg.SyncInterval),
		PollTimeout:  time.Duration(cfg.PollTimeout),
	}
}

func (c *Config) applyDefaults() {
	if c.SyncInterval <= 0 {
		c.SyncInterval = defaultSyncInterval
	}

	if c.PollTimeout <= 0 {
		c.PollTimeout = defaultPollTimeout
	}

	if c.Registry == nil {
		c.Registry = connector.DefaultRegistry()
	}

	if c.Recorder == nil {
		c.Recorder = nopRecorder{}
	}
}
