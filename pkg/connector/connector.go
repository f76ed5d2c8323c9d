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

// Package connector talks to printers over SNMP, IPP and generic HTTP/JSON.
package connector

//go:generate mockgen -destination=mock_connector.go -package=connector github.com/carverauto/printradar/pkg/connector Connector

import (
	"context"
	"time"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// DefaultTimeout bounds a single connector call when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Connector fetches status and completed jobs from one device.
type Connector interface {
	// FetchStatus returns the device's current state. Network and auth
	// failures wrap ErrConnectorUnreachable.
	FetchStatus(ctx context.Context) (*models.DeviceStatusSample, error)
	// FetchJobLog returns jobs completed since the given time, or every job
	// the device still remembers when since is nil.
	FetchJobLog(ctx context.Context, since *time.Time) ([]models.RawJob, error)
	Close() error
}

// Options are integration independent construction parameters.
type Options struct {
	Timeout time.Duration
	Logger  logger.Logger
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}

	return o.Timeout
}

func (o Options) logger() logger.Logger {
	if o.Logger == nil {
		return logger.NewTestLogger()
	}

	return o.Logger
}
