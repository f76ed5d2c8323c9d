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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/printradar/pkg/logger"
)

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("30s") or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

var (
	errInvalidDuration        = errors.New("invalid duration")
	errUnknownDatabaseDriver  = errors.New("database driver must be postgres or memory")
	errDatabaseHostRequired   = errors.New("database host is required for the postgres driver")
	errWebhookSecretRequired  = errors.New("webhook secret is required")
	errNATSURLRequired        = errors.New("nats url is required")
	errNegativeRate           = errors.New("billing rates must not be negative")
	errInvalidWebhookBodySize = errors.New("webhook max_body_bytes must be positive")
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"

	defaultListenAddr       = ":8090"
	defaultSyncInterval     = 60 * time.Second
	defaultPollTimeout      = 30 * time.Second
	defaultWebhookBodyBytes = 1 << 20
	defaultStreamName       = "PRINTRADAR"
	defaultSubjectPrefix    = "printradar"
	defaultMetricsPath      = "/metrics"
)

// ServiceConfig is the configuration document for the printradar service.
type ServiceConfig struct {
	ListenAddr string          `json:"listen_addr"`
	APIKey     string          `json:"api_key" sensitive:"true"`
	Database   DatabaseConfig  `json:"database"`
	NATS       *NATSConfig     `json:"nats,omitempty"`
	Webhook    WebhookConfig   `json:"webhook"`
	Scheduler  SchedulerConfig `json:"scheduler"`
	Billing    BillingConfig   `json:"billing"`
	Metrics    MetricsConfig   `json:"metrics"`
	Logging    *logger.Config  `json:"logging,omitempty"`
}

// DatabaseConfig describes the integration record store.
type DatabaseConfig struct {
	Driver            string            `json:"driver"`
	Host              string            `json:"host"`
	Port              int               `json:"port"`
	Database          string            `json:"database"`
	Username          string            `json:"username"`
	Password          string            `json:"password" sensitive:"true"`
	SSLMode           string            `json:"ssl_mode"`
	ApplicationName   string            `json:"application_name"`
	MaxConnections    int32             `json:"max_connections"`
	MinConnections    int32             `json:"min_connections"`
	MaxConnLifetime   Duration          `json:"max_conn_lifetime"`
	HealthCheckPeriod Duration          `json:"health_check_period"`
	StatementTimeout  Duration          `json:"statement_timeout"`
	RuntimeParams     map[string]string `json:"runtime_params,omitempty"`
	TLS               *TLSConfig        `json:"tls,omitempty"`
	CertDir           string            `json:"cert_dir,omitempty"`
}

// NATSConfig configures CloudEvent publishing to JetStream.
type NATSConfig struct {
	URL           string     `json:"url"`
	Domain        string     `json:"domain,omitempty"`
	StreamName    string     `json:"stream_name"`
	SubjectPrefix string     `json:"subject_prefix"`
	TLS           *TLSConfig `json:"tls,omitempty"`
	CertDir       string     `json:"cert_dir,omitempty"`
}

// Validate ensures the NATS configuration is valid.
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return errNATSURLRequired
	}

	if c.StreamName == "" {
		c.StreamName = defaultStreamName
	}

	if c.SubjectPrefix == "" {
		c.SubjectPrefix = defaultSubjectPrefix
	}

	return nil
}

// WebhookConfig configures the push ingress.
type WebhookConfig struct {
	Secret       string `json:"secret" sensitive:"true"`
	MaxBodyBytes int64  `json:"max_body_bytes"`
}

// SchedulerConfig tunes the polling scheduler.
type SchedulerConfig struct {
	// SyncInterval is how often the scheduler re-reads active integrations.
	SyncInterval Duration `json:"sync_interval"`
	// PollTimeout bounds a single connector call.
	PollTimeout Duration `json:"poll_timeout"`
}

// BillingConfig holds the per-page rates used when a department has no rate row.
type BillingConfig struct {
	DefaultBWRate    float64 `json:"default_bw_rate"`
	DefaultColorRate float64 `json:"default_color_rate"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Validate implements config.Validator and fills in defaults.
func (c *ServiceConfig) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if c.NATS != nil {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}

	if c.Webhook.Secret == "" {
		return errWebhookSecretRequired
	}

	if c.Webhook.MaxBodyBytes == 0 {
		c.Webhook.MaxBodyBytes = defaultWebhookBodyBytes
	}

	if c.Webhook.MaxBodyBytes < 0 {
		return errInvalidWebhookBodySize
	}

	if time.Duration(c.Scheduler.SyncInterval) <= 0 {
		c.Scheduler.SyncInterval = Duration(defaultSyncInterval)
	}

	if time.Duration(c.Scheduler.PollTimeout) <= 0 {
		c.Scheduler.PollTimeout = Duration(defaultPollTimeout)
	}

	if c.Billing.DefaultBWRate < 0 || c.Billing.DefaultColorRate < 0 {
		return errNegativeRate
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Driver == "" {
		c.Driver = DatabaseDriverPostgres
	}

	switch c.Driver {
	case DatabaseDriverMemory:
		return nil
	case DatabaseDriverPostgres:
		if c.Host == "" {
			return errDatabaseHostRequired
		}

		if c.Port == 0 {
			c.Port = 5432
		}

		if c.SSLMode == "" {
			c.SSLMode = "disable"
		}

		if c.ApplicationName == "" {
			c.ApplicationName = "printradar"
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownDatabaseDriver, c.Driver)
	}
}
