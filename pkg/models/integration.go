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
)

// ProtocolKind selects the connector used to talk to a device.
type ProtocolKind string

const (
	ProtocolSNMP ProtocolKind = "snmp"
	ProtocolIPP  ProtocolKind = "ipp"
	ProtocolHTTP ProtocolKind = "http"
)

// AuthMode selects how a connector authenticates against a device.
type AuthMode string

const (
	AuthNone        AuthMode = "none"
	AuthBasic       AuthMode = "basic"
	AuthAPIKey      AuthMode = "api_key"
	AuthCertificate AuthMode = "certificate"
)

const (
	// DefaultPollIntervalSeconds applies when an integration has no interval configured.
	DefaultPollIntervalSeconds = 300
	// MinPollIntervalSeconds is the floor applied to configured intervals.
	MinPollIntervalSeconds = 10
)

var (
	ErrIntegrationIDRequired = errors.New("integration id is required")
	ErrDeviceIDRequired      = errors.New("device id is required")
	ErrEndpointRequired      = errors.New("integration endpoint is required")
	ErrUnknownProtocol       = errors.New("unknown protocol kind")
	ErrUnknownAuthMode       = errors.New("unknown auth mode")
)

// DeviceIntegration binds one printer to one protocol connector and polling schedule.
type DeviceIntegration struct {
	ID                  string          `json:"id"`
	DeviceID            string          `json:"device_id"`
	Protocol            ProtocolKind    `json:"protocol"`
	Endpoint            string          `json:"endpoint"`
	AuthMode            AuthMode        `json:"auth_mode"`
	Credentials         json.RawMessage `json:"credentials,omitempty" sensitive:"true"`
	PollIntervalSeconds int             `json:"poll_interval_seconds"`
	Active              bool            `json:"active"`
	LastSyncAt          *time.Time      `json:"last_sync_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Credentials is the decoded form of DeviceIntegration.Credentials. Which
// fields matter depends on the protocol and auth mode.
type Credentials struct {
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	APIKeyHeader string `json:"api_key_header,omitempty"`
	CertFile     string `json:"cert_file,omitempty"`
	KeyFile      string `json:"key_file,omitempty"`
	CAFile       string `json:"ca_file,omitempty"`

	// SNMP specific.
	Community    string `json:"community,omitempty"`
	SNMPVersion  string `json:"snmp_version,omitempty"`
	AuthProtocol string `json:"auth_protocol,omitempty"`
	PrivProtocol string `json:"priv_protocol,omitempty"`
	PrivPassword string `json:"priv_password,omitempty"`
}

// Interval returns the effective poll interval.
func (d *DeviceIntegration) Interval() time.Duration {
	seconds := d.PollIntervalSeconds
	if seconds <= 0 {
		seconds = DefaultPollIntervalSeconds
	}

	if seconds < MinPollIntervalSeconds {
		seconds = MinPollIntervalSeconds
	}

	return time.Duration(seconds) * time.Second
}

// DecodeCredentials parses the opaque credential payload.
func (d *DeviceIntegration) DecodeCredentials() (*Credentials, error) {
	creds := &Credentials{}

	if len(d.Credentials) == 0 || string(d.Credentials) == "null" {
		return creds, nil
	}

	if err := json.Unmarshal(d.Credentials, creds); err != nil {
		return nil, fmt.Errorf("integration %s: invalid credentials: %w", d.ID, err)
	}

	return creds, nil
}

// Validate checks the fields the scheduler depends on.
func (d *DeviceIntegration) Validate() error {
	if d.ID == "" {
		return ErrIntegrationIDRequired
	}

	if d.DeviceID == "" {
		return ErrDeviceIDRequired
	}

	if d.Endpoint == "" {
		return ErrEndpointRequired
	}

	switch d.Protocol {
	case ProtocolSNMP, ProtocolIPP, ProtocolHTTP:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProtocol, d.Protocol)
	}

	switch d.AuthMode {
	case "", AuthNone, AuthBasic, AuthAPIKey, AuthCertificate:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAuthMode, d.AuthMode)
	}

	return nil
}

// ScheduleKey identifies the parts of an integration whose change requires
// the scheduler to rebuild the device's connector and ticker.
func (d *DeviceIntegration) ScheduleKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d", d.Protocol, d.Endpoint, d.AuthMode, d.Credentials, d.Interval()/time.Second)
}
