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

package connector

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/carverauto/printradar/pkg/models"
)

const defaultAPIKeyHeader = "X-API-Key"

// httpAuth applies per request credentials for the basic and api_key modes.
type httpAuth struct {
	mode     models.AuthMode
	username string
	password string
	header   string
	key      string
}

func (a *httpAuth) apply(req *http.Request) {
	switch a.mode {
	case models.AuthBasic:
		req.SetBasicAuth(a.username, a.password)
	case models.AuthAPIKey:
		req.Header.Set(a.header, a.key)
	case models.AuthNone, models.AuthCertificate:
	}
}

// newHTTPTransport resolves the integration's auth mode into request
// credentials and an http.Client. Certificate mode configures mutual TLS.
func newHTTPTransport(integration *models.DeviceIntegration, timeout time.Duration) (*http.Client, *httpAuth, error) {
	creds, err := integration.DecodeCredentials()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	auth := &httpAuth{mode: integration.AuthMode}
	if auth.mode == "" {
		auth.mode = models.AuthNone
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	switch auth.mode {
	case models.AuthNone:
	case models.AuthBasic:
		if creds.Username == "" {
			return nil, nil, fmt.Errorf("%w: basic auth requires a username", ErrInvalidCredentials)
		}

		auth.username, auth.password = creds.Username, creds.Password
	case models.AuthAPIKey:
		if creds.APIKey == "" {
			return nil, nil, fmt.Errorf("%w: api_key auth requires a key", ErrInvalidCredentials)
		}

		auth.key = creds.APIKey

		auth.header = creds.APIKeyHeader
		if auth.header == "" {
			auth.header = defaultAPIKeyHeader
		}
	case models.AuthCertificate:
		tlsConfig, err := certificateTLS(creds)
		if err != nil {
			return nil, nil, err
		}

		transport.TLSClientConfig = tlsConfig
	default:
		return nil, nil, fmt.Errorf("%w: unknown auth mode %q", ErrInvalidCredentials, auth.mode)
	}

	return &http.Client{Transport: transport, Timeout: timeout}, auth, nil
}

func certificateTLS(creds *models.Credentials) (*tls.Config, error) {
	tlsCfg := &models.TLSConfig{CertFile: creds.CertFile, KeyFile: creds.KeyFile, CAFile: creds.CAFile}

	tlsConfig, err := tlsCfg.ClientTLS("")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	return tlsConfig, nil
}
