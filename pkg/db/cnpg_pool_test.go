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

package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/printradar/pkg/models"
)

func TestBuildCNPGConnURL_DefaultsSSLModeDisable(t *testing.T) {
	t.Parallel()

	u, err := buildCNPGConnURL(&models.DatabaseConfig{
		Host:     "pg",
		Database: "printradar",
		Username: "radar",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "pg:5432", u.Host)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	pass, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "secret", pass)
}

func TestBuildCNPGConnURL_DefaultsSSLModeVerifyFullWithTLS(t *testing.T) {
	t.Parallel()

	u, err := buildCNPGConnURL(&models.DatabaseConfig{
		Host:     "pg",
		Port:     6432,
		Database: "printradar",
		TLS: &models.TLSConfig{
			CertFile: "client.crt",
			KeyFile:  "client.key",
			CAFile:   "ca.crt",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "verify-full", u.Query().Get("sslmode"))
	assert.Equal(t, "pg:6432", u.Host)
}

func TestBuildCNPGConnURL_RejectsTLSWithSSLModeDisable(t *testing.T) {
	t.Parallel()

	_, err := buildCNPGConnURL(&models.DatabaseConfig{
		Host:    "pg",
		SSLMode: "disable",
		TLS: &models.TLSConfig{
			CertFile: "client.crt",
			KeyFile:  "client.key",
			CAFile:   "ca.crt",
		},
	})
	assert.True(t, errors.Is(err, ErrCNPGTLSDisabled))
}

func TestBuildCNPGConnURL_TLSPathsResolveViaCertDir(t *testing.T) {
	t.Parallel()

	u, err := buildCNPGConnURL(&models.DatabaseConfig{
		Host:    "pg",
		CertDir: "/etc/printradar/pg",
		TLS: &models.TLSConfig{
			CertFile: "client.crt",
			KeyFile:  "/abs/client.key",
			CAFile:   "ca.crt",
		},
	})
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/etc/printradar/pg/client.crt", q.Get("sslcert"))
	assert.Equal(t, "/abs/client.key", q.Get("sslkey"))
	assert.Equal(t, "/etc/printradar/pg/ca.crt", q.Get("sslrootcert"))
}

func TestResolveCNPGSSLMode_UsesRuntimeParamsFallback(t *testing.T) {
	t.Parallel()

	got, err := resolveCNPGSSLMode(&models.DatabaseConfig{
		RuntimeParams: map[string]string{"sslmode": "Verify-CA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "verify-ca", got)
}
