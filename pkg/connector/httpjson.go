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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

const maxHTTPResponseBytes = 4 << 20

// HTTPConnector polls a device or print server exposing a JSON API:
// GET {endpoint}/status and GET {endpoint}/jobs?since=<RFC3339>.
type HTTPConnector struct {
	deviceID string
	baseURL  *url.URL
	client   *http.Client
	auth     *httpAuth
	logger   logger.Logger
	now      func() time.Time
}

type jobLogResponse struct {
	Jobs []models.JobPayload `json:"jobs"`
}

// NewHTTPConnector is the Factory for models.ProtocolHTTP.
func NewHTTPConnector(integration *models.DeviceIntegration, opts Options) (Connector, error) {
	base, err := url.Parse(strings.TrimRight(integration.Endpoint, "/"))
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", errInvalidEndpoint, integration.Endpoint)
	}

	client, auth, err := newHTTPTransport(integration, opts.timeout())
	if err != nil {
		return nil, err
	}

	return &HTTPConnector{
		deviceID: integration.DeviceID,
		baseURL:  base,
		client:   client,
		auth:     auth,
		logger:   opts.logger(),
		now:      time.Now,
	}, nil
}

func (c *HTTPConnector) FetchStatus(ctx context.Context) (*models.DeviceStatusSample, error) {
	var payload models.StatusPayload

	if err := c.getJSON(ctx, "status", nil, &payload); err != nil {
		return nil, err
	}

	return payload.Sample(c.deviceID, models.SourcePoll, c.now().UTC()), nil
}

func (c *HTTPConnector) FetchJobLog(ctx context.Context, since *time.Time) ([]models.RawJob, error) {
	query := url.Values{}
	if since != nil {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}

	var resp jobLogResponse

	if err := c.getJSON(ctx, "jobs", query, &resp); err != nil {
		return nil, err
	}

	jobs := make([]models.RawJob, 0, len(resp.Jobs))

	for i := range resp.Jobs {
		raw := resp.Jobs[i].RawJob()
		if raw.NativeID == "" {
			c.logger.Warn().Str("device_id", c.deviceID).Msg("Skipping job without job_id")
			continue
		}

		jobs = append(jobs, raw)
	}

	return jobs, nil
}

func (c *HTTPConnector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *HTTPConnector) getJSON(ctx context.Context, path string, query url.Values, dst interface{}) error {
	target := c.baseURL.JoinPath(path)
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	c.auth.apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return unreachable(c.deviceID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxHTTPResponseBytes))
		return unreachable(c.deviceID, fmt.Errorf("GET %s returned %s", path, resp.Status))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHTTPResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnexpectedResponse, path, err)
	}

	return nil
}
