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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/phin1x/go-ipp"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

const (
	ippContentType       = "application/ipp"
	ippDefaultPort       = "631"
	ippRequestingUser    = "printradar"
	ippWhichJobs         = "completed"
	ippPrinterIdle       = 3
	ippPrinterProcessing = 4
	ippPrinterStopped    = 5

	// RFC 2579 DateAndTime length.
	ippDateTimeLen = 11
)

//nolint:gochecknoglobals // fixed attribute lists
var (
	ippPrinterAttributes = []string{
		"printer-state",
		"printer-state-reasons",
		"queued-job-count",
		"marker-names",
		"marker-levels",
		"printer-impressions-completed",
	}
	ippJobAttributes = []string{
		"job-id",
		"job-name",
		"job-originating-user-name",
		"job-impressions",
		"job-impressions-completed",
		"copies",
		"print-color-mode",
		"media",
		"print-quality",
		"date-time-at-completed",
	}
	ippQualityNames = map[int]string{3: "draft", 4: "normal", 5: "high"}
)

// IPPConnector speaks IPP/1.1 over HTTP(S) to a printer or print server.
type IPPConnector struct {
	deviceID   string
	printerURI string
	httpURL    string
	client     *http.Client
	auth       *httpAuth
	logger     logger.Logger
	requestID  atomic.Int32
	counter    monthlyCounter
	now        func() time.Time
}

// NewIPPConnector is the Factory for models.ProtocolIPP. The endpoint is an
// ipp://, ipps://, http:// or https:// printer URI.
func NewIPPConnector(integration *models.DeviceIntegration, opts Options) (Connector, error) {
	printerURI, httpURL, err := ippURLs(integration.Endpoint)
	if err != nil {
		return nil, err
	}

	client, auth, err := newHTTPTransport(integration, opts.timeout())
	if err != nil {
		return nil, err
	}

	return &IPPConnector{
		deviceID:   integration.DeviceID,
		printerURI: printerURI,
		httpURL:    httpURL,
		client:     client,
		auth:       auth,
		logger:     opts.logger(),
		now:        time.Now,
	}, nil
}

func ippURLs(endpoint string) (printerURI, httpURL string, err error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidEndpoint, endpoint)
	}

	httpU := *u

	switch u.Scheme {
	case "ipp":
		httpU.Scheme = "http"
	case "ipps":
		httpU.Scheme = "https"
	case "http", "https":
	default:
		return "", "", fmt.Errorf("%w: unsupported scheme %q", errInvalidEndpoint, u.Scheme)
	}

	if u.Port() == "" && (u.Scheme == "ipp" || u.Scheme == "ipps") {
		httpU.Host = u.Host + ":" + ippDefaultPort
	}

	return u.String(), httpU.String(), nil
}

func (c *IPPConnector) FetchStatus(ctx context.Context) (*models.DeviceStatusSample, error) {
	resp, err := c.do(ctx, ipp.OperationGetPrinterAttributes, nil, ippPrinterAttributes)
	if err != nil {
		return nil, err
	}

	if len(resp.PrinterAttributes) == 0 {
		return nil, fmt.Errorf("%w: no printer attributes in response", ErrUnexpectedResponse)
	}

	p := ippAttrs(resp.PrinterAttributes[0])
	reasons := p.strs("printer-state-reasons")
	state, _ := p.integer("printer-state")

	sample := &models.DeviceStatusSample{
		DeviceID:    c.deviceID,
		State:       ippDeviceState(state, reasons),
		Consumables: ippConsumables(p.strs("marker-names"), p.integers("marker-levels")),
		Errors:      ippErrors(reasons),
		Source:      models.SourcePoll,
		SampledAt:   c.now().UTC(),
	}

	if queued, ok := p.integer("queued-job-count"); ok {
		sample.QueueDepth = queued
	}

	if total, ok := p.integer("printer-impressions-completed"); ok {
		sample.MonthlyPageCount = c.counter.observe(sample.SampledAt, total)
	}

	return sample, nil
}

// FetchJobLog returns every completed job the printer still lists. since is
// not applied: completion times come from the device clock, and captures are
// deduplicated on the job id.
func (c *IPPConnector) FetchJobLog(ctx context.Context, _ *time.Time) ([]models.RawJob, error) {
	extra := map[string]interface{}{ipp.AttributeWhichJobs: ippWhichJobs}

	resp, err := c.do(ctx, ipp.OperationGetJobs, extra, ippJobAttributes)
	if err != nil {
		return nil, err
	}

	jobs := make([]models.RawJob, 0, len(resp.JobAttributes))

	for _, attrs := range resp.JobAttributes {
		job, ok := ippRawJob(ippAttrs(attrs))
		if !ok {
			continue
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (c *IPPConnector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *IPPConnector) do(
	ctx context.Context, op int16, extra map[string]interface{}, requested []string) (*ipp.Response, error) {
	req := ipp.NewRequest(op, c.requestID.Add(1))
	req.OperationAttributes[ipp.AttributePrinterURI] = c.printerURI
	req.OperationAttributes[ipp.AttributeRequestingUserName] = ippRequestingUser
	req.OperationAttributes[ipp.AttributeRequestedAttributes] = requested

	for name, value := range extra {
		req.OperationAttributes[name] = value
	}

	payload, err := req.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode IPP request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.httpURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build IPP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", ippContentType)
	c.auth.apply(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, unreachable(c.deviceID, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, unreachable(c.deviceID, fmt.Errorf("ipp endpoint returned %s", httpResp.Status))
	}

	resp, err := ipp.NewResponseDecoder(io.LimitReader(httpResp.Body, maxHTTPResponseBytes)).Decode(io.Discard)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}

	switch {
	case ippAuthFailure(resp.StatusCode):
		return nil, unreachable(c.deviceID, fmt.Errorf("ipp status 0x%04x", uint16(resp.StatusCode)))
	case resp.StatusCode < 0 || resp.StatusCode >= 0x0100:
		return nil, fmt.Errorf("%w: ipp status 0x%04x", ErrUnexpectedResponse, uint16(resp.StatusCode))
	}

	return resp, nil
}

func ippAuthFailure(status int16) bool {
	switch status {
	case ipp.StatusErrorForbidden, ipp.StatusErrorNotAuthenticated, ipp.StatusErrorNotAuthorized:
		return true
	default:
		return false
	}
}

func ippDeviceState(state int, reasons []string) models.DeviceState {
	switch state {
	case ippPrinterIdle, ippPrinterProcessing:
		return models.DeviceStateOnline
	case ippPrinterStopped:
		for _, reason := range reasons {
			if strings.HasPrefix(reason, "paused") || strings.HasPrefix(reason, "moving-to-paused") {
				return models.DeviceStateMaintenance
			}
		}

		return models.DeviceStateError
	default:
		return models.DeviceStateOffline
	}
}

func ippErrors(reasons []string) []string {
	var out []string

	for _, reason := range reasons {
		if reason == "none" || strings.HasSuffix(reason, "-report") {
			continue
		}

		out = append(out, reason)
	}

	return out
}

func ippConsumables(names []string, levels []int) map[string]float64 {
	if len(names) == 0 {
		return nil
	}

	out := make(map[string]float64, len(names))

	for i, name := range names {
		// negative levels mean unknown or unavailable
		if i < len(levels) && levels[i] >= 0 {
			out[name] = float64(levels[i])
		}
	}

	return out
}

func ippRawJob(attrs ippAttrs) (models.RawJob, bool) {
	id, ok := attrs.integer("job-id")
	if !ok {
		return models.RawJob{}, false
	}

	job := models.RawJob{
		NativeID:  strconv.Itoa(id),
		FileName:  attrs.str("job-name"),
		PaperSize: attrs.str("media"),
		Color:     attrs.str("print-color-mode") == "color",
		Metadata:  map[string]interface{}{},
	}

	copies, hasCopies := attrs.integer("copies")
	perCopy, hasPerCopy := attrs.integer("job-impressions")

	if hasPerCopy {
		job.Pages = perCopy
		if hasCopies {
			job.Copies = copies
		}
	} else {
		completed, _ := attrs.integer("job-impressions-completed")
		job.Pages = completed
		job.Copies = 1
	}

	if quality, ok := attrs.integer("print-quality"); ok {
		job.Quality = ippQualityNames[quality]
	}

	if owner := attrs.str("job-originating-user-name"); owner != "" {
		job.Metadata["owner"] = owner
	}

	if completedAt, ok := attrs.dateTime("date-time-at-completed"); ok {
		job.CompletedAt = &completedAt
	}

	job.Normalize()

	return job, true
}

// ippAttrs reads decoded attribute groups by name.
type ippAttrs ipp.Attributes

func (a ippAttrs) str(name string) string {
	if v := a[name]; len(v) > 0 {
		if s, ok := v[0].Value.(string); ok {
			return s
		}
	}

	return ""
}

func (a ippAttrs) strs(name string) []string {
	out := make([]string, 0, len(a[name]))

	for _, v := range a[name] {
		if s, ok := v.Value.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func (a ippAttrs) integer(name string) (int, bool) {
	if v := a[name]; len(v) > 0 {
		return ippInt(v[0].Value)
	}

	return 0, false
}

func (a ippAttrs) integers(name string) []int {
	out := make([]int, 0, len(a[name]))

	for _, v := range a[name] {
		if i, ok := ippInt(v.Value); ok {
			out = append(out, i)
		}
	}

	return out
}

func (a ippAttrs) dateTime(name string) (time.Time, bool) {
	if v := a[name]; len(v) > 0 {
		return ippDateTime(v[0].Value)
	}

	return time.Time{}, false
}

func ippInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// ippDateTime accepts the decoder's dateTime value, either a time.Time or the
// raw RFC 2579 octets as ints.
func ippDateTime(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), true
	case []int:
		raw := make([]byte, len(d))
		for i, b := range d {
			raw[i] = byte(b)
		}

		return decodeDateAndTime(raw)
	case []byte:
		return decodeDateAndTime(d)
	case string:
		return decodeDateAndTime([]byte(d))
	default:
		return time.Time{}, false
	}
}

func decodeDateAndTime(raw []byte) (time.Time, bool) {
	if len(raw) != ippDateTimeLen {
		return time.Time{}, false
	}

	offset := (int(raw[9])*60 + int(raw[10])) * 60
	if raw[8] == '-' {
		offset = -offset
	}

	return time.Date(
		int(raw[0])<<8|int(raw[1]),
		time.Month(raw[2]),
		int(raw[3]),
		int(raw[4]),
		int(raw[5]),
		int(raw[6]),
		int(raw[7])*int(100*time.Millisecond),
		time.FixedZone("", offset),
	).UTC(), true
}
