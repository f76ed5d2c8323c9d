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
	"errors"
	"fmt"
	"math/big"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// Printer-MIB (RFC 3805), Host Resources MIB and Job Monitoring MIB (RFC 2707) objects.
const (
	oidHrDeviceStatus        = ".1.3.6.1.2.1.25.3.2.1.5.1"
	oidHrPrinterStatus       = ".1.3.6.1.2.1.25.3.5.1.1.1"
	oidPrtMarkerLifeCount    = ".1.3.6.1.2.1.43.10.2.1.4.1.1"
	oidPrtSuppliesDesc       = ".1.3.6.1.2.1.43.11.1.1.6.1"
	oidPrtSuppliesMaxCap     = ".1.3.6.1.2.1.43.11.1.1.8.1"
	oidPrtSuppliesLevel      = ".1.3.6.1.2.1.43.11.1.1.9.1"
	oidPrtAlertDescription   = ".1.3.6.1.2.1.43.18.1.1.8.1"
	oidJmActiveJobs          = ".1.3.6.1.4.1.2699.1.1.1.1.1.1.2.1"
	oidJmJobTable            = ".1.3.6.1.4.1.2699.1.1.1.3.1.1"
	oidSnmpEngineBoots       = ".1.3.6.1.6.3.10.2.1.2.0"
	jmJobColState            = "2"
	jmJobColImpressionsCopy  = "7"
	jmJobColImpressionsTotal = "8"
	jmJobColOwner            = "9"
	jmJobStateCompleted      = 9

	hrPrinterIdle     = 3
	hrPrinterPrinting = 4
	hrPrinterWarmup   = 5

	hrDeviceRunning = 2
	hrDeviceWarning = 3
	hrDeviceTesting = 4
	hrDeviceDown    = 5

	defaultSNMPPort      = 161
	defaultSNMPCommunity = "public"
	snmpRetries          = 1
	snmpMaxRepetitions   = 10
)

var (
	errUnsupportedSNMPVersion = errors.New("unsupported snmp version")
	errSNMPPacket             = errors.New("snmp error status")
)

// snmpClient is the subset of *gosnmp.GoSNMP the connector uses.
type snmpClient interface {
	Connect() error
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error
	SetContext(ctx context.Context)
	Close() error
}

type goSNMPClient struct {
	*gosnmp.GoSNMP
}

func (c *goSNMPClient) SetContext(ctx context.Context) {
	c.Context = ctx
}

// BulkWalk falls back to GETNEXT walking for SNMPv1, which has no GETBULK.
func (c *goSNMPClient) BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error {
	if c.Version == gosnmp.Version1 {
		return c.Walk(rootOid, walkFn)
	}

	return c.GoSNMP.BulkWalk(rootOid, walkFn)
}

func (c *goSNMPClient) Close() error {
	if c.Conn == nil {
		return nil
	}

	return c.Conn.Close()
}

// SNMPConnector reads Printer-MIB status and the Job Monitoring MIB job table.
// gosnmp clients are not safe for concurrent use, so calls are serialized.
type SNMPConnector struct {
	deviceID  string
	client    snmpClient
	logger    logger.Logger
	mu        sync.Mutex
	connected bool
	counter   monthlyCounter
	now       func() time.Time
}

// NewSNMPConnector is the Factory for models.ProtocolSNMP. The endpoint is host or host:port.
func NewSNMPConnector(integration *models.DeviceIntegration, opts Options) (Connector, error) {
	creds, err := integration.DecodeCredentials()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	client, err := newGoSNMP(integration.Endpoint, creds, opts.timeout())
	if err != nil {
		return nil, err
	}

	return newSNMPConnector(integration.DeviceID, &goSNMPClient{GoSNMP: client}, opts.logger()), nil
}

func newSNMPConnector(deviceID string, client snmpClient, log logger.Logger) *SNMPConnector {
	return &SNMPConnector{
		deviceID: deviceID,
		client:   client,
		logger:   log,
		now:      time.Now,
	}
}

func newGoSNMP(endpoint string, creds *models.Credentials, timeout time.Duration) (*gosnmp.GoSNMP, error) {
	host, port, err := splitSNMPEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	client := &gosnmp.GoSNMP{
		Target:             host,
		Port:               port,
		Timeout:            timeout,
		Retries:            snmpRetries,
		MaxOids:            gosnmp.MaxOids,
		MaxRepetitions:     snmpMaxRepetitions,
		ExponentialTimeout: true,
	}

	switch strings.ToLower(creds.SNMPVersion) {
	case "1", "v1":
		client.Version = gosnmp.Version1
		client.Community = communityOrDefault(creds.Community)
	case "", "2c", "v2c":
		client.Version = gosnmp.Version2c
		client.Community = communityOrDefault(creds.Community)
	case "3", "v3":
		client.Version = gosnmp.Version3
		client.SecurityModel = gosnmp.UserSecurityModel
		client.MsgFlags, client.SecurityParameters = snmpV3Security(creds)
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedSNMPVersion, creds.SNMPVersion)
	}

	return client, nil
}

func communityOrDefault(community string) string {
	if community == "" {
		return defaultSNMPCommunity
	}

	return community
}

func snmpV3Security(creds *models.Credentials) (gosnmp.SnmpV3MsgFlags, *gosnmp.UsmSecurityParameters) {
	usm := &gosnmp.UsmSecurityParameters{
		UserName:               creds.Username,
		AuthenticationProtocol: gosnmp.NoAuth,
		PrivacyProtocol:        gosnmp.NoPriv,
	}
	flags := gosnmp.NoAuthNoPriv

	switch strings.ToUpper(creds.AuthProtocol) {
	case "MD5":
		usm.AuthenticationProtocol = gosnmp.MD5
	case "SHA":
		usm.AuthenticationProtocol = gosnmp.SHA
	case "SHA256":
		usm.AuthenticationProtocol = gosnmp.SHA256
	case "SHA512":
		usm.AuthenticationProtocol = gosnmp.SHA512
	}

	if usm.AuthenticationProtocol != gosnmp.NoAuth {
		usm.AuthenticationPassphrase = creds.Password
		flags = gosnmp.AuthNoPriv
	}

	switch strings.ToUpper(creds.PrivProtocol) {
	case "DES":
		usm.PrivacyProtocol = gosnmp.DES
	case "AES":
		usm.PrivacyProtocol = gosnmp.AES
	case "AES256":
		usm.PrivacyProtocol = gosnmp.AES256
	}

	if usm.PrivacyProtocol != gosnmp.NoPriv && flags == gosnmp.AuthNoPriv {
		usm.PrivacyPassphrase = creds.PrivPassword
		flags = gosnmp.AuthPriv
	}

	return flags, usm
}

func splitSNMPEndpoint(endpoint string) (string, uint16, error) {
	endpoint = strings.TrimPrefix(endpoint, "udp://")
	if endpoint == "" {
		return "", 0, fmt.Errorf("%w: empty snmp endpoint", errInvalidEndpoint)
	}

	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port
		return strings.Trim(endpoint, "[]"), defaultSNMPPort, nil
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return "", 0, fmt.Errorf("%w: bad port in %q", errInvalidEndpoint, endpoint)
	}

	return host, uint16(port), nil
}

func (c *SNMPConnector) FetchStatus(ctx context.Context) (*models.DeviceStatusSample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	result, err := c.client.Get([]string{oidHrDeviceStatus, oidHrPrinterStatus, oidPrtMarkerLifeCount, oidJmActiveJobs})
	if err != nil {
		c.reset()
		return nil, unreachable(c.deviceID, err)
	}

	if result.Error != gosnmp.NoError {
		return nil, unreachable(c.deviceID, fmt.Errorf("%w: %s", errSNMPPacket, result.Error))
	}

	sample := &models.DeviceStatusSample{
		DeviceID:  c.deviceID,
		State:     models.DeviceStateOffline,
		Source:    models.SourcePoll,
		SampledAt: c.now().UTC(),
	}

	printerStatus := 0

	for _, v := range result.Variables {
		if v.Type == gosnmp.NoSuchObject || v.Type == gosnmp.NoSuchInstance {
			continue
		}

		value, ok := pduInt(v)
		if !ok {
			continue
		}

		switch v.Name {
		case oidHrDeviceStatus:
			sample.State = hrDeviceState(value)
		case oidHrPrinterStatus:
			printerStatus = value
		case oidPrtMarkerLifeCount:
			sample.MonthlyPageCount = c.counter.observe(sample.SampledAt, value)
		case oidJmActiveJobs:
			sample.QueueDepth = value
		}
	}

	// Some agents omit hrDeviceStatus but still report hrPrinterStatus.
	if sample.State == models.DeviceStateOffline {
		switch printerStatus {
		case hrPrinterIdle, hrPrinterPrinting, hrPrinterWarmup:
			sample.State = models.DeviceStateOnline
		}
	}

	// Supplies and alerts are optional tables; a walk failure there does not fail the sample.
	if consumables, err := c.walkSupplies(); err == nil {
		sample.Consumables = consumables
	} else {
		c.logger.Debug().Err(err).Str("device_id", c.deviceID).Msg("Supplies walk failed")
	}

	if alerts, err := c.walkStrings(oidPrtAlertDescription); err == nil {
		sample.Errors = alerts
	}

	return sample, nil
}

// FetchJobLog walks jmJobTable and returns completed jobs. The table carries
// no completion time, so since is not applied and dedup happens downstream.
// Agents renumber jmJobIndex after a reboot, so native ids carry
// snmpEngineBoots when the agent reports it.
func (c *SNMPConnector) FetchJobLog(ctx context.Context, _ *time.Time) ([]models.RawJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	boots, err := c.engineBoots()
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*snmpJobRow)
	order := make([]string, 0)
	prefix := oidJmJobTable + "."

	err = c.client.BulkWalk(oidJmJobTable, func(pdu gosnmp.SnmpPDU) error {
		column, index, ok := strings.Cut(strings.TrimPrefix(pdu.Name, prefix), ".")
		if !ok {
			return nil
		}

		row, exists := rows[index]
		if !exists {
			row = &snmpJobRow{}
			rows[index] = row
			order = append(order, index)
		}

		row.set(column, pdu)

		return nil
	})
	if err != nil {
		c.reset()
		return nil, unreachable(c.deviceID, err)
	}

	jobs := make([]models.RawJob, 0, len(order))

	for _, index := range order {
		row := rows[index]
		if row.state != jmJobStateCompleted {
			continue
		}

		jobs = append(jobs, row.rawJob(jobNativeID(boots, index)))
	}

	return jobs, nil
}

// engineBoots reads the agent's reboot counter. Zero means the agent does not
// report one.
func (c *SNMPConnector) engineBoots() (int, error) {
	result, err := c.client.Get([]string{oidSnmpEngineBoots})
	if err != nil {
		c.reset()
		return 0, unreachable(c.deviceID, err)
	}

	if result.Error != gosnmp.NoError {
		return 0, nil
	}

	for _, v := range result.Variables {
		if v.Name != oidSnmpEngineBoots {
			continue
		}

		if boots, ok := pduInt(v); ok && boots > 0 {
			return boots, nil
		}
	}

	return 0, nil
}

func jobNativeID(boots int, index string) string {
	if boots <= 0 {
		return "jm-" + index
	}

	return "jm-" + strconv.Itoa(boots) + "-" + index
}

func (c *SNMPConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false

	return c.client.Close()
}

func (c *SNMPConnector) ensureConnected(ctx context.Context) error {
	c.client.SetContext(ctx)

	if c.connected {
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return unreachable(c.deviceID, err)
	}

	c.connected = true

	return nil
}

// reset drops the socket so the next cycle reconnects.
func (c *SNMPConnector) reset() {
	_ = c.client.Close()
	c.connected = false
}

func (c *SNMPConnector) walkSupplies() (map[string]float64, error) {
	type supply struct {
		name       string
		max, level int
		hasMax     bool
		hasLevel   bool
	}

	supplies := make(map[string]*supply)
	get := func(index string) *supply {
		s, ok := supplies[index]
		if !ok {
			s = &supply{}
			supplies[index] = s
		}

		return s
	}

	walks := []struct {
		root string
		fn   func(*supply, gosnmp.SnmpPDU)
	}{
		{oidPrtSuppliesDesc, func(s *supply, pdu gosnmp.SnmpPDU) { s.name = pduString(pdu) }},
		{oidPrtSuppliesMaxCap, func(s *supply, pdu gosnmp.SnmpPDU) { s.max, s.hasMax = pduInt(pdu) }},
		{oidPrtSuppliesLevel, func(s *supply, pdu gosnmp.SnmpPDU) { s.level, s.hasLevel = pduInt(pdu) }},
	}

	for _, w := range walks {
		root := w.root
		fn := w.fn

		err := c.client.BulkWalk(root, func(pdu gosnmp.SnmpPDU) error {
			fn(get(strings.TrimPrefix(pdu.Name, root+".")), pdu)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]float64, len(supplies))

	for index, s := range supplies {
		// negative max or level values are RFC 3805 sentinels (unknown, some remaining)
		if !s.hasMax || !s.hasLevel || s.max <= 0 || s.level < 0 {
			continue
		}

		name := s.name
		if name == "" {
			name = "supply-" + index
		}

		out[name] = float64(s.level) * 100 / float64(s.max)
	}

	return out, nil
}

func (c *SNMPConnector) walkStrings(root string) ([]string, error) {
	var out []string

	err := c.client.BulkWalk(root, func(pdu gosnmp.SnmpPDU) error {
		if s := strings.TrimSpace(pduString(pdu)); s != "" {
			out = append(out, s)
		}

		return nil
	})

	return out, err
}

type snmpJobRow struct {
	state       int
	perCopy     int
	completed   int
	owner       string
	hasPerCopy  bool
	hasComplete bool
}

func (r *snmpJobRow) set(column string, pdu gosnmp.SnmpPDU) {
	switch column {
	case jmJobColState:
		r.state, _ = pduInt(pdu)
	case jmJobColImpressionsCopy:
		r.perCopy, r.hasPerCopy = pduInt(pdu)
	case jmJobColImpressionsTotal:
		r.completed, r.hasComplete = pduInt(pdu)
	case jmJobColOwner:
		r.owner = pduString(pdu)
	}
}

func (r *snmpJobRow) rawJob(nativeID string) models.RawJob {
	job := models.RawJob{
		NativeID: nativeID,
		Pages:    r.completed,
		Copies:   1,
		Metadata: map[string]interface{}{},
	}

	// impressions-per-copy requested plus total completed lets us recover copies
	if r.hasPerCopy && r.perCopy > 0 && r.hasComplete && r.completed%r.perCopy == 0 && r.completed >= r.perCopy {
		job.Pages = r.perCopy
		job.Copies = r.completed / r.perCopy
	}

	if r.owner != "" {
		job.Metadata["owner"] = r.owner
	}

	return job
}

func hrDeviceState(status int) models.DeviceState {
	switch status {
	case hrDeviceRunning, hrDeviceWarning:
		return models.DeviceStateOnline
	case hrDeviceTesting:
		return models.DeviceStateMaintenance
	case hrDeviceDown:
		return models.DeviceStateError
	default:
		return models.DeviceStateOffline
	}
}

func pduInt(pdu gosnmp.SnmpPDU) (int, bool) {
	switch pdu.Type {
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.Counter64, gosnmp.Uinteger32, gosnmp.TimeTicks:
		v := gosnmp.ToBigInt(pdu.Value)
		if !v.IsInt64() || v.Cmp(big.NewInt(int64(^uint(0)>>1))) > 0 {
			return 0, false
		}

		return int(v.Int64()), true
	default:
		return 0, false
	}
}

func pduString(pdu gosnmp.SnmpPDU) string {
	if pdu.Type != gosnmp.OctetString {
		return ""
	}

	if b, ok := pdu.Value.([]byte); ok {
		return strings.TrimRight(string(b), "\x00")
	}

	return ""
}
