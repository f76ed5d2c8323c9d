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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

var errTestFixture = errors.New("fixture error")

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	require.Eventually(t, func() bool {
		return srv.JetStreamEnabled()
	}, 5*time.Second, 50*time.Millisecond, "embedded NATS server not ready for JetStream")

	t.Cleanup(srv.Shutdown)

	return srv
}

func TestConnectAndPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv := runJetStreamServer(t)

	pub, err := Connect(ctx, &models.NATSConfig{URL: srv.ClientURL()}, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = pub.Close() })

	data := &models.JobCapturedEvent{CaptureID: "cap-1", DeviceID: "dev.1", NativeJobID: "J-1", Pages: 2, Copies: 1}
	require.NoError(t, pub.Publish(ctx, models.EventTypeJobCaptured, "dev.1", data))

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)

	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, "PRINTRADAR")
	require.NoError(t, err)
	assert.Equal(t, []string{"printradar.>"}, stream.CachedInfo().Config.Subjects)

	msg, err := stream.GetLastMsgForSubject(ctx, "printradar.job.captured.dev_1")
	require.NoError(t, err)

	var event struct {
		models.CloudEvent
		Data models.JobCapturedEvent `json:"data"`
	}

	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, models.CloudEventSpecVersion, event.SpecVersion)
	assert.Equal(t, models.EventTypeJobCaptured, event.Type)
	assert.Equal(t, "printradar.job.captured.dev_1", event.Subject)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "cap-1", event.Data.CaptureID)
}

func TestConnectWidensExistingStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv := runJetStreamServer(t)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)

	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{Name: "EVENTS", Subjects: []string{"legacy.*"}})
	require.NoError(t, err)

	pub, err := Connect(ctx, &models.NATSConfig{
		URL:           srv.ClientURL(),
		StreamName:    "EVENTS",
		SubjectPrefix: "prints",
	}, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = pub.Close() })

	stream, err := js.Stream(ctx, "EVENTS")
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy.*", "prints.>"}, stream.CachedInfo().Config.Subjects)
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), &models.NATSConfig{}, nil)
	require.Error(t, err)
}

func TestSubjectFor(t *testing.T) {
	p := NewEventPublisher(nil, "S", "printradar.", nil)

	assert.Equal(t, "printradar.quota.exceeded.dev-7", p.subjectFor(models.EventTypeQuotaExceeded, "dev-7"))
	assert.Equal(t, "printradar.job.processed._", p.subjectFor(models.EventTypeJobProcessed, ""))
	assert.Equal(t, "printradar.job.captured.a_b_c_", p.subjectFor(models.EventTypeJobCaptured, "a.b*c>"))

	require.ErrorIs(t, p.Publish(context.Background(), models.EventTypeJobCaptured, "dev", nil), errPublisherClosed)
}

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{"adds subject when list empty", nil, "printradar.>", []string{"printradar.>"}},
		{"keeps list when covered", []string{">"}, "printradar.>", []string{">"}},
		{"keeps exact match", []string{"printradar.>"}, "printradar.>", []string{"printradar.>"}},
		{"appends when unmatched", []string{"logs.syslog.*"}, "printradar.>", []string{"logs.syslog.*", "printradar.>"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ensureSubjectList(append([]string(nil), tc.subjects...), tc.subject))
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "printradar.job.captured", "printradar.job.captured", true},
		{"single wildcard", "printradar.*.captured", "printradar.job.captured", true},
		{"greater wildcard", "printradar.>", "printradar.job.captured", true},
		{"no match length", "printradar.*", "printradar.job.captured", false},
		{"no match tokens", "logs.syslog.*", "printradar.job.captured", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, matchesSubject(tc.pattern, tc.subject))
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	assert.True(t, isStreamMissingErr(jetstream.ErrStreamNotFound))
	assert.True(t, isStreamMissingErr(nats.ErrNoResponders))
	assert.False(t, isStreamMissingErr(errTestFixture))
}
