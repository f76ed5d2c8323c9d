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

// Package natsutil publishes domain events to NATS JetStream as CloudEvents.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

const (
	eventSource     = "printradar/core"
	eventTypePrefix = "com.printradar."
	contentTypeJSON = "application/json"
)

var errPublisherClosed = errors.New("event publisher is closed")

var _ capture.EventPublisher = (*EventPublisher)(nil)

// EventPublisher writes CloudEvents to a JetStream stream.
type EventPublisher struct {
	js     jetstream.JetStream
	nc     *nats.Conn
	stream string
	prefix string
	logger logger.Logger
	now    func() time.Time
}

// NewEventPublisher wraps an existing JetStream context. Subjects are
// "<prefix>.<event>.<key>".
func NewEventPublisher(js jetstream.JetStream, streamName, subjectPrefix string, log logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EventPublisher{
		js:     js,
		stream: streamName,
		prefix: strings.TrimSuffix(subjectPrefix, "."),
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Connect dials NATS from cfg, makes sure the stream captures the subject
// prefix, and returns a publisher owning the connection.
func Connect(ctx context.Context, cfg *models.NATSConfig, log logger.Logger) (*EventPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := ConnectOptions(cfg, log)
	if err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := newJetStream(nc, cfg.Domain)
	if err != nil {
		nc.Close()

		return nil, err
	}

	prefix := strings.TrimSuffix(cfg.SubjectPrefix, ".")
	if err := ensureStream(ctx, js, cfg.StreamName, prefix+".>"); err != nil {
		nc.Close()

		return nil, err
	}

	p := NewEventPublisher(js, cfg.StreamName, prefix, log)
	p.nc = nc

	return p, nil
}

func newJetStream(nc *nats.Conn, domain string) (jetstream.JetStream, error) {
	if domain != "" {
		js, err := jetstream.NewWithDomain(nc, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
		}

		return js, nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return js, nil
}

// ensureStream creates the stream, or widens an existing one so that it
// covers subject.
func ensureStream(ctx context.Context, js jetstream.JetStream, name, subject string) error {
	stream, err := js.Stream(ctx, name)
	if err != nil {
		if !isStreamMissingErr(err) {
			return fmt.Errorf("failed to look up stream %s: %w", name, err)
		}

		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}

		return nil
	}

	cfg := stream.CachedInfo().Config

	subjects := ensureSubjectList(append([]string(nil), cfg.Subjects...), subject)
	if len(subjects) == len(cfg.Subjects) {
		return nil
	}

	cfg.Subjects = subjects

	if _, err := js.UpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update stream %s subjects: %w", name, err)
	}

	return nil
}

// Publish implements capture.EventPublisher. key is usually a device id.
func (p *EventPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	if p.js == nil {
		return errPublisherClosed
	}

	now := p.now()
	subject := p.subjectFor(eventType, key)

	event := models.CloudEvent{
		SpecVersion:     models.CloudEventSpecVersion,
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType,
		DataContentType: contentTypeJSON,
		Subject:         subject,
		Time:            &now,
		Data:            data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	ack, err := p.js.Publish(ctx, subject, payload, jetstream.WithMsgID(event.ID))
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", subject).
		Uint64("seq", ack.Sequence).
		Msg("published event")

	return nil
}

// Close drains the owned connection, if any.
func (p *EventPublisher) Close() error {
	if p.nc == nil {
		return nil
	}

	return p.nc.Drain()
}

func (p *EventPublisher) subjectFor(eventType, key string) string {
	name := strings.TrimPrefix(eventType, eventTypePrefix)

	return p.prefix + "." + name + "." + subjectToken(key)
}

// subjectToken turns key into a single NATS subject token.
func subjectToken(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "_"
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		default:
			return r
		}
	}, key)
}

func ensureSubjectList(subjects []string, subject string) []string {
	for _, existing := range subjects {
		if matchesSubject(existing, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject reports whether pattern covers subject, honoring the * and
// > wildcards.
func matchesSubject(pattern, subject string) bool {
	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, tok := range pTokens {
		if tok == ">" {
			return len(sTokens) > i
		}

		if i >= len(sTokens) {
			return false
		}

		if tok != "*" && tok != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}
