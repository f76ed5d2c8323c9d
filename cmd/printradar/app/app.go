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

// Package app wires printradar's components into one runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carverauto/printradar/pkg/api"
	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/config"
	"github.com/carverauto/printradar/pkg/db"
	"github.com/carverauto/printradar/pkg/lifecycle"
	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/metrics"
	"github.com/carverauto/printradar/pkg/models"
	"github.com/carverauto/printradar/pkg/natsutil"
	"github.com/carverauto/printradar/pkg/poller"
	"github.com/carverauto/printradar/pkg/version"
	"github.com/carverauto/printradar/pkg/webhook"
)

const serviceName = "printradar"

var errFailedToLoadConfig = errors.New("failed to load config")

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath  string
	MigrateOnly bool
}

// Run boots printradar using the provided options and blocks until shutdown.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg models.ServiceConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, opts.ConfigPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = logger.DefaultConfig()
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, serviceName, logConfig)
	if err != nil {
		return err
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			mainLogger.Error().Err(err).Msg("failed to shut down logger")
		}
	}()

	if redacted, err := config.Redacted(&cfg); err == nil {
		mainLogger.Debug().RawJSON("config", redacted).Msg("loaded configuration")
	}

	store, err := db.New(ctx, &cfg.Database, mainLogger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if opts.MigrateOnly {
		mainLogger.Info().Msg("migrations applied, exiting")

		return store.Close()
	}

	svc, err := NewService(ctx, &cfg, store, mainLogger)
	if err != nil {
		_ = store.Close()

		return err
	}

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: serviceName,
		Service:     svc,
		Handler:     svc.Handler(),
		Logger:      mainLogger,
	})
}

// Service owns the scheduler, the event publisher and the store for the
// lifetime of the process.
type Service struct {
	store     db.Service
	engine    *capture.Engine
	poller    *poller.Poller
	publisher *natsutil.EventPublisher
	handler   http.Handler
	logger    logger.Logger
}

// NewService assembles the capture engine, scheduler, webhook ingress and
// control API on top of store. NATS is dialed here when configured.
func NewService(ctx context.Context, cfg *models.ServiceConfig, store db.Service, log logger.Logger) (*Service, error) {
	m, err := metrics.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	svc := &Service{store: store, logger: log}

	engineOpts := []capture.Option{
		capture.WithRecorder(m),
		capture.WithDefaultRates(cfg.Billing),
		capture.WithLogger(logger.New(log.WithComponent("capture"))),
	}

	if cfg.NATS != nil {
		pub, err := natsutil.Connect(ctx, cfg.NATS, logger.New(log.WithComponent("nats")))
		if err != nil {
			return nil, err
		}

		svc.publisher = pub
		engineOpts = append(engineOpts, capture.WithPublisher(pub))
	}

	svc.engine = capture.NewEngine(store, engineOpts...)

	pollerCfg := poller.ConfigFrom(cfg.Scheduler)
	pollerCfg.Recorder = m

	svc.poller, err = poller.New(pollerCfg, store, svc.engine, nil, logger.New(log.WithComponent("poller")))
	if err != nil {
		svc.closePublisher()

		return nil, err
	}

	processor, err := webhook.NewProcessor(cfg.Webhook.Secret, svc.engine, store, m, logger.New(log.WithComponent("webhook")))
	if err != nil {
		svc.closePublisher()

		return nil, err
	}

	serverOpts := []func(*api.APIServer){
		api.WithScheduler(svc.poller),
		api.WithCaptureProcessor(svc.engine),
		api.WithCaptureStore(store),
		api.WithWebhookHandler(webhook.NewHandler(processor, cfg.Webhook.MaxBodyBytes, nil)),
		api.WithAPIKey(cfg.APIKey),
		api.WithLogger(logger.New(log.WithComponent("api"))),
	}

	if cfg.APIKey == "" {
		log.Warn().Msg("api_key is empty, control routes are unauthenticated")
	}

	if cfg.Metrics.Enabled {
		serverOpts = append(serverOpts, api.WithMetricsHandler(cfg.Metrics.Path, m.Handler()))
	}

	svc.handler = api.NewAPIServer(serverOpts...)

	return svc, nil
}

// Handler is the HTTP surface served by the lifecycle runner.
func (s *Service) Handler() http.Handler { return s.handler }

// Engine exposes the capture engine.
func (s *Service) Engine() *capture.Engine { return s.engine }

// Poller exposes the scheduler.
func (s *Service) Poller() *poller.Poller { return s.poller }

func (s *Service) Start(ctx context.Context) error {
	s.logger.Info().Str("version", version.Get().String()).Msg("starting printradar")

	return s.poller.Start(ctx)
}

// Stop waits for in-flight poll cycles, then releases NATS and the store.
func (s *Service) Stop(ctx context.Context) error {
	var errs []error

	if err := s.poller.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("poller stop: %w", err))
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("nats close: %w", err))
		}
	}

	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Service) closePublisher() {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
}
