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

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/printradar/pkg/logger"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

var errServiceRequired = errors.New("lifecycle: service is required")

// Service is a long running component with explicit start and stop.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ServerOptions describes what RunServer manages.
type ServerOptions struct {
	ListenAddr      string
	ServiceName     string
	Service         Service
	Handler         http.Handler
	ShutdownTimeout time.Duration
	Logger          logger.Logger

	// Listener overrides ListenAddr, mainly for tests.
	Listener net.Listener
}

// RunServer starts the service and HTTP server, then blocks until ctx is
// cancelled, SIGINT/SIGTERM arrives or the HTTP server fails. Everything is
// stopped within ShutdownTimeout.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if opts == nil || opts.Service == nil {
		return errServiceRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.New(logger.WithComponent(opts.ServiceName))
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := opts.Service.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s: %w", opts.ServiceName, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server

	if opts.Handler != nil {
		srv = &http.Server{
			Addr:              opts.ListenAddr,
			Handler:           opts.Handler,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		g.Go(func() error {
			log.Info().Str("addr", opts.ListenAddr).Msg("HTTP server listening")

			var err error
			if opts.Listener != nil {
				err = srv.Serve(opts.Listener)
			} else {
				err = srv.ListenAndServe()
			}

			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}

			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Str("service", opts.ServiceName).Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error

		if srv != nil {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("http shutdown: %w", err))
			}
		}

		if err := opts.Service.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("service stop: %w", err))
		}

		return errors.Join(errs...)
	})

	return g.Wait()
}
