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
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/printradar/pkg/logger"
	"github.com/carverauto/printradar/pkg/models"
)

// DB is the PostgreSQL implementation of Service.
type DB struct {
	pgPool *pgxpool.Pool
	logger logger.Logger
}

var _ Service = (*DB)(nil)

// New opens the store selected by cfg.Driver. The postgres driver dials the
// pool and applies embedded migrations before returning.
func New(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (Service, error) {
	switch cfg.Driver {
	case models.DatabaseDriverMemory:
		log.Warn().Msg("using the in-memory store; data is lost on restart")

		return NewMemoryStore(), nil
	case models.DatabaseDriverPostgres, "":
		pool, err := NewCNPGPool(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
		}

		if err := RunCNPGMigrations(ctx, pool, log); err != nil {
			pool.Close()

			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		return NewWithPool(pool, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDBDriver, cfg.Driver)
	}
}

// NewWithPool wraps an existing pool. Migrations are the caller's concern.
func NewWithPool(pool *pgxpool.Pool, log logger.Logger) *DB {
	return &DB{pgPool: pool, logger: log}
}

// Pool exposes the underlying pool for health checks.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pgPool
}

// Close releases every pooled connection.
func (db *DB) Close() error {
	if db.pgPool != nil {
		db.pgPool.Close()
	}

	return nil
}
