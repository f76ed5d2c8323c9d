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
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/printradar/pkg/models"
)

const integrationColumns = `id, device_id, protocol, endpoint, auth_mode, credentials,
	poll_interval_seconds, active, last_sync_at, created_at, updated_at`

const upsertIntegrationSQL = `
INSERT INTO device_integrations (
	id, device_id, protocol, endpoint, auth_mode, credentials,
	poll_interval_seconds, active, last_sync_at, created_at, updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)
ON CONFLICT (id) DO UPDATE SET
	device_id = EXCLUDED.device_id,
	protocol = EXCLUDED.protocol,
	endpoint = EXCLUDED.endpoint,
	auth_mode = EXCLUDED.auth_mode,
	credentials = EXCLUDED.credentials,
	poll_interval_seconds = EXCLUDED.poll_interval_seconds,
	active = EXCLUDED.active,
	updated_at = EXCLUDED.updated_at`

// UpsertIntegration creates or replaces an integration record. LastSyncAt and
// CreatedAt of an existing row are preserved.
func (db *DB) UpsertIntegration(ctx context.Context, integration *models.DeviceIntegration) error {
	if integration == nil {
		return ErrIntegrationNil
	}

	if err := integration.Validate(); err != nil {
		return err
	}

	creds, err := jsonbArg(integration.Credentials)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = now
	}

	integration.UpdatedAt = now

	if _, err := db.pgPool.Exec(ctx, upsertIntegrationSQL,
		integration.ID,
		integration.DeviceID,
		string(integration.Protocol),
		integration.Endpoint,
		string(integration.AuthMode),
		creds,
		integration.PollIntervalSeconds,
		integration.Active,
		integration.LastSyncAt,
		integration.CreatedAt,
		integration.UpdatedAt,
	); err != nil {
		return fmt.Errorf("%w: device integration %s: %w", ErrFailedToInsert, integration.ID, err)
	}

	return nil
}

// GetIntegration returns one integration or ErrIntegrationNotFound.
func (db *DB) GetIntegration(ctx context.Context, id string) (*models.DeviceIntegration, error) {
	row := db.pgPool.QueryRow(ctx,
		`SELECT `+integrationColumns+` FROM device_integrations WHERE id = $1`, id)

	return scanIntegration(row)
}

// GetIntegrationByDevice returns the most recently updated integration of a device.
func (db *DB) GetIntegrationByDevice(ctx context.Context, deviceID string) (*models.DeviceIntegration, error) {
	row := db.pgPool.QueryRow(ctx,
		`SELECT `+integrationColumns+` FROM device_integrations
		WHERE device_id = $1 ORDER BY updated_at DESC LIMIT 1`, deviceID)

	return scanIntegration(row)
}

// ListActiveIntegrations returns every integration with active = true.
func (db *DB) ListActiveIntegrations(ctx context.Context) ([]*models.DeviceIntegration, error) {
	rows, err := db.pgPool.Query(ctx,
		`SELECT `+integrationColumns+` FROM device_integrations WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: active integrations: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var out []*models.DeviceIntegration

	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, integration)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: active integrations: %w", ErrFailedToQuery, err)
	}

	return out, nil
}

// SetIntegrationActive flips the active flag. Integrations are never deleted.
func (db *DB) SetIntegrationActive(ctx context.Context, id string, active bool) error {
	tag, err := db.pgPool.Exec(ctx,
		`UPDATE device_integrations SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("%w: device integration %s: %w", ErrFailedToUpdate, id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrIntegrationNotFound, id)
	}

	return nil
}

// UpdateLastSync records the completion time of a fully successful poll cycle.
// updated_at is left alone so the scheduler does not see a configuration change.
func (db *DB) UpdateLastSync(ctx context.Context, id string, at time.Time) error {
	tag, err := db.pgPool.Exec(ctx,
		`UPDATE device_integrations SET last_sync_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("%w: last sync of %s: %w", ErrFailedToUpdate, id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrIntegrationNotFound, id)
	}

	return nil
}

func scanIntegration(row pgx.Row) (*models.DeviceIntegration, error) {
	var (
		integration models.DeviceIntegration
		protocol    string
		authMode    string
		creds       []byte
	)

	err := row.Scan(
		&integration.ID,
		&integration.DeviceID,
		&protocol,
		&integration.Endpoint,
		&authMode,
		&creds,
		&integration.PollIntervalSeconds,
		&integration.Active,
		&integration.LastSyncAt,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrIntegrationNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: device integration: %w", ErrFailedToScan, err)
	}

	integration.Protocol = models.ProtocolKind(protocol)
	integration.AuthMode = models.AuthMode(authMode)

	if len(creds) > 0 {
		integration.Credentials = creds
	}

	return &integration, nil
}
