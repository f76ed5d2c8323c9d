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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/printradar/pkg/models"
)

const defaultListLimit = 100

const insertStatusSampleSQL = `
INSERT INTO device_status_samples (
	id, device_id, state, consumables, errors, queue_depth,
	monthly_page_count, source, sampled_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`

// Printer rows belong to the CRUD layer; an unknown device gets a stub row so
// status is not lost when the integration was registered first.
const upsertPrinterStatusSQL = `
INSERT INTO printers (id, status, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	updated_at = EXCLUDED.updated_at`

// AppendStatusSample stores a new sample; samples are never updated.
func (db *DB) AppendStatusSample(ctx context.Context, sample *models.DeviceStatusSample) error {
	if sample == nil {
		return ErrStatusSampleNil
	}

	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}

	consumables, err := jsonbArg(sample.Consumables)
	if err != nil {
		return err
	}

	errs, err := jsonbArg(sample.Errors)
	if err != nil {
		return err
	}

	if _, err := db.pgPool.Exec(ctx, insertStatusSampleSQL,
		sample.ID,
		sample.DeviceID,
		string(sample.State),
		consumables,
		errs,
		sample.QueueDepth,
		sample.MonthlyPageCount,
		string(sample.Source),
		sample.SampledAt.UTC(),
	); err != nil {
		return fmt.Errorf("%w: status sample for %s: %w", ErrFailedToInsert, sample.DeviceID, err)
	}

	return nil
}

// LatestStatusSample returns the newest sample of a device or ErrNotFound.
func (db *DB) LatestStatusSample(ctx context.Context, deviceID string) (*models.DeviceStatusSample, error) {
	var (
		sample      models.DeviceStatusSample
		state       string
		source      string
		consumables []byte
		errs        []byte
	)

	err := db.pgPool.QueryRow(ctx, `
		SELECT id, device_id, state, consumables, errors, queue_depth,
			monthly_page_count, source, sampled_at
		FROM device_status_samples
		WHERE device_id = $1
		ORDER BY sampled_at DESC
		LIMIT 1`, deviceID).Scan(
		&sample.ID,
		&sample.DeviceID,
		&state,
		&consumables,
		&errs,
		&sample.QueueDepth,
		&sample.MonthlyPageCount,
		&source,
		&sample.SampledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: status sample for %s", ErrNotFound, deviceID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: status sample: %w", ErrFailedToScan, err)
	}

	if err := decodeJSONB(consumables, &sample.Consumables); err != nil {
		return nil, err
	}

	if err := decodeJSONB(errs, &sample.Errors); err != nil {
		return nil, err
	}

	sample.State = models.DeviceState(state)
	sample.Source = models.CaptureSource(source)

	return &sample, nil
}

// UpdatePrinterStatus sets the printer's administrative status.
func (db *DB) UpdatePrinterStatus(ctx context.Context, deviceID string, status models.PrinterStatus) error {
	if _, err := db.pgPool.Exec(ctx, upsertPrinterStatusSQL, deviceID, string(status)); err != nil {
		return fmt.Errorf("%w: printer status for %s: %w", ErrFailedToUpdate, deviceID, err)
	}

	return nil
}
