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

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/printradar/pkg/models"
)

const captureColumns = `id, device_id, native_job_id, file_name, pages, copies, color,
	paper_size, paper_type, quality, metadata, source, status, user_id, print_job_id,
	processing_error, completed_at, captured_at, processed_at`

// The unique constraint on (device_id, native_job_id) is the only
// deduplication key; concurrent inserts of the same key resolve here.
const insertCaptureSQL = `
INSERT INTO captured_job_events (
	id, device_id, native_job_id, file_name, pages, copies, color,
	paper_size, paper_type, quality, metadata, source, status,
	completed_at, captured_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
)
ON CONFLICT (device_id, native_job_id) DO NOTHING`

// InsertCaptureIfAbsent implements Service.
func (db *DB) InsertCaptureIfAbsent(ctx context.Context, event *models.CapturedJobEvent) (bool, error) {
	if event == nil {
		return false, ErrCaptureNil
	}

	if event.DeviceID == "" || event.NativeJobID == "" {
		return false, ErrCaptureKeyMissing
	}

	metadata, err := jsonbArg(event.Metadata)
	if err != nil {
		return false, err
	}

	tag, err := db.pgPool.Exec(ctx, insertCaptureSQL,
		event.ID,
		event.DeviceID,
		event.NativeJobID,
		event.FileName,
		event.Pages,
		event.Copies,
		event.Color,
		event.PaperSize,
		event.PaperType,
		event.Quality,
		metadata,
		string(event.Source),
		string(event.Status),
		event.CompletedAt,
		event.CapturedAt,
	)
	if err != nil {
		return false, fmt.Errorf("%w: captured job %s/%s: %w", ErrFailedToInsert, event.DeviceID, event.NativeJobID, err)
	}

	if tag.RowsAffected() == 1 {
		return true, nil
	}

	existing, err := scanCapture(db.pgPool.QueryRow(ctx,
		`SELECT `+captureColumns+` FROM captured_job_events WHERE device_id = $1 AND native_job_id = $2`,
		event.DeviceID, event.NativeJobID))
	if err != nil {
		return false, err
	}

	*event = *existing

	return false, nil
}

// GetCapture returns one captured job event or ErrCaptureNotFound.
func (db *DB) GetCapture(ctx context.Context, id string) (*models.CapturedJobEvent, error) {
	return scanCapture(db.pgPool.QueryRow(ctx,
		`SELECT `+captureColumns+` FROM captured_job_events WHERE id = $1`, id))
}

// ListCapturesByStatus returns the oldest captures in the given status.
func (db *DB) ListCapturesByStatus(
	ctx context.Context, status models.CaptureStatus, limit int) ([]*models.CapturedJobEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.pgPool.Query(ctx,
		`SELECT `+captureColumns+` FROM captured_job_events
		WHERE status = $1 ORDER BY captured_at, id LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: captures by status: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var out []*models.CapturedJobEvent

	for rows.Next() {
		event, err := scanCapture(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: captures by status: %w", ErrFailedToQuery, err)
	}

	return out, nil
}

func scanCapture(row pgx.Row) (*models.CapturedJobEvent, error) {
	var (
		event    models.CapturedJobEvent
		metadata []byte
		source   string
		status   string
	)

	err := row.Scan(
		&event.ID,
		&event.DeviceID,
		&event.NativeJobID,
		&event.FileName,
		&event.Pages,
		&event.Copies,
		&event.Color,
		&event.PaperSize,
		&event.PaperType,
		&event.Quality,
		&metadata,
		&source,
		&status,
		&event.UserID,
		&event.PrintJobID,
		&event.ProcessingError,
		&event.CompletedAt,
		&event.CapturedAt,
		&event.ProcessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCaptureNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: captured job event: %w", ErrFailedToScan, err)
	}

	if err := decodeJSONB(metadata, &event.Metadata); err != nil {
		return nil, err
	}

	event.Source = models.CaptureSource(source)
	event.Status = models.CaptureStatus(status)

	return &event, nil
}
