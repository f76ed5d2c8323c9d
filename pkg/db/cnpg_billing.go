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

// WithBillingTx implements Service on a single pgx transaction.
func (db *DB) WithBillingTx(ctx context.Context, fn func(ctx context.Context, tx BillingTx) error) (err error) {
	tx, err := db.pgPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin billing transaction: %w", ErrDatabaseError, err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.logger.Warn().Err(rbErr).Msg("billing transaction rollback failed")
		}
	}()

	if err = fn(ctx, &cnpgBillingTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit billing transaction: %w", ErrDatabaseError, err)
	}

	return nil
}

type cnpgBillingTx struct {
	tx pgx.Tx
}

func (b *cnpgBillingTx) GetCaptureForUpdate(ctx context.Context, captureID string) (*models.CapturedJobEvent, error) {
	return scanCapture(b.tx.QueryRow(ctx,
		`SELECT `+captureColumns+` FROM captured_job_events WHERE id = $1 FOR UPDATE`, captureID))
}

func (b *cnpgBillingTx) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	err := b.tx.QueryRow(ctx,
		`SELECT id, department_id, active FROM users WHERE id = $1`, userID).
		Scan(&user.ID, &user.DepartmentID, &user.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: user: %w", ErrFailedToScan, err)
	}

	return &user, nil
}

func (b *cnpgBillingTx) GetQuotaForUpdate(ctx context.Context, userID string) (*models.PrintQuota, error) {
	var quota models.PrintQuota

	err := b.tx.QueryRow(ctx, `
		SELECT user_id, monthly_limit, current_usage, color_limit, color_usage
		FROM print_quotas WHERE user_id = $1 FOR UPDATE`, userID).
		Scan(&quota.UserID, &quota.MonthlyLimit, &quota.CurrentUsage, &quota.ColorLimit, &quota.ColorUsage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuotaNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: print quota: %w", ErrFailedToScan, err)
	}

	return &quota, nil
}

func (b *cnpgBillingTx) GetCostByDepartment(ctx context.Context, departmentID string) (*models.PrintCost, error) {
	var cost models.PrintCost

	err := b.tx.QueryRow(ctx,
		`SELECT department_id, bw_rate, color_rate FROM print_costs WHERE department_id = $1`, departmentID).
		Scan(&cost.DepartmentID, &cost.BWRate, &cost.ColorRate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCostNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: print cost: %w", ErrFailedToScan, err)
	}

	return &cost, nil
}

func (b *cnpgBillingTx) CreatePrintJob(ctx context.Context, job *models.PrintJob) error {
	if job == nil {
		return ErrPrintJobNil
	}

	if _, err := b.tx.Exec(ctx, `
		INSERT INTO print_jobs (
			id, user_id, printer_id, capture_id, file_name, pages, copies,
			color, paper_size, cost, status, submitted_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		job.ID,
		job.UserID,
		job.PrinterID,
		job.CaptureID,
		job.FileName,
		job.Pages,
		job.Copies,
		job.Color,
		job.PaperSize,
		job.Cost,
		job.Status,
		job.SubmittedAt,
		job.CompletedAt,
	); err != nil {
		return fmt.Errorf("%w: print job: %w", ErrFailedToInsert, err)
	}

	return nil
}

// IncrementQuota adds units to one counter. The WHERE clause re-checks the
// limit so a bypassed application check still cannot overdraw the quota.
func (b *cnpgBillingTx) IncrementQuota(ctx context.Context, userID string, color bool, units int) error {
	query := `UPDATE print_quotas SET current_usage = current_usage + $2
		WHERE user_id = $1 AND current_usage + $2 <= monthly_limit`
	if color {
		query = `UPDATE print_quotas SET color_usage = color_usage + $2
		WHERE user_id = $1 AND color_usage + $2 <= color_limit`
	}

	tag, err := b.tx.Exec(ctx, query, userID, units)
	if err != nil {
		return fmt.Errorf("%w: print quota: %w", ErrFailedToUpdate, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrQuotaWouldOverflow
	}

	return nil
}

func (b *cnpgBillingTx) MarkCaptureProcessed(
	ctx context.Context, captureID string, userID, printJobID *string, at time.Time) error {
	tag, err := b.tx.Exec(ctx, `
		UPDATE captured_job_events
		SET status = $2, user_id = $3, print_job_id = $4, processed_at = $5, processing_error = ''
		WHERE id = $1 AND status <> $2`,
		captureID, string(models.CaptureStatusProcessed), userID, printJobID, at.UTC())
	if err != nil {
		return fmt.Errorf("%w: capture %s: %w", ErrFailedToUpdate, captureID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrCaptureNotCaptured, captureID)
	}

	return nil
}

func (b *cnpgBillingTx) MarkCaptureFailed(ctx context.Context, captureID, reason string) error {
	tag, err := b.tx.Exec(ctx, `
		UPDATE captured_job_events SET status = $2, processing_error = $3
		WHERE id = $1 AND status <> $4`,
		captureID, string(models.CaptureStatusFailed), reason, string(models.CaptureStatusProcessed))
	if err != nil {
		return fmt.Errorf("%w: capture %s: %w", ErrFailedToUpdate, captureID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrCaptureNotCaptured, captureID)
	}

	return nil
}
