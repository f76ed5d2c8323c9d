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

import "errors"

var (
	// Lookup errors.

	ErrNotFound            = errors.New("record not found")
	ErrIntegrationNotFound = errors.New("device integration not found")
	ErrCaptureNotFound     = errors.New("captured job event not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrQuotaNotFound       = errors.New("print quota not found")
	ErrCostNotFound        = errors.New("print cost not found")

	// Operation errors.

	ErrDatabaseError  = errors.New("database error")
	ErrFailedToScan   = errors.New("failed to scan")
	ErrFailedToQuery  = errors.New("failed to query")
	ErrFailedToInsert = errors.New("failed to insert")
	ErrFailedToUpdate = errors.New("failed to update")
	ErrFailedOpenDB   = errors.New("failed to open database")

	// Validation errors.

	ErrIntegrationNil      = errors.New("device integration is nil")
	ErrCaptureNil          = errors.New("captured job event is nil")
	ErrCaptureKeyMissing   = errors.New("device_id and native_job_id are required")
	ErrStatusSampleNil     = errors.New("device status sample is nil")
	ErrPrintJobNil         = errors.New("print job is nil")
	ErrQuotaWouldOverflow  = errors.New("quota increment exceeds the configured limit")
	ErrCaptureNotCaptured  = errors.New("captured job event is not in the captured state")
	ErrUnsupportedDBDriver = errors.New("unsupported database driver")

	// TLS helpers.

	ErrCNPGLackingTLSFiles = errors.New("cnpg tls requires cert_file, key_file, and ca_file")
	ErrCNPGAppendCACert    = errors.New("cnpg tls: unable to append CA certificate")
	ErrCNPGTLSDisabled     = errors.New("cnpg tls: sslmode=disable conflicts with tls settings")
)
