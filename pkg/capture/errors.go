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

package capture

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidJob              = errors.New("invalid job")
	ErrDeviceIDRequired        = errors.New("device id is required")
	ErrCaptureNotFound         = errors.New("capture not found")
	ErrCaptureAlreadyProcessed = errors.New("capture already processed")
	ErrUserNotFound            = errors.New("user not found")
	ErrQuotaNotFound           = errors.New("print quota not found")
	ErrQuotaExceeded           = errors.New("print quota exceeded")
)

// QuotaExceededError carries the numbers behind a quota rejection. It matches
// ErrQuotaExceeded with errors.Is.
type QuotaExceededError struct {
	UserID    string
	Color     bool
	Limit     int
	Usage     int
	Requested int
}

func (e *QuotaExceededError) Error() string {
	kind := "monthly"
	if e.Color {
		kind = "color"
	}

	return fmt.Sprintf("%s: %s limit %d, usage %d, requested %d",
		ErrQuotaExceeded, kind, e.Limit, e.Usage, e.Requested)
}

// Is lets errors.Is(err, ErrQuotaExceeded) match.
func (*QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
