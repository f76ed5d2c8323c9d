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

package connector

import (
	"sync"
	"time"
)

// monthlyCounter derives a month to date page count from a device's lifetime
// impression counter. The baseline is the first reading seen in the month, or
// any reading lower than the baseline after a counter reset.
type monthlyCounter struct {
	mu    sync.Mutex
	month string
	base  int
}

func (m *monthlyCounter) observe(at time.Time, lifetime int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := at.UTC().Format("2006-01")
	if m.month != key || lifetime < m.base {
		m.month = key
		m.base = lifetime
	}

	return lifetime - m.base
}
