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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatementsKeepsFunctionBodies(t *testing.T) {
	content := `
-- touch updated_at on every change
CREATE OR REPLACE FUNCTION touch_updated_at() RETURNS trigger AS $$
BEGIN
    NEW.updated_at = now();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

CREATE INDEX IF NOT EXISTS idx_captures_status ON captured_job_events (status);
`

	statements := splitSQLStatements(content)
	require.Len(t, statements, 2)
	assert.True(t, strings.HasPrefix(statements[0], "CREATE OR REPLACE FUNCTION"))
	assert.Contains(t, statements[0], "RETURN NEW;")
	assert.True(t, strings.HasPrefix(statements[1], "CREATE INDEX"))
}

func TestSplitSQLStatementsIgnoresSemicolonsInQuotes(t *testing.T) {
	content := `INSERT INTO print_costs (department_id, bw_rate, color_rate) VALUES ('ops;floor-2', 0.02, 0.15);
COMMENT ON TABLE print_jobs IS 'billed; immutable';`

	statements := splitSQLStatements(content)
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "'ops;floor-2'")
	assert.Contains(t, statements[1], "'billed; immutable'")
}

func TestSplitSQLStatementsEmpty(t *testing.T) {
	assert.Empty(t, splitSQLStatements("-- nothing here\n\n"))
}
