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

package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, maxBody int64) *mux.Router {
	t.Helper()

	p, _, _ := newTestProcessor(t)
	router := mux.NewRouter()
	NewHandler(p, maxBody, nil).Register(router)

	return router
}

func post(router http.Handler, path string, body []byte, headers map[string]string) (*httptest.ResponseRecorder, Ack) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var ack Ack
	_ = json.Unmarshal(rec.Body.Bytes(), &ack)

	return rec, ack
}

func TestHandler_Responses(t *testing.T) {
	router := newTestRouter(t, 0)
	body, sig := signed(`{"type":"job_completed","data":{"job_id":"J-1","pages":2}}`)

	rec, ack := post(router, "/api/webhooks/printers/dev-1", body, map[string]string{SignatureHeader: sig})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", ack.Status)
	assert.NotEmpty(t, ack.CaptureID)
	assert.False(t, ack.Duplicate)

	rec, ack = post(router, "/api/webhooks/printers", body, map[string]string{
		SignatureHeader: sig,
		DeviceIDHeader:  "dev-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ack.Duplicate)

	rec, _ = post(router, "/api/webhooks/printers/dev-1", body, map[string]string{SignatureHeader: "sha256=00"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bad, badSig := signed(`{"type":"job_completed","data":{}}`)
	rec, _ = post(router, "/api/webhooks/printers/dev-1", bad, map[string]string{SignatureHeader: badSig})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = post(router, "/api/webhooks/printers", body, map[string]string{SignatureHeader: sig})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	unknown, unknownSig := signed(`{"type":"heartbeat"}`)
	rec, ack = post(router, "/api/webhooks/printers/dev-1", unknown, map[string]string{SignatureHeader: unknownSig})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ignored", ack.Status)
}

func TestHandler_BodyLimit(t *testing.T) {
	router := newTestRouter(t, 64)

	body, sig := signed(`{"type":"job_completed","data":{"job_id":"` + strings.Repeat("x", 128) + `"}}`)

	rec, ack := post(router, "/api/webhooks/printers/dev-1", body, map[string]string{SignatureHeader: sig})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body too large", ack.Error)
}

func TestHandler_OnlyPost(t *testing.T) {
	router := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/printers/dev-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
