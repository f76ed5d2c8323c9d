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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// SignatureHeader carries the body signature.
	SignatureHeader = "X-Webhook-Signature"
	// DeviceIDHeader names the device when the path does not.
	DeviceIDHeader = "X-Device-ID"

	signaturePrefix = "sha256="
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrDeviceIDRequired = errors.New("webhook device id is required")
	errSecretRequired   = errors.New("webhook secret is required")
	errCapturerRequired = errors.New("job capturer is required")
	errStoreRequired    = errors.New("status store is required")
)

// ComputeSignature returns the header value for body: "sha256=" followed by
// the hex HMAC-SHA256 of body under secret.
func ComputeSignature(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)

	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks header against body in constant time.
func VerifySignature(secret, body []byte, header string) error {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(strings.ToLower(header), signaturePrefix) {
		return ErrInvalidSignature
	}

	got, err := hex.DecodeString(header[len(signaturePrefix):])
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)

	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}

	return nil
}
