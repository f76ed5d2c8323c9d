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
	"errors"
	"fmt"
)

var (
	// ErrConnectorUnreachable marks network or authentication failures talking to a device.
	ErrConnectorUnreachable = errors.New("connector unreachable")
	// ErrUnsupportedProtocol is returned for protocol kinds with no registered factory.
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
	// ErrInvalidCredentials means the credential payload does not fit the auth mode.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnexpectedResponse means the device answered with something we cannot decode.
	ErrUnexpectedResponse = errors.New("unexpected device response")
	errInvalidEndpoint    = errors.New("invalid endpoint")
)

func unreachable(deviceID string, err error) error {
	return fmt.Errorf("%w: device %s: %w", ErrConnectorUnreachable, deviceID, err)
}
