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

package models

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var errTLSFilesRequired = errors.New("tls: cert_file and key_file are required")

// TLSConfig names the certificate material for a mutual TLS client.
type TLSConfig struct {
	CertFile   string `json:"cert_file"`
	KeyFile    string `json:"key_file"`
	CAFile     string `json:"ca_file,omitempty"`
	ServerName string `json:"server_name,omitempty"`
}

// ClientTLS loads the key pair and optional CA and returns a client tls.Config.
// Relative paths are resolved against certDir.
func (c *TLSConfig) ClientTLS(certDir string) (*tls.Config, error) {
	if c == nil {
		return nil, nil
	}

	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) || certDir == "" {
			return path
		}

		return filepath.Join(certDir, path)
	}

	certFile, keyFile, caFile := resolve(c.CertFile), resolve(c.KeyFile), resolve(c.CAFile)
	if certFile == "" || keyFile == "" {
		return nil, errTLSFilesRequired
	}

	clientCert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tls: failed to load client keypair: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{clientCert},
		MinVersion:   tls.VersionTLS12,
		ServerName:   c.ServerName,
	}

	if caFile == "" {
		return tlsConfig, nil
	}

	caBytes, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tls: failed to read CA file: %w", err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("tls: unable to append CA certificate from %s", caFile)
	}

	tlsConfig.RootCAs = caPool

	return tlsConfig, nil
}
