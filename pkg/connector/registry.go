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
	"fmt"
	"sort"
	"sync"

	"github.com/carverauto/printradar/pkg/models"
)

// Factory builds a connector for one integration.
type Factory func(integration *models.DeviceIntegration, opts Options) (Connector, error)

// Registry maps protocol kinds to connector factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[models.ProtocolKind]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[models.ProtocolKind]Factory)}
}

// DefaultRegistry returns a registry with the SNMP, IPP and HTTP connectors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(models.ProtocolSNMP, NewSNMPConnector)
	r.Register(models.ProtocolIPP, NewIPPConnector)
	r.Register(models.ProtocolHTTP, NewHTTPConnector)

	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind models.ProtocolKind, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[kind] = factory
}

// New constructs the connector for the integration's protocol.
func (r *Registry) New(integration *models.DeviceIntegration, opts Options) (Connector, error) {
	r.mu.RLock()
	factory, ok := r.factories[integration.Protocol]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, integration.Protocol)
	}

	return factory(integration, opts)
}

// Protocols lists the registered protocol kinds in sorted order.
func (r *Registry) Protocols() []models.ProtocolKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]models.ProtocolKind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}
