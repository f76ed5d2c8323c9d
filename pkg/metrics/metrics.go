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

// Package metrics exposes Prometheus collectors for polling, capture and
// webhook activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carverauto/printradar/pkg/capture"
	"github.com/carverauto/printradar/pkg/models"
	"github.com/carverauto/printradar/pkg/poller"
	"github.com/carverauto/printradar/pkg/webhook"
)

const namespace = "printradar"

var (
	_ capture.Recorder = (*Metrics)(nil)
	_ poller.Recorder  = (*Metrics)(nil)
	_ webhook.Recorder = (*Metrics)(nil)
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	pollCycles     *prometheus.CounterVec
	pollDuration   *prometheus.HistogramVec
	armedDevices   prometheus.Gauge
	captures       *prometheus.CounterVec
	processing     *prometheus.CounterVec
	webhookResults *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them on reg. A nil reg
// gets a private registry.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		pollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Poll cycles by protocol and result.",
		}, []string{"protocol", "result"}),
		pollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of a poll cycle by protocol.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"protocol"}),
		armedDevices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "armed_devices",
			Help:      "Devices with a running poll loop.",
		}),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "jobs_total",
			Help:      "Capture attempts by source and result.",
		}, []string{"source", "result"}),
		processing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "processing_total",
			Help:      "Capture processing outcomes.",
		}, []string{"result"}),
		webhookResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "requests_total",
			Help:      "Webhook requests by event type and result.",
		}, []string{"type", "result"}),
	}

	for _, c := range []prometheus.Collector{
		m.pollCycles, m.pollDuration, m.armedDevices, m.captures, m.processing, m.webhookResults,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) PollRecorded(protocol models.ProtocolKind, result string, elapsed time.Duration) {
	m.pollCycles.WithLabelValues(string(protocol), result).Inc()
	m.pollDuration.WithLabelValues(string(protocol)).Observe(elapsed.Seconds())
}

func (m *Metrics) ArmedDevices(n int) {
	m.armedDevices.Set(float64(n))
}

func (m *Metrics) CaptureRecorded(source models.CaptureSource, result string) {
	m.captures.WithLabelValues(string(source), result).Inc()
}

func (m *Metrics) ProcessingRecorded(result string) {
	m.processing.WithLabelValues(result).Inc()
}

func (m *Metrics) WebhookRecorded(eventType, result string) {
	if eventType == "" {
		eventType = "unknown"
	}

	m.webhookResults.WithLabelValues(eventType, result).Inc()
}
