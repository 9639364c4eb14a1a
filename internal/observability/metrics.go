// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the Prometheus metrics recorded by the plugin host.
//
// All recording methods are safe to call on a nil *Metrics, so components can
// run without metrics configured.
type Metrics struct {
	PluginLoads     *prometheus.CounterVec
	RealizeFailures *prometheus.CounterVec
	CleanupFailures *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	MorphFrames     *prometheus.CounterVec
	InstancesActive prometheus.Gauge
}

// NewMetrics creates and registers the host metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PluginLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvhost_plugin_loads_total",
				Help: "Total number of plugin instances loaded by type and plugin",
			},
			[]string{"type", "plugin"},
		),
		RealizeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvhost_plugin_realize_failures_total",
				Help: "Total number of failed plugin initialisations by plugin",
			},
			[]string{"plugin"},
		),
		CleanupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvhost_plugin_cleanup_failures_total",
				Help: "Total number of failed plugin cleanups by plugin",
			},
			[]string{"plugin"},
		),
		EventsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvhost_plugin_events_dropped_total",
				Help: "Total number of events discarded from full plugin queues by plugin",
			},
			[]string{"plugin"},
		),
		MorphFrames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvhost_morph_frames_total",
				Help: "Total number of frames produced by morph plugins by plugin",
			},
			[]string{"plugin"},
		),
		InstancesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lvhost_instances_active",
				Help: "Number of plugin instances currently loaded",
			},
		),
	}

	reg.MustRegister(m.PluginLoads)
	reg.MustRegister(m.RealizeFailures)
	reg.MustRegister(m.CleanupFailures)
	reg.MustRegister(m.EventsDropped)
	reg.MustRegister(m.MorphFrames)
	reg.MustRegister(m.InstancesActive)

	return m
}

// InstanceLoaded records a new plugin instance.
func (m *Metrics) InstanceLoaded(pluginType, plugin string) {
	if m == nil {
		return
	}
	m.PluginLoads.WithLabelValues(pluginType, plugin).Inc()
	m.InstancesActive.Inc()
}

// InstanceUnloaded records a released plugin instance.
func (m *Metrics) InstanceUnloaded() {
	if m == nil {
		return
	}
	m.InstancesActive.Dec()
}

// RealizeFailed records a failed initialisation.
func (m *Metrics) RealizeFailed(plugin string) {
	if m == nil {
		return
	}
	m.RealizeFailures.WithLabelValues(plugin).Inc()
}

// CleanupFailed records a failed cleanup.
func (m *Metrics) CleanupFailed(plugin string) {
	if m == nil {
		return
	}
	m.CleanupFailures.WithLabelValues(plugin).Inc()
}

// EventDropped records an event discarded from a full queue.
func (m *Metrics) EventDropped(plugin string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(plugin).Inc()
}

// MorphFrame records one frame produced by a morph.
func (m *Metrics) MorphFrame(plugin string) {
	if m == nil {
		return
	}
	m.MorphFrames.WithLabelValues(plugin).Inc()
}
