// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// SinkConfig configures a PrometheusSink.
type SinkConfig struct {
	// Namespace is the metrics namespace. Required.
	Namespace string

	// Subsystem is the metrics subsystem. Required.
	Subsystem string

	// Registry receives the collectors. Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// LatencyBuckets are histogram buckets for phase latencies in milliseconds.
	LatencyBuckets []float64
}

// DefaultSinkConfig returns namespace "dsoptimizer", subsystem "benchmark".
func DefaultSinkConfig() *SinkConfig {
	return &SinkConfig{
		Namespace:      "dsoptimizer",
		Subsystem:      "benchmark",
		LatencyBuckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
	}
}

// Validate checks required fields.
func (c *SinkConfig) Validate() error {
	if c.Namespace == "" {
		return errors.New("namespace is required")
	}
	if c.Subsystem == "" {
		return errors.New("subsystem is required")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Prometheus Sink
// -----------------------------------------------------------------------------

// PrometheusSink records benchmark results and scores as Prometheus metrics.
//
// Description:
//
//	Implements benchmark.ResultSink and recommend.ScoreSink. Collectors are
//	registered on creation and unregistered on Close when the registry is
//	a *prometheus.Registry.
//
// Thread Safety: Safe for concurrent use.
//
// Example:
//
//	sink, err := telemetry.NewPrometheusSink(telemetry.DefaultSinkConfig())
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//	h, _ := benchmark.NewHarness[int](benchmark.WithSink(sink))
type PrometheusSink struct {
	registry prometheus.Registerer

	phaseLatency *prometheus.HistogramVec
	operations   *prometheus.CounterVec
	memory       *prometheus.GaugeVec
	score        *prometheus.GaugeVec
	subScore     *prometheus.GaugeVec
	failures     *prometheus.CounterVec

	collectors []prometheus.Collector

	mu     sync.RWMutex
	closed bool
}

// NewPrometheusSink creates and registers the sink's collectors.
//
// Outputs:
//
//	*PrometheusSink - Never nil on success.
//	error - Non-nil if config is invalid or registration fails.
func NewPrometheusSink(config *SinkConfig) (*PrometheusSink, error) {
	if config == nil {
		return nil, errors.New("sink config must not be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sink config: %w", err)
	}
	cfg := *config
	if cfg.LatencyBuckets == nil {
		cfg.LatencyBuckets = DefaultSinkConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	s := &PrometheusSink{registry: registry}

	s.phaseLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "phase_duration_ms",
		Help:      "Measured time of each benchmark phase in milliseconds",
		Buckets:   cfg.LatencyBuckets,
	}, []string{"structure", "phase"})

	s.operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "operations_total",
		Help:      "Operations executed against each structure",
	}, []string{"structure", "operation"})

	s.memory = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "memory_bytes",
		Help:      "Estimated memory of each structure after the last run",
	}, []string{"structure"})

	s.score = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "score",
		Help:      "Weighted recommendation score of each structure",
	}, []string{"structure"})

	s.subScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "sub_score",
		Help:      "Time, space and suitability sub-scores of each structure",
	}, []string{"structure", "kind"})

	s.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "failures_total",
		Help:      "Structures that failed to complete a benchmark",
	}, []string{"structure"})

	s.collectors = []prometheus.Collector{
		s.phaseLatency, s.operations, s.memory, s.score, s.subScore, s.failures,
	}
	for _, c := range s.collectors {
		if err := registry.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, fmt.Errorf("registering collector: %w", err)
			}
		}
	}
	return s, nil
}

func (s *PrometheusSink) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// RecordMetrics records one structure's benchmark result.
func (s *PrometheusSink) RecordMetrics(_ context.Context, m *benchmark.Metrics) {
	if m == nil || s.isClosed() {
		return
	}
	name := m.Structure
	for _, p := range []struct {
		phase string
		ms    float64
		count int
	}{
		{"insert", m.InsertTime, m.InsertCount},
		{"search", m.SearchTime, m.SearchCount},
		{"delete", m.DeleteTime, m.DeleteCount},
	} {
		if p.count == 0 {
			continue
		}
		s.phaseLatency.WithLabelValues(name, p.phase).Observe(p.ms)
		s.operations.WithLabelValues(name, p.phase).Add(float64(p.count))
	}
	s.memory.WithLabelValues(name).Set(float64(m.MemoryBytes))
}

// RecordFailure counts a structure that failed to complete.
func (s *PrometheusSink) RecordFailure(_ context.Context, structure string, _ error) {
	if s.isClosed() {
		return
	}
	s.failures.WithLabelValues(structure).Inc()
}

// RecordScore sets the ranking gauges for one structure.
func (s *PrometheusSink) RecordScore(_ context.Context, sc recommend.Score) {
	if s.isClosed() {
		return
	}
	s.score.WithLabelValues(sc.Structure).Set(sc.Total)
	s.subScore.WithLabelValues(sc.Structure, "time").Set(sc.Time)
	s.subScore.WithLabelValues(sc.Structure, "space").Set(sc.Space)
	s.subScore.WithLabelValues(sc.Structure, "suitability").Set(sc.Suitability)
}

// Close unregisters the collectors. Later records are dropped.
//
// Thread Safety: Safe for concurrent use. Idempotent.
func (s *PrometheusSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if reg, ok := s.registry.(*prometheus.Registry); ok {
		for _, c := range s.collectors {
			reg.Unregister(c)
		}
	}
	return nil
}

var (
	_ benchmark.ResultSink = (*PrometheusSink)(nil)
	_ recommend.ScoreSink  = (*PrometheusSink)(nil)
)
