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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")
	cfg := DefaultConfig()

	assert.Equal(t, "dsoptimizer", cfg.ServiceName)
	assert.Equal(t, ExporterNone, cfg.TraceExporter)
	assert.Equal(t, ExporterPrometheus, cfg.MetricExporter)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "stdout")
	t.Setenv("DSOPTIMIZER_ENV", "ci")
	cfg := DefaultConfig()
	assert.Equal(t, ExporterStdout, cfg.TraceExporter)
	assert.Equal(t, "ci", cfg.Environment)
}

func TestInit(t *testing.T) {
	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		_, err := Init(nil, DefaultConfig())
		assert.Equal(t, ErrNilContext, err)
	})

	t.Run("no exporters", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TraceExporter = ExporterNone
		cfg.MetricExporter = ExporterNone
		shutdown, err := Init(context.Background(), cfg)
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("stdout exporters", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TraceExporter = ExporterStdout
		cfg.MetricExporter = ExporterStdout
		shutdown, err := Init(context.Background(), cfg)
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("unknown trace exporter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TraceExporter = "zipkin"
		_, err := Init(context.Background(), cfg)
		assert.True(t, errors.Is(err, ErrUnknownExporter))
	})

	t.Run("unknown metric exporter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TraceExporter = ExporterNone
		cfg.MetricExporter = "statsd"
		_, err := Init(context.Background(), cfg)
		assert.True(t, errors.Is(err, ErrUnknownExporter))
	})
}

func newTestSink(t *testing.T) (*PrometheusSink, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	cfg := DefaultSinkConfig()
	cfg.Registry = reg
	sink, err := NewPrometheusSink(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink, reg
}

func TestNewPrometheusSink_Config(t *testing.T) {
	_, err := NewPrometheusSink(nil)
	assert.Error(t, err)

	_, err = NewPrometheusSink(&SinkConfig{Subsystem: "x"})
	assert.Error(t, err)

	reg := prometheus.NewRegistry()
	_, err = NewPrometheusSink(&SinkConfig{Namespace: "a", Subsystem: "b", Registry: reg})
	require.NoError(t, err)
	// A second sink on the same registry reuses the existing collectors.
	_, err = NewPrometheusSink(&SinkConfig{Namespace: "a", Subsystem: "b", Registry: reg})
	assert.NoError(t, err)
}

func TestPrometheusSink_RecordMetrics(t *testing.T) {
	sink, _ := newTestSink(t)
	ctx := context.Background()

	sink.RecordMetrics(ctx, &benchmark.Metrics{
		Structure: "BST", InsertCount: 8, InsertTime: 1.5, SearchCount: 5, SearchTime: 0.5, MemoryBytes: 320,
	})
	sink.RecordMetrics(ctx, nil)

	assert.Equal(t, 8.0, testutil.ToFloat64(sink.operations.WithLabelValues("BST", "insert")))
	assert.Equal(t, 5.0, testutil.ToFloat64(sink.operations.WithLabelValues("BST", "search")))
	assert.Equal(t, 320.0, testutil.ToFloat64(sink.memory.WithLabelValues("BST")))
	// Delete had no operations and is not observed.
	assert.Equal(t, 2, testutil.CollectAndCount(sink.phaseLatency))
}

func TestPrometheusSink_FailuresAndScores(t *testing.T) {
	sink, _ := newTestSink(t)
	ctx := context.Background()

	sink.RecordFailure(ctx, "Trie", benchmark.ErrBenchmarkFailed)
	sink.RecordFailure(ctx, "Trie", benchmark.ErrBenchmarkFailed)
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.failures.WithLabelValues("Trie")))

	sink.RecordScore(ctx, recommend.Score{Structure: "Heap", Total: 71, Time: 80, Space: 60, Suitability: 70})
	assert.Equal(t, 71.0, testutil.ToFloat64(sink.score.WithLabelValues("Heap")))
	assert.Equal(t, 60.0, testutil.ToFloat64(sink.subScore.WithLabelValues("Heap", "space")))
}

func TestPrometheusSink_Close(t *testing.T) {
	sink, reg := newTestSink(t)
	sink.RecordScore(context.Background(), recommend.Score{Structure: "BST", Total: 1})

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)

	sink.RecordFailure(context.Background(), "BST", nil)
	assert.Zero(t, testutil.ToFloat64(sink.failures.WithLabelValues("BST")))
}
