// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package benchmark

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("dsoptimizer.benchmark")

var (
	runLatency     metric.Float64Histogram
	runTotal       metric.Int64Counter
	structureTotal metric.Int64Counter
	phaseLatency   metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runLatency, err = meter.Float64Histogram(
			"dsoptimizer_benchmark_run_duration_seconds",
			metric.WithDescription("Duration of a full benchmark suite"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runTotal, err = meter.Int64Counter(
			"dsoptimizer_benchmark_runs_total",
			metric.WithDescription("Benchmark suites executed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		structureTotal, err = meter.Int64Counter(
			"dsoptimizer_benchmark_structures_total",
			metric.WithDescription("Structures benchmarked, by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		phaseLatency, err = meter.Float64Histogram(
			"dsoptimizer_benchmark_phase_duration_ms",
			metric.WithDescription("Duration of a single benchmark phase"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordRun(ctx context.Context, dataType string, d time.Duration, completed, failed int) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("data_type", dataType))
	runLatency.Record(ctx, d.Seconds(), attrs)
	runTotal.Add(ctx, 1, attrs)
	structureTotal.Add(ctx, int64(completed), metric.WithAttributes(
		attribute.String("data_type", dataType), attribute.Bool("success", true)))
	structureTotal.Add(ctx, int64(failed), metric.WithAttributes(
		attribute.String("data_type", dataType), attribute.Bool("success", false)))
}

func recordPhase(ctx context.Context, structure, phase string, ms float64) {
	if err := initMetrics(); err != nil {
		return
	}
	phaseLatency.Record(ctx, ms, metric.WithAttributes(
		attribute.String("structure", structure),
		attribute.String("phase", phase),
	))
}
