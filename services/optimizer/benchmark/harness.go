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
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "dsoptimizer.benchmark"

// Progress checkpoints reported for every structure.
const (
	progressStart  = 0
	progressLoad   = 5
	progressSearch = 30
	progressInsert = 60
	progressDelete = 80
	progressDone   = 100
)

// Harness runs the six-phase workload against each structure.
//
// Description:
//
//	A Harness owns one pseudo-random generator. It is synchronous and holds
//	no locks; concurrent runs must each use their own Harness.
//
// Thread Safety:
//
//	Not safe for concurrent use.
type Harness[T Element] struct {
	cfg *Config
	rng *rand.Rand
	gen ValueGenerator[T]
}

// NewHarness creates a harness for element type T.
//
// Inputs:
//
//	opts - Optional configuration. See RunOption.
//
// Outputs:
//
//	*Harness[T] - Ready to run.
//	error - Wraps ErrInvalidConfig if options are invalid.
//
// Example:
//
//	h, err := benchmark.NewHarness[int](benchmark.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	results, err := h.RunAll(ctx, data, mix)
func NewHarness[T Element](opts ...RunOption) (*Harness[T], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	return &Harness[T]{
		cfg: cfg,
		rng: rng,
		gen: NewValueGenerator[T](),
	}, nil
}

// RunAll benchmarks every structure for T against data.
//
// Description:
//
//	Structures run in a fixed order, each on fresh instances. A structure
//	that fails is logged, reported to the sink and omitted from the map;
//	the remaining structures still run. The returned error is non-nil only
//	when the run cannot start.
//
// Inputs:
//
//	ctx - Checked once before the run starts. Phases are not interruptible.
//	data - The initial dataset. Must not be empty.
//	mix - The operation mix. Must be valid.
//
// Outputs:
//
//	map[string]*Metrics - Results keyed by structure name.
//	error - Wraps ErrInvalidConfig, or ctx.Err().
func (h *Harness[T]) RunAll(ctx context.Context, data []T, mix OperationMix) (map[string]*Metrics, error) {
	if err := h.precheck(ctx, data, mix); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "benchmark.Harness.RunAll",
		trace.WithAttributes(
			attribute.Int("benchmark.data_size", len(data)),
			attribute.String("benchmark.data_type", elementType[T]()),
			attribute.Int("benchmark.total_operations", mix.TotalOperations),
		),
	)
	defer span.End()

	start := time.Now()
	results := make(map[string]*Metrics)
	structures := NewStructures[T](h.cfg)
	failed := 0

	for _, s := range structures {
		m, err := h.run(ctx, s, data, mix)
		if err != nil {
			failed++
			h.cfg.Logger.Warn("benchmark failed",
				slog.String("component", s.Name()),
				slog.String("error", err.Error()))
			if h.cfg.Sink != nil {
				h.cfg.Sink.RecordFailure(ctx, s.Name(), err)
			}
			continue
		}
		results[s.Name()] = m
		if h.cfg.Sink != nil {
			h.cfg.Sink.RecordMetrics(ctx, m)
		}
	}

	recordRun(ctx, elementType[T](), time.Since(start), len(results), failed)
	span.SetAttributes(
		attribute.Int("benchmark.result.structures", len(results)),
		attribute.Int("benchmark.result.failed", failed),
	)
	span.SetStatus(codes.Ok, "benchmark suite completed")
	return results, nil
}

// Benchmark runs the six phases against a single caller-supplied structure.
//
// Unlike RunAll, a failure is returned rather than logged.
func (h *Harness[T]) Benchmark(ctx context.Context, s Structure[T], data []T, mix OperationMix) (*Metrics, error) {
	if err := h.precheck(ctx, data, mix); err != nil {
		return nil, err
	}
	return h.run(ctx, s, data, mix)
}

func (h *Harness[T]) precheck(ctx context.Context, data []T, mix OperationMix) error {
	if ctx == nil {
		return errors.New("context must not be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := mix.Validate(); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: dataset is empty", ErrInvalidConfig)
	}
	return nil
}

// run executes the phases for one structure, converting panics into
// ErrBenchmarkFailed.
func (h *Harness[T]) run(ctx context.Context, s Structure[T], data []T, mix OperationMix) (m *Metrics, err error) {
	name := s.Name()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "benchmark.Harness.Structure",
		trace.WithAttributes(attribute.String("benchmark.structure", name)),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("%s: panic: %v: %w", name, r, ErrBenchmarkFailed)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "structure failed")
		}
	}()

	m, err = h.phases(ctx, s, data, mix)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("benchmark.total_time_ms", m.TotalTime),
		attribute.Int64("benchmark.memory_bytes", m.MemoryBytes),
	)
	return m, nil
}

func (h *Harness[T]) phases(ctx context.Context, s Structure[T], data []T, mix OperationMix) (*Metrics, error) {
	name := s.Name()
	m := &Metrics{Structure: name, DataSize: len(data)}
	logger := h.cfg.Logger.With(slog.String("component", name))

	h.progress(progressStart, name, "Starting test")

	// Phase 1: initial load.
	h.progress(progressLoad, name, "Inserting initial data")
	elapsed, err := measure(func() error {
		if l, ok := s.(loader[T]); ok {
			return l.Load(data)
		}
		for _, v := range data {
			if err := s.Insert(v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: initial insert: %w: %w", name, ErrBenchmarkFailed, err)
	}
	m.InsertTime = elapsed
	m.InsertCount = len(data)
	recordPhase(ctx, name, "load", elapsed)
	logger.Debug("phase complete", slog.String("phase", "load"), slog.Float64("elapsed_ms", elapsed))

	// Phase 2: searches.
	if n := mix.SearchCount(); n > 0 {
		h.progress(progressSearch, name, "Performing searches")
		keys := drawKeys(h.rng, data, n)
		elapsed, _ = measure(func() error {
			for _, k := range keys {
				s.Search(k)
			}
			return nil
		})
		m.SearchTime = elapsed
		m.SearchCount = n
		recordPhase(ctx, name, "search", elapsed)
		logger.Debug("phase complete", slog.String("phase", "search"), slog.Float64("elapsed_ms", elapsed))
	}

	// Phase 3: inserts of novel values.
	if n := mix.InsertCount(); n > 0 {
		h.progress(progressInsert, name, "Additional inserts")
		values := h.gen.Novel(h.rng, n)
		elapsed, err = measure(func() error {
			for _, v := range values {
				if err := s.Insert(v); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%s: additional insert: %w: %w", name, ErrBenchmarkFailed, err)
		}
		m.InsertTime += elapsed
		m.InsertCount += n
		recordPhase(ctx, name, "insert", elapsed)
		logger.Debug("phase complete", slog.String("phase", "insert"), slog.Float64("elapsed_ms", elapsed))
	}

	// Phase 4: deletes.
	if n := mix.DeleteCount(); n > 0 {
		h.progress(progressDelete, name, "Deleting elements")
		keys := drawKeys(h.rng, data, n)
		elapsed, _ = measure(func() error {
			for _, k := range keys {
				s.Remove(k)
			}
			return nil
		})
		m.DeleteTime = elapsed
		m.DeleteCount = n
		recordPhase(ctx, name, "delete", elapsed)
		logger.Debug("phase complete", slog.String("phase", "delete"), slog.Float64("elapsed_ms", elapsed))
	}

	// Phase 5: memory estimate.
	m.MemoryBytes = s.EstimateMemory()

	// Phase 6: total.
	m.TotalTime = m.InsertTime + m.SearchTime + m.DeleteTime

	h.progress(progressDone, name, "Complete")
	return m, nil
}

func (h *Harness[T]) progress(pct int, structure, msg string) {
	if h.cfg.Progress != nil {
		h.cfg.Progress(pct, "["+structure+"] "+msg)
	}
}

// measure times fn with the monotonic clock and returns milliseconds.
func measure(fn func() error) (float64, error) {
	start := time.Now()
	err := fn()
	return float64(time.Since(start).Nanoseconds()) / 1e6, err
}

func elementType[T Element]() string {
	var zero T
	switch any(zero).(type) {
	case int:
		return "integer"
	case float64:
		return "double"
	default:
		return "string"
	}
}
