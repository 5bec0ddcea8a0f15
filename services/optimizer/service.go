// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package optimizer ties the dataset, benchmark, recommend and storage
// packages into one run pipeline shared by the CLI and the HTTP API.
//
// A run profiles a dataset, benchmarks every applicable structure under an
// operation mix, ranks the results, and optionally persists the outcome.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/dataset"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

const tracerName = "dsoptimizer.optimizer"

// ErrNoStore is returned by history operations when no store is configured.
var ErrNoStore = errors.New("run history is not configured")

// ServiceConfig configures the Service.
type ServiceConfig struct {
	// MaxDataSize caps accepted datasets.
	// Default: dataset.MaxSize
	MaxDataSize int
}

// DefaultServiceConfig returns the defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxDataSize: dataset.MaxSize,
	}
}

// Service runs benchmarks and rankings.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Each Run builds its own harness
//	and engine; the store and sinks are themselves concurrency-safe.
type Service struct {
	config  ServiceConfig
	store   *storage.Store
	results benchmark.ResultSink
	scores  recommend.ScoreSink
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStore enables run persistence.
func WithStore(s *storage.Store) ServiceOption {
	return func(svc *Service) { svc.store = s }
}

// WithResultSink forwards per-structure benchmark results.
func WithResultSink(s benchmark.ResultSink) ServiceOption {
	return func(svc *Service) { svc.results = s }
}

// WithScoreSink forwards ranked scores.
func WithScoreSink(s recommend.ScoreSink) ServiceOption {
	return func(svc *Service) { svc.scores = s }
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// NewService creates a Service. Non-positive config values fall back to
// defaults.
func NewService(cfg ServiceConfig, opts ...ServiceOption) *Service {
	if cfg.MaxDataSize <= 0 || cfg.MaxDataSize > dataset.MaxSize {
		cfg.MaxDataSize = dataset.MaxSize
	}
	svc := &Service{config: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Store returns the configured store, or nil.
func (s *Service) Store() *storage.Store {
	return s.store
}

// RunRequest describes one run.
type RunRequest struct {
	Dataset *dataset.Dataset
	Mix     benchmark.OperationMix
	Intent  profile.Intent

	// Weights overrides the weights suggested from the profile.
	Weights *recommend.Weights

	// Seed makes key draws reproducible. Zero is non-deterministic.
	Seed uint64

	// Source labels the dataset origin in history, e.g. a file path.
	Source string

	Progress benchmark.ProgressFunc

	// Persist saves the run when a store is configured.
	Persist bool

	// HarnessOptions are applied after the service's own options.
	HarnessOptions []benchmark.RunOption
}

// Run profiles, benchmarks, ranks and optionally persists a dataset.
//
// Description:
//
//	The profile carries req.Intent. When req.Weights is nil the weights
//	come from recommend.SuggestWeights. A structure that fails is left
//	out of the ranking; if every structure fails the error wraps
//	recommend.ErrNoMetrics.
//
// Inputs:
//
//	ctx - Checked before the benchmark starts. Phases are never interrupted.
//	req - The run description. Dataset and Mix are required.
//
// Outputs:
//
//	*storage.Run - The run. ID is set only when it was persisted.
//	error - Dataset, mix, weight or persistence failures.
//
// Example:
//
//	run, err := svc.Run(ctx, optimizer.RunRequest{Dataset: ds, Mix: mix})
//	fmt.Println(recommend.Recommendation(run.Scores))
func (s *Service) Run(ctx context.Context, req RunRequest) (*storage.Run, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}
	if req.Dataset == nil {
		return nil, dataset.ErrEmptyDataset
	}
	if err := req.Dataset.Validate(); err != nil {
		return nil, err
	}
	if n := req.Dataset.Len(); n > s.config.MaxDataSize {
		return nil, fmt.Errorf("%w: %d elements, maximum is %d", dataset.ErrDatasetTooLarge, n, s.config.MaxDataSize)
	}
	if err := req.Mix.Validate(); err != nil {
		return nil, err
	}
	var weights recommend.Weights
	if req.Weights != nil {
		w, err := req.Weights.Normalize()
		if err != nil {
			return nil, err
		}
		weights = w
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "optimizer.Service.Run",
		trace.WithAttributes(
			attribute.String("optimizer.data_type", string(req.Dataset.Type)),
			attribute.Int("optimizer.data_size", req.Dataset.Len()),
			attribute.Bool("optimizer.persist", req.Persist),
		),
	)
	defer span.End()

	p := req.Dataset.Profile().WithIntent(req.Intent)
	if req.Weights == nil {
		weights = recommend.SuggestWeights(p)
	}

	opts := []benchmark.RunOption{benchmark.WithLogger(s.logger), benchmark.WithSeed(req.Seed)}
	if s.results != nil {
		opts = append(opts, benchmark.WithSink(s.results))
	}
	if req.Progress != nil {
		opts = append(opts, benchmark.WithProgress(req.Progress))
	}
	opts = append(opts, req.HarnessOptions...)

	results, err := req.Dataset.Benchmark(ctx, req.Mix, opts...)
	if err != nil {
		return nil, s.fail(span, "benchmark", err)
	}

	scores, err := s.Rank(ctx, results, p, req.Mix, weights)
	if err != nil {
		return nil, s.fail(span, "rank", err)
	}

	run := &storage.Run{
		Source:   req.Source,
		DataType: req.Dataset.Type,
		Profile:  p,
		Mix:      req.Mix,
		Weights:  weights,
		Metrics:  results,
		Scores:   scores,
	}
	if req.Persist && s.store != nil {
		if _, err := s.store.Save(ctx, run); err != nil {
			return nil, s.fail(span, "persist", err)
		}
	}

	span.SetAttributes(attribute.String("optimizer.winner", run.Winner()))
	span.SetStatus(codes.Ok, "run complete")
	s.logger.Info("run complete",
		slog.String("data_type", string(run.DataType)),
		slog.Int("data_size", p.Size),
		slog.Int("structures", len(results)),
		slog.String("winner", run.Winner()),
		slog.String("run_id", run.ID))
	return run, nil
}

// Rank scores existing results with the given weights.
func (s *Service) Rank(ctx context.Context, results map[string]*benchmark.Metrics, p profile.Profile, mix benchmark.OperationMix, w recommend.Weights) ([]recommend.Score, error) {
	opts := []recommend.EngineOption{
		recommend.WithWeights(w),
		recommend.WithEngineLogger(s.logger),
	}
	if s.scores != nil {
		opts = append(opts, recommend.WithScoreSink(s.scores))
	}
	engine, err := recommend.NewEngine(opts...)
	if err != nil {
		return nil, err
	}
	return engine.Rank(ctx, results, p, mix)
}

// History returns up to limit persisted runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*storage.Run, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.List(ctx, limit)
}

// Lookup returns one persisted run.
func (s *Service) Lookup(ctx context.Context, id string) (*storage.Run, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Get(ctx, id)
}

// Forget deletes one persisted run.
func (s *Service) Forget(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) fail(span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage+" failed")
	return fmt.Errorf("%s: %w", stage, err)
}
