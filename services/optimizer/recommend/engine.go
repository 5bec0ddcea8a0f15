// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slices"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

const tracerName = "dsoptimizer.recommend"

// ScoreSink receives the final score of each ranked structure.
type ScoreSink interface {
	RecordScore(ctx context.Context, s Score)
}

// Engine ranks benchmark results.
//
// Thread Safety:
//
//	Safe for concurrent use once constructed.
type Engine struct {
	weights Weights
	logger  *slog.Logger
	sink    ScoreSink
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWeights overrides DefaultWeights. The weights are normalized by
// NewEngine.
func WithWeights(w Weights) EngineOption {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithEngineLogger sets the logger. Defaults to slog.Default().
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithScoreSink reports every ranked score to s.
func WithScoreSink(s ScoreSink) EngineOption {
	return func(e *Engine) {
		e.sink = s
	}
}

// NewEngine builds an engine with normalized weights.
//
// Outputs:
//
//	*Engine - Ready to rank.
//	error - Wraps ErrInvalidWeights.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(e)
	}
	w, err := e.weights.Normalize()
	if err != nil {
		return nil, err
	}
	e.weights = w
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e, nil
}

// Weights returns the normalized weights in use.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Rank scores and orders every structure in results.
//
// Description:
//
//	Each entry receives time, space and suitability sub-scores, a weighted
//	total, and reasoning text. The total is also written back into the
//	Metrics.Score field of results. Entries are ordered by total score,
//	highest first; equal totals are ordered by structure name.
//
// Inputs:
//
//	ctx - Used for tracing and the score sink only.
//	results - Benchmark results keyed by structure name.
//	p - Profile of the benchmarked dataset, including intent.
//	mix - The operation mix the results were measured with.
//
// Outputs:
//
//	[]Score - Ranked entries. The first is the recommendation.
//	error - ErrNoMetrics if results is empty.
//
// Example:
//
//	engine, _ := recommend.NewEngine(recommend.WithWeights(recommend.SuggestWeights(p)))
//	scores, err := engine.Rank(ctx, results, p, mix)
//	fmt.Println(recommend.Recommendation(scores))
func (e *Engine) Rank(ctx context.Context, results map[string]*benchmark.Metrics, p profile.Profile, mix benchmark.OperationMix) ([]Score, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "recommend.Engine.Rank",
		trace.WithAttributes(
			attribute.Int("recommend.structures", len(results)),
			attribute.Float64("recommend.weight.time", e.weights.Time),
			attribute.Float64("recommend.weight.space", e.weights.Space),
			attribute.Float64("recommend.weight.suitability", e.weights.Suitability),
		),
	)
	defer span.End()

	if len(results) == 0 {
		span.RecordError(ErrNoMetrics)
		span.SetStatus(codes.Error, "no metrics")
		return nil, fmt.Errorf("rank: %w", ErrNoMetrics)
	}

	scores := make([]Score, 0, len(results))
	for name, m := range results {
		s := Score{
			Structure:   name,
			Time:        TimeScore(m, mix),
			Space:       SpaceScore(m, p),
			Suitability: Suitability(name, p, mix),
		}
		s.Total = e.weights.Combine(s.Time, s.Space, s.Suitability)
		s.Reasoning = Reasoning(s, p, mix)
		m.Score = s.Total
		scores = append(scores, s)

		e.logger.Debug("structure scored",
			slog.String("component", name),
			slog.Float64("time", s.Time),
			slog.Float64("space", s.Space),
			slog.Float64("suitability", s.Suitability),
			slog.Float64("total", s.Total))
	}

	slices.SortFunc(scores, func(a, b Score) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Structure, b.Structure)
	})

	if e.sink != nil {
		for _, s := range scores {
			e.sink.RecordScore(ctx, s)
		}
	}

	span.SetAttributes(
		attribute.String("recommend.winner", scores[0].Structure),
		attribute.Float64("recommend.winner.total", scores[0].Total),
	)
	span.SetStatus(codes.Ok, "ranked")
	return scores, nil
}

// NormalizeScores rescales totals so the first-ranked entry reads 100.
//
// The input is not modified and the order is kept. If the highest total
// is not positive the copy is returned unchanged.
func NormalizeScores(scores []Score) []Score {
	out := slices.Clone(scores)
	var top float64
	for _, s := range out {
		top = max(top, s.Total)
	}
	if top <= 0 {
		return out
	}
	for i := range out {
		out[i].Total = out[i].Total / top * 100
	}
	return out
}

// FromImported turns imported result rows into display scores. Only the
// structure name and total are known for imported rows.
func FromImported(rows []*benchmark.Metrics) []Score {
	out := make([]Score, 0, len(rows))
	for _, m := range rows {
		out = append(out, Score{Structure: m.Structure, Total: m.Score})
	}
	return out
}
