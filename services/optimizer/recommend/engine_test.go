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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

type captureSink struct {
	scores []Score
}

func (c *captureSink) RecordScore(_ context.Context, s Score) {
	c.scores = append(c.scores, s)
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), e.Weights())

	e, err = NewEngine(WithWeights(Weights{Time: 1, Space: 1, Suitability: 2}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, e.Weights().Suitability, 1e-12)

	_, err = NewEngine(WithWeights(Weights{Time: -1}))
	assert.True(t, errors.Is(err, ErrInvalidWeights))
}

func TestEngine_RankEndToEnd(t *testing.T) {
	data := []int{5, 3, 8, 1, 4}
	mix, err := benchmark.NewOperationMix(50, 30, 20, 10)
	require.NoError(t, err)

	h, err := benchmark.NewHarness[int](benchmark.WithSeed(21))
	require.NoError(t, err)
	results, err := h.RunAll(context.Background(), data, mix)
	require.NoError(t, err)
	require.Len(t, results, 4)

	sink := &captureSink{}
	e, err := NewEngine(WithScoreSink(sink))
	require.NoError(t, err)

	p := profile.AnalyzeIntegers(data)
	scores, err := e.Rank(context.Background(), results, p, mix)
	require.NoError(t, err)
	require.Len(t, scores, 4)

	for _, s := range scores {
		assert.LessOrEqual(t, s.Total, scores[0].Total)
		for _, v := range []float64{s.Time, s.Space, s.Suitability, s.Total} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
		assert.NotEmpty(t, s.Reasoning)
		assert.Equal(t, s.Total, results[s.Structure].Score, "score is written back to metrics")
	}
	assert.Equal(t, scores, sink.scores)
}

func TestEngine_RankTieBreak(t *testing.T) {
	m := func() *benchmark.Metrics {
		return &benchmark.Metrics{DataSize: 10, InsertCount: 10, InsertTime: 1, MemoryBytes: 100}
	}
	results := map[string]*benchmark.Metrics{"Gamma": m(), "Alpha": m(), "Beta": m()}
	mix := benchmark.OperationMix{InsertPercent: 100, TotalOperations: 10}

	e, err := NewEngine()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		scores, err := e.Rank(context.Background(), results, profile.Profile{}, mix)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", scores[0].Structure)
		assert.Equal(t, "Beta", scores[1].Structure)
		assert.Equal(t, "Gamma", scores[2].Structure)
	}
}

func TestEngine_RankNoMetrics(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	_, err = e.Rank(context.Background(), nil, profile.Profile{}, benchmark.OperationMix{})
	assert.True(t, errors.Is(err, ErrNoMetrics))
}

func TestEngine_RankProperties(t *testing.T) {
	names := []string{"BST", "HashTable", "Heap", "Trie", "Graph"}
	e, err := NewEngine()
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		results := map[string]*benchmark.Metrics{}
		for _, name := range names {
			if !rapid.Bool().Draw(t, "include_"+name) {
				continue
			}
			results[name] = &benchmark.Metrics{
				Structure:   name,
				DataSize:    rapid.IntRange(1, 1000).Draw(t, "size"),
				InsertCount: rapid.IntRange(0, 100).Draw(t, "inserts"),
				InsertTime:  rapid.Float64Range(0, 50).Draw(t, "insert_ms"),
				SearchCount: rapid.IntRange(0, 100).Draw(t, "searches"),
				SearchTime:  rapid.Float64Range(0, 50).Draw(t, "search_ms"),
				MemoryBytes: rapid.Int64Range(0, 1<<20).Draw(t, "memory"),
			}
		}
		if len(results) == 0 {
			return
		}
		p := profile.Profile{}.WithIntent(profile.Intent{
			MemoryConstrained: rapid.Bool().Draw(t, "memory_constrained"),
			SpeedCritical:     rapid.Bool().Draw(t, "speed_critical"),
		})
		search := rapid.IntRange(0, 100).Draw(t, "search_pct")
		insert := rapid.IntRange(0, 100-search).Draw(t, "insert_pct")
		mix := benchmark.OperationMix{SearchPercent: search, InsertPercent: insert,
			DeletePercent: 100 - search - insert, TotalOperations: 10}

		scores, err := e.Rank(context.Background(), results, p, mix)
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		if len(scores) != len(results) {
			t.Fatalf("got %d scores for %d results", len(scores), len(results))
		}
		for i := 1; i < len(scores); i++ {
			prev, cur := scores[i-1], scores[i]
			if cur.Total > prev.Total || (cur.Total == prev.Total && cur.Structure < prev.Structure) {
				t.Fatalf("ranking out of order at %d: %+v before %+v", i, prev, cur)
			}
		}
		for _, s := range scores {
			if s.Total < 0 || s.Total > 100+1e-9 {
				t.Fatalf("total %f out of range for %s", s.Total, s.Structure)
			}
		}
	})
}

func TestNormalizeScores(t *testing.T) {
	in := []Score{{Structure: "A", Total: 50}, {Structure: "B", Total: 25}, {Structure: "C", Total: 0}}
	out := NormalizeScores(in)

	assert.InDelta(t, 100, out[0].Total, 1e-9)
	assert.InDelta(t, 50, out[1].Total, 1e-9)
	assert.Zero(t, out[2].Total)
	assert.Equal(t, 50.0, in[0].Total, "input untouched")

	zero := []Score{{Structure: "A"}, {Structure: "B"}}
	assert.Equal(t, zero, NormalizeScores(zero))
	assert.Empty(t, NormalizeScores(nil))
}

func TestFromImported(t *testing.T) {
	rows := []*benchmark.Metrics{{Structure: "Heap", Score: 9}, {Structure: "BST", Score: 3}}
	got := FromImported(rows)
	assert.Equal(t, []Score{{Structure: "Heap", Total: 9}, {Structure: "BST", Total: 3}}, got)
}
