// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package optimizer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/dataset"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

type countingSink struct {
	mu      sync.Mutex
	metrics []string
	scores  []string
}

func (s *countingSink) RecordMetrics(_ context.Context, m *benchmark.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m.Structure)
}

func (s *countingSink) RecordFailure(context.Context, string, error) {}

func (s *countingSink) RecordScore(_ context.Context, sc recommend.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, sc.Structure)
}

func testMix(t *testing.T) benchmark.OperationMix {
	t.Helper()
	mix, err := benchmark.NewOperationMix(50, 30, 20, 40)
	require.NoError(t, err)
	return mix
}

func TestService_Run(t *testing.T) {
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sink := &countingSink{}
	svc := NewService(DefaultServiceConfig(),
		WithStore(store), WithResultSink(sink), WithScoreSink(sink))

	ds, err := dataset.Generate(profile.TypeString, 50, nil)
	require.NoError(t, err)

	run, err := svc.Run(context.Background(), RunRequest{
		Dataset: ds,
		Mix:     testMix(t),
		Intent:  profile.Intent{NeedsPrefixSearch: true},
		Seed:    9,
		Source:  "synthetic",
		Persist: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Len(t, run.Metrics, 5)
	assert.Len(t, run.Scores, 5)
	assert.True(t, run.Profile.NeedsPrefixSearch)
	assert.Equal(t, recommend.SuggestWeights(run.Profile), run.Weights)
	assert.ElementsMatch(t, sink.metrics, sink.scores)

	got, err := svc.Lookup(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Winner(), got.Winner())

	runs, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	require.NoError(t, svc.Forget(context.Background(), run.ID))
	_, err = svc.Lookup(context.Background(), run.ID)
	assert.ErrorIs(t, err, storage.ErrRunNotFound)
}

func TestService_Run_WeightsNormalized(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	run, err := svc.Run(context.Background(), RunRequest{
		Dataset: dataset.FromInts([]int{4, 2, 9, 1}),
		Mix:     testMix(t),
		Weights: &recommend.Weights{Time: 2, Space: 1, Suitability: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, run.Weights.Time, 1e-9)
	assert.InDelta(t, 0.25, run.Weights.Space, 1e-9)
	assert.Empty(t, run.ID, "not persisted without a store")
}

func TestService_Run_Errors(t *testing.T) {
	svc := NewService(ServiceConfig{MaxDataSize: 3})
	ctx := context.Background()

	tests := []struct {
		name string
		req  RunRequest
		want error
	}{
		{"nil dataset", RunRequest{Mix: testMix(t)}, dataset.ErrEmptyDataset},
		{"empty dataset", RunRequest{Dataset: dataset.FromInts(nil), Mix: testMix(t)}, dataset.ErrEmptyDataset},
		{"too large", RunRequest{Dataset: dataset.FromInts([]int{1, 2, 3, 4}), Mix: testMix(t)}, dataset.ErrDatasetTooLarge},
		{"bad mix", RunRequest{Dataset: dataset.FromInts([]int{1}), Mix: benchmark.OperationMix{SearchPercent: 100}}, benchmark.ErrInvalidConfig},
		{"bad weights", RunRequest{
			Dataset: dataset.FromInts([]int{1}),
			Mix:     testMix(t),
			Weights: &recommend.Weights{Time: -1},
		}, recommend.ErrInvalidWeights},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Run(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_Run_ExpiredContext(t *testing.T) {
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	svc := NewService(DefaultServiceConfig(), WithStore(store))

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	for _, persist := range []bool{false, true} {
		_, err := svc.Run(ctx, RunRequest{
			Dataset: dataset.FromInts([]int{3, 1, 2}),
			Mix:     testMix(t),
			Persist: persist,
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded, "persist=%v", persist)
	}

	runs, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestService_NoStore(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	ctx := context.Background()

	_, err := svc.History(ctx, 5)
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = svc.Lookup(ctx, "x")
	assert.ErrorIs(t, err, ErrNoStore)
	assert.ErrorIs(t, svc.Forget(ctx, "x"), ErrNoStore)
	assert.Nil(t, svc.Store())
}

func TestService_Rank(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	results := map[string]*benchmark.Metrics{
		"BST":       {Structure: "BST", DataSize: 10, InsertTime: 1, InsertCount: 10, MemoryBytes: 100},
		"HashTable": {Structure: "HashTable", DataSize: 10, InsertTime: 1, InsertCount: 10, MemoryBytes: 100},
	}
	scores, err := svc.Rank(context.Background(), results, profile.Profile{Size: 10}, testMix(t), recommend.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, scores, 2)

	_, err = svc.Rank(context.Background(), nil, profile.Profile{}, testMix(t), recommend.DefaultWeights())
	assert.ErrorIs(t, err, recommend.ErrNoMetrics)
}
