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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

func TestWeights_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Weights
		want    Weights
		wantErr bool
	}{
		{"already normalized", DefaultWeights(), DefaultWeights(), false},
		{"scaled", Weights{2, 1, 1}, Weights{0.5, 0.25, 0.25}, false},
		{"single weight", Weights{0, 3, 0}, Weights{0, 1, 0}, false},
		{"negative", Weights{-1, 1, 1}, Weights{}, true},
		{"all zero", Weights{}, Weights{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidWeights))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Time, got.Time, 1e-12)
			assert.InDelta(t, tt.want.Space, got.Space, 1e-12)
			assert.InDelta(t, tt.want.Suitability, got.Suitability, 1e-12)
			assert.InDelta(t, 1.0, got.Sum(), 1e-12)
		})
	}
}

func TestSuggestWeights(t *testing.T) {
	tests := []struct {
		name   string
		intent profile.Intent
		want   Weights
	}{
		{"speed critical", profile.Intent{SpeedCritical: true}, Weights{0.7, 0.2, 0.1}},
		{"speed wins over memory", profile.Intent{SpeedCritical: true, MemoryConstrained: true}, Weights{0.7, 0.2, 0.1}},
		{"memory constrained", profile.Intent{MemoryConstrained: true}, Weights{0.3, 0.6, 0.1}},
		{"balanced", profile.Intent{NeedsRangeQueries: true}, Weights{0.4, 0.3, 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestWeights(profile.Profile{}.WithIntent(tt.intent))
			assert.InDelta(t, tt.want.Time, got.Time, 1e-9)
			assert.InDelta(t, tt.want.Space, got.Space, 1e-9)
			assert.InDelta(t, tt.want.Suitability, got.Suitability, 1e-9)
		})
	}
}

func TestTimeScore(t *testing.T) {
	mix := benchmark.OperationMix{SearchPercent: 50, InsertPercent: 30, DeletePercent: 20, TotalOperations: 10}

	t.Run("weighted by mix", func(t *testing.T) {
		m := &benchmark.Metrics{InsertCount: 10, InsertTime: 2, SearchCount: 5, SearchTime: 5}
		// Delete has no count, so only insert (0.2ms x 30) and search (1ms x 50) weigh in.
		want := 100 * math.Exp(-0.5*(0.2*30+1*50)/80)
		assert.InDelta(t, want, TimeScore(m, mix), 1e-9)
	})

	t.Run("neutral without operations", func(t *testing.T) {
		assert.Equal(t, 50.0, TimeScore(&benchmark.Metrics{}, mix))
	})

	t.Run("zero percent ignored", func(t *testing.T) {
		m := &benchmark.Metrics{InsertCount: 1, InsertTime: 1000, SearchCount: 1, SearchTime: 0}
		onlySearch := benchmark.OperationMix{SearchPercent: 100, TotalOperations: 1}
		assert.Equal(t, 100.0, TimeScore(m, onlySearch))
	})

	t.Run("slow clamps to zero", func(t *testing.T) {
		m := &benchmark.Metrics{InsertCount: 1, InsertTime: 1e6}
		assert.InDelta(t, 0, TimeScore(m, mix), 1e-9)
	})
}

func TestSpaceScore(t *testing.T) {
	tests := []struct {
		name        string
		perElement  int64
		constrained bool
		want        float64
	}{
		{"compact", 15, false, 100},
		{"low band", 30, false, 80},
		{"mid band", 70, false, 50},
		{"high band", 120, false, 31},
		{"floor", 400, false, 0},
		{"constrained boost", 70, true, 60},
		{"constrained capped", 25, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &benchmark.Metrics{DataSize: 10, MemoryBytes: tt.perElement * 10}
			p := profile.Profile{}.WithIntent(profile.Intent{MemoryConstrained: tt.constrained})
			assert.InDelta(t, tt.want, SpaceScore(m, p), 1e-9)
		})
	}
}
