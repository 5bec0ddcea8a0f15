// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeIntegers(t *testing.T) {
	tests := []struct {
		name   string
		data   []int
		sorted bool
		ptn    bool
		unique int
		avg    float64
	}{
		{"sequential", []int{1, 2, 3, 4}, true, true, 4, 2.5},
		{"sorted with gap", []int{1, 2, 4}, true, false, 3, 7.0 / 3},
		{"duplicates", []int{3, 3, 1}, false, false, 2, 7.0 / 3},
		{"single element has no pattern", []int{9}, true, false, 1, 9},
		{"non decreasing", []int{1, 1, 2}, true, false, 2, 4.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AnalyzeIntegers(tt.data)
			assert.Equal(t, TypeInteger, p.DataType)
			assert.Equal(t, len(tt.data), p.Size)
			assert.Equal(t, tt.sorted, p.IsSorted)
			assert.Equal(t, tt.ptn, p.HasPattern)
			assert.Equal(t, tt.unique, p.UniqueElements)
			assert.Equal(t, tt.unique < len(tt.data), p.HasDuplicates)
			assert.InDelta(t, tt.avg, p.AverageValue, 1e-9)
			assert.Zero(t, p.AverageStringLength)
		})
	}
}

func TestAnalyze_Empty(t *testing.T) {
	p := Analyze([]float64{})
	assert.Equal(t, Profile{DataType: TypeDouble}, p)

	s := Analyze([]string(nil))
	assert.Equal(t, Profile{DataType: TypeString}, s)
}

func TestAnalyzeDoubles(t *testing.T) {
	p := AnalyzeDoubles([]float64{0.5, 1.5, 2.5})
	assert.Equal(t, TypeDouble, p.DataType)
	assert.True(t, p.HasPattern)
	assert.True(t, p.IsSorted)
	assert.InDelta(t, 1.5, p.AverageValue, 1e-9)

	nan := AnalyzeDoubles([]float64{1, math.NaN()})
	assert.False(t, nan.HasPattern)
}

func TestAnalyzeStrings(t *testing.T) {
	tests := []struct {
		name string
		data []string
		ptn  bool
		avg  float64
	}{
		{"shared first char", []string{"apple", "avocado", "apricot"}, true, 19.0 / 3},
		{"mixed first char", []string{"apple", "banana"}, false, 5.5},
		{"empty first element", []string{"", "a"}, false, 0.5},
		{"empty later element", []string{"a", ""}, false, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AnalyzeStrings(tt.data)
			assert.Equal(t, tt.ptn, p.HasPattern)
			assert.InDelta(t, tt.avg, p.AverageStringLength, 1e-9)
			assert.Equal(t, p.AverageStringLength, p.AverageValue)
		})
	}
}

func TestProfile_WithIntent(t *testing.T) {
	base := AnalyzeIntegers([]int{1, 2, 3})
	assert.Equal(t, Intent{}, base.Intent, "analysis never sets intent")

	p := base.WithIntent(Intent{NeedsRangeQueries: true, SpeedCritical: true})
	assert.True(t, p.NeedsRangeQueries)
	assert.True(t, p.SpeedCritical)
	assert.False(t, base.NeedsRangeQueries, "overlay must not mutate the original")
	assert.Equal(t, base.Size, p.Size)
}

func TestProfile_String(t *testing.T) {
	s := AnalyzeStrings([]string{"ab", "ac"}).String()
	assert.Contains(t, s, "Type: string")
	assert.Contains(t, s, "Has Pattern: Yes")
	assert.Contains(t, s, "Avg String Length: 2.000000")

	n := AnalyzeIntegers([]int{2, 4}).String()
	assert.Contains(t, n, "Average Value: 3.000000")
	assert.Contains(t, n, "Sorted: Yes")
}
