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
	"math/rand/v2"
	"strconv"
)

// Novel values are drawn from ranges disjoint from synthetic datasets.
const (
	novelNumericLow  = 1_000_000
	novelNumericHigh = 2_000_000
	novelStringBase  = 1_000_000
	novelStringTag   = "gen_"
)

// ValueGenerator produces values for the insert phase that are not
// expected to appear in the dataset.
type ValueGenerator[T Element] interface {
	Novel(r *rand.Rand, count int) []T
}

type intGenerator struct{}

// Novel draws uniformly from [1000000, 2000000].
func (intGenerator) Novel(r *rand.Rand, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = novelNumericLow + r.IntN(novelNumericHigh-novelNumericLow+1)
	}
	return out
}

type floatGenerator struct{}

// Novel draws integral values from [1000000, 2000000].
func (floatGenerator) Novel(r *rand.Rand, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = float64(novelNumericLow + r.IntN(novelNumericHigh-novelNumericLow+1))
	}
	return out
}

type stringGenerator struct{}

// Novel returns "gen_1000000", "gen_1000001", ... without using r.
func (stringGenerator) Novel(_ *rand.Rand, count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = novelStringTag + strconv.Itoa(i+novelStringBase)
	}
	return out
}

// NewValueGenerator selects the generator for T.
func NewValueGenerator[T Element]() ValueGenerator[T] {
	var zero T
	var g any
	switch any(zero).(type) {
	case int:
		g = intGenerator{}
	case float64:
		g = floatGenerator{}
	case string:
		g = stringGenerator{}
	}
	return g.(ValueGenerator[T])
}

// drawKeys samples count keys from data with replacement.
func drawKeys[T Element](r *rand.Rand, data []T, count int) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = data[r.IntN(len(data))]
	}
	return out
}
