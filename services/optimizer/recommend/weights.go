// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package recommend scores benchmarked structures against a dataset
// profile and operation mix, ranks them, and renders explanations.
//
// Each structure gets three sub-scores in [0,100]: time (measured
// latency), space (bytes per element) and suitability (a rule table over
// the profile and mix). The weighted sum orders the ranking.
package recommend

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

var (
	// ErrNoMetrics indicates Rank was called without any results.
	ErrNoMetrics = errors.New("no metrics to rank")

	// ErrInvalidWeights indicates a negative or all-zero weight triple.
	ErrInvalidWeights = errors.New("invalid weights")
)

// Weights balances the three sub-scores.
type Weights struct {
	Time        float64 `json:"time" yaml:"time" validate:"gte=0"`
	Space       float64 `json:"space" yaml:"space" validate:"gte=0"`
	Suitability float64 `json:"suitability" yaml:"suitability" validate:"gte=0"`
}

// DefaultWeights returns 0.5 time, 0.3 space, 0.2 suitability.
func DefaultWeights() Weights {
	return Weights{Time: 0.5, Space: 0.3, Suitability: 0.2}
}

// Sum returns Time + Space + Suitability.
func (w Weights) Sum() float64 {
	return w.Time + w.Space + w.Suitability
}

// Normalize scales w so it sums to 1.
//
// Outputs:
//
//	Weights - w unchanged if it already sums to 1, otherwise w / Sum().
//	error - Wraps ErrInvalidWeights if any weight is negative or all are zero.
func (w Weights) Normalize() (Weights, error) {
	if w.Time < 0 || w.Space < 0 || w.Suitability < 0 {
		return Weights{}, fmt.Errorf("%w: weights must be non-negative, got %.3f/%.3f/%.3f",
			ErrInvalidWeights, w.Time, w.Space, w.Suitability)
	}
	sum := w.Sum()
	if sum == 0 {
		return Weights{}, fmt.Errorf("%w: at least one weight must be positive", ErrInvalidWeights)
	}
	if sum == 1 {
		return w, nil
	}
	return Weights{Time: w.Time / sum, Space: w.Space / sum, Suitability: w.Suitability / sum}, nil
}

// Combine returns the weighted total of three sub-scores.
func (w Weights) Combine(time, space, suitability float64) float64 {
	return time*w.Time + space*w.Space + suitability*w.Suitability
}

func (w Weights) String() string {
	return fmt.Sprintf("Weights: Time=%.2f, Space=%.2f, Suitability=%.2f", w.Time, w.Space, w.Suitability)
}

// SuggestWeights maps the profile's intent flags to a preset.
//
// Speed-critical wins over memory-constrained:
//
//	| Intent              | Time | Space | Suitability |
//	|---------------------|------|-------|-------------|
//	| SpeedCritical       | 0.7  | 0.2   | 0.1         |
//	| MemoryConstrained   | 0.3  | 0.6   | 0.1         |
//	| otherwise           | 0.4  | 0.3   | 0.3         |
//
// The result is normalized.
func SuggestWeights(p profile.Profile) Weights {
	var w Weights
	switch {
	case p.SpeedCritical:
		w = Weights{Time: 0.7, Space: 0.2, Suitability: 0.1}
	case p.MemoryConstrained:
		w = Weights{Time: 0.3, Space: 0.6, Suitability: 0.1}
	default:
		w = Weights{Time: 0.4, Space: 0.3, Suitability: 0.3}
	}
	n, _ := w.Normalize()
	return n
}
