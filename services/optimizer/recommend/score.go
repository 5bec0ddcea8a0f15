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
	"fmt"
	"math"
	"strings"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

const (
	neutralScore = 50.0
	timeDecay    = 0.5
	memoryBoost  = 1.2
)

// Score is one structure's ranking entry.
type Score struct {
	Structure   string  `json:"structure"`
	Time        float64 `json:"time_score"`
	Space       float64 `json:"space_score"`
	Suitability float64 `json:"suitability_score"`
	Total       float64 `json:"total_score"`
	Reasoning   string  `json:"reasoning"`
}

func (s Score) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== %s Score ===\n", s.Structure)
	fmt.Fprintf(&b, "Total Score: %.2f/100\n", s.Total)
	fmt.Fprintf(&b, "  Time Score: %.2f/100\n", s.Time)
	fmt.Fprintf(&b, "  Space Score: %.2f/100\n", s.Space)
	fmt.Fprintf(&b, "  Suitability: %.2f/100\n", s.Suitability)
	fmt.Fprintf(&b, "Reasoning: %s\n", s.Reasoning)
	return b.String()
}

// TimeScore converts measured latency into a score.
//
// Description:
//
//	Average latencies per operation are weighted by the mix percentage,
//	skipping operations with zero count or zero percentage. The weighted
//	average t (ms) maps to 100 * e^(-0.5 t). With nothing to weigh the
//	score is a neutral 50.
func TimeScore(m *benchmark.Metrics, mix benchmark.OperationMix) float64 {
	var weighted, total float64
	for _, op := range []struct {
		count int
		pct   int
		avg   float64
	}{
		{m.InsertCount, mix.InsertPercent, m.AvgInsertTime()},
		{m.SearchCount, mix.SearchPercent, m.AvgSearchTime()},
		{m.DeleteCount, mix.DeletePercent, m.AvgDeleteTime()},
	} {
		if op.count > 0 && op.pct > 0 {
			weighted += op.avg * float64(op.pct)
			total += float64(op.pct)
		}
	}
	if total == 0 {
		return neutralScore
	}
	return clamp(100 * math.Exp(-timeDecay*weighted/total))
}

// SpaceScore converts bytes per element into a score.
//
//	| Bytes/element | Score                      |
//	|---------------|----------------------------|
//	| < 20          | 100                        |
//	| 20 to 50      | 90 - (m - 20)              |
//	| 50 to 100     | 60 - (m - 50) * 0.5        |
//	| >= 100        | max(0, 35 - (m-100) * 0.2) |
//
// A memory-constrained profile multiplies the result by 1.2 before
// clamping to [0,100].
func SpaceScore(m *benchmark.Metrics, p profile.Profile) float64 {
	perElem := m.MemoryPerElement()

	var score float64
	switch {
	case perElem < 20:
		score = 100
	case perElem < 50:
		score = 90 - (perElem - 20)
	case perElem < 100:
		score = 60 - (perElem-50)*0.5
	default:
		score = math.Max(0, 35-(perElem-100)*0.2)
	}

	if p.MemoryConstrained {
		score *= memoryBoost
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
