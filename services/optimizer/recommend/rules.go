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
	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

// Accepted alternative structure names.
var aliases = map[string]string{
	"HashMap": benchmark.StructureHashTable,
	"Tree":    benchmark.StructureBST,
}

// Canonical resolves aliases such as "HashMap" and "Tree".
func Canonical(name string) string {
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}

// workload is what every rule is evaluated against.
type workload struct {
	profile profile.Profile
	mix     benchmark.OperationMix
}

// Rule is one suitability adjustment.
type Rule struct {
	Name  string
	Delta float64
	when  func(w workload) bool
}

// suitabilityRules is the decision table. Rules for one structure are
// independent and their deltas add up.
var suitabilityRules = map[string][]Rule{
	benchmark.StructureHashTable: {
		{"search-heavy", 25, func(w workload) bool { return w.mix.SearchPercent > 60 }},
		{"search-moderate", 15, func(w workload) bool {
			return w.mix.SearchPercent > 40 && w.mix.SearchPercent <= 60
		}},
		{"unsorted", 10, func(w workload) bool { return !w.profile.IsSorted }},
		{"range-queries", -20, func(w workload) bool { return w.profile.NeedsRangeQueries }},
		{"large-dataset", 10, func(w workload) bool { return w.profile.Size > 1000 }},
		{"no-pattern", 5, func(w workload) bool { return !w.profile.HasPattern }},
	},
	benchmark.StructureBST: {
		{"sorted", 20, func(w workload) bool { return w.profile.IsSorted }},
		{"range-queries", 30, func(w workload) bool { return w.profile.NeedsRangeQueries }},
		{"search-moderate", 15, func(w workload) bool {
			return w.mix.SearchPercent > 40 && w.mix.SearchPercent < 80
		}},
		{"pattern", 10, func(w workload) bool { return w.profile.HasPattern }},
		{"read-write-balanced", 5, func(w workload) bool {
			return w.mix.SearchPercent+w.mix.InsertPercent > 60
		}},
	},
	benchmark.StructureTrie: {
		{"string-data", 30, func(w workload) bool { return w.profile.DataType == profile.TypeString }},
		{"non-string-data", -30, func(w workload) bool { return w.profile.DataType != profile.TypeString }},
		{"prefix-search", 40, func(w workload) bool { return w.profile.NeedsPrefixSearch }},
		{"short-strings", 10, func(w workload) bool { return w.profile.AverageStringLength < 15 }},
		{"long-strings", -10, func(w workload) bool { return w.profile.AverageStringLength > 30 }},
		{"very-large-dataset", -10, func(w workload) bool { return w.profile.Size > 10000 }},
	},
	benchmark.StructureHeap: {
		{"priority-queue", 50, func(w workload) bool { return w.profile.NeedsPriorityQueue }},
		{"delete-heavy", 15, func(w workload) bool { return w.mix.DeletePercent > 30 }},
		{"search-heavy", -25, func(w workload) bool { return w.mix.SearchPercent > 50 }},
		{"insert-heavy", 10, func(w workload) bool { return w.mix.InsertPercent > 40 }},
		{"memory-constrained", 15, func(w workload) bool { return w.profile.MemoryConstrained }},
	},
	benchmark.StructureGraph: {
		{"relationships", 40, func(w workload) bool { return w.profile.HasRelationships }},
		{"connectivity", 35, func(w workload) bool { return w.profile.NeedsConnectivity }},
		{"mixed-workload", 15, func(w workload) bool {
			return w.mix.InsertPercent > 30 && w.mix.SearchPercent > 30
		}},
		{"memory-constrained", -15, func(w workload) bool { return w.profile.MemoryConstrained }},
		{"networked-dataset", 10, func(w workload) bool { return w.profile.Size > 100 }},
	},
}

// Global adjustments applied after the per-structure rules.
const (
	speedBonusThreshold = 70.0
	speedBonus          = 5.0
	memoryPenalty       = 5.0
)

// MatchedRules returns the rules that fire for structure.
func MatchedRules(structure string, p profile.Profile, mix benchmark.OperationMix) []Rule {
	w := workload{profile: p, mix: mix}
	var out []Rule
	for _, r := range suitabilityRules[Canonical(structure)] {
		if r.when(w) {
			out = append(out, r)
		}
	}
	return out
}

// Suitability scores how well structure matches the declared workload.
//
// Description:
//
//	Starts at 50 and adds the delta of every matched rule. Speed-critical
//	profiles then get +5 when the score is already above 70, and
//	memory-constrained profiles get -5 for every structure except the
//	heap. Unknown structures only receive the global adjustments.
//
// Outputs:
//
//	float64 - Clamped to [0,100].
func Suitability(structure string, p profile.Profile, mix benchmark.OperationMix) float64 {
	score := neutralScore
	for _, r := range MatchedRules(structure, p, mix) {
		score += r.Delta
	}

	if p.SpeedCritical && score > speedBonusThreshold {
		score += speedBonus
	}
	if p.MemoryConstrained && Canonical(structure) != benchmark.StructureHeap {
		score -= memoryPenalty
	}
	return clamp(score)
}
