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
	"strings"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

// Score bands used in reasoning text.
const (
	bandExcellent = 80.0
	bandGood      = 60.0
	bandModerate  = 40.0

	fastThreshold = 70.0
	slowThreshold = 40.0
)

type note struct {
	text string
	when func(w workload) bool
}

var structureNotes = map[string][]note{
	benchmark.StructureHashTable: {
		{"Ideal for search-heavy workloads.", func(w workload) bool { return w.mix.SearchPercent > 60 }},
		{"Not suitable for range queries.", func(w workload) bool { return w.profile.NeedsRangeQueries }},
	},
	benchmark.StructureBST: {
		{"Perfect for range queries.", func(w workload) bool { return w.profile.NeedsRangeQueries }},
		{"Works well with sorted data.", func(w workload) bool { return w.profile.IsSorted }},
	},
	benchmark.StructureTrie: {
		{"Optimized for string operations.", func(w workload) bool { return w.profile.DataType == profile.TypeString }},
		{"Excellent for prefix searches.", func(w workload) bool { return w.profile.NeedsPrefixSearch }},
	},
	benchmark.StructureHeap: {
		{"Perfect for priority queue operations.", func(w workload) bool { return w.profile.NeedsPriorityQueue }},
		{"Not ideal for frequent searches.", func(w workload) bool { return w.mix.SearchPercent > 50 }},
	},
	benchmark.StructureGraph: {
		{"Ideal for relationship/network data.", func(w workload) bool { return w.profile.HasRelationships }},
		{"Perfect for connectivity and path finding.", func(w workload) bool { return w.profile.NeedsConnectivity }},
		{"Consider memory usage for large graphs.", func(w workload) bool { return w.profile.MemoryConstrained }},
	},
}

// Reasoning renders the rationale sentences for a scored structure.
func Reasoning(s Score, p profile.Profile, mix benchmark.OperationMix) string {
	sentences := []string{s.Structure + " achieved " + band(s.Total) + " overall performance."}

	switch {
	case s.Time >= fastThreshold:
		sentences = append(sentences, "Fast operation times.")
	case s.Time < slowThreshold:
		sentences = append(sentences, "Slower operation times.")
	}

	switch {
	case s.Space >= fastThreshold:
		sentences = append(sentences, "Memory efficient.")
	case s.Space < slowThreshold:
		sentences = append(sentences, "Higher memory usage.")
	}

	w := workload{profile: p, mix: mix}
	for _, n := range structureNotes[Canonical(s.Structure)] {
		if n.when(w) {
			sentences = append(sentences, n.text)
		}
	}
	return strings.Join(sentences, " ")
}

func band(total float64) string {
	switch {
	case total >= bandExcellent:
		return "excellent"
	case total >= bandGood:
		return "good"
	case total >= bandModerate:
		return "moderate"
	default:
		return "poor"
	}
}
