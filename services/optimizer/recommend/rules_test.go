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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

func TestSuitability(t *testing.T) {
	balanced := benchmark.OperationMix{SearchPercent: 40, InsertPercent: 40, DeletePercent: 20, TotalOperations: 10}
	searchHeavy := benchmark.OperationMix{SearchPercent: 70, InsertPercent: 20, DeletePercent: 10, TotalOperations: 10}
	deleteHeavy := benchmark.OperationMix{SearchPercent: 20, InsertPercent: 30, DeletePercent: 50, TotalOperations: 10}

	tests := []struct {
		name      string
		structure string
		profile   profile.Profile
		mix       benchmark.OperationMix
		want      float64
	}{
		{
			name:      "hash table search heavy unsorted large",
			structure: benchmark.StructureHashTable,
			profile:   profile.Profile{Size: 2000},
			mix:       searchHeavy,
			want:      100,
		},
		{
			name:      "hash table range queries",
			structure: benchmark.StructureHashTable,
			profile: profile.Profile{Size: 10, IsSorted: true, HasPattern: true,
				Intent: profile.Intent{NeedsRangeQueries: true}},
			mix:  balanced,
			want: 30,
		},
		{
			name:      "alias resolves to hash table",
			structure: "HashMap",
			profile:   profile.Profile{Size: 2000},
			mix:       searchHeavy,
			want:      100,
		},
		{
			name:      "tree sorted range",
			structure: "Tree",
			profile: profile.Profile{IsSorted: true,
				Intent: profile.Intent{NeedsRangeQueries: true}},
			mix:  balanced,
			want: 100,
		},
		{
			name:      "tree moderate search only",
			structure: benchmark.StructureBST,
			profile:   profile.Profile{},
			mix:       benchmark.OperationMix{SearchPercent: 50, DeletePercent: 50, TotalOperations: 2},
			want:      65,
		},
		{
			name:      "trie on integers",
			structure: benchmark.StructureTrie,
			profile:   profile.Profile{DataType: profile.TypeInteger},
			mix:       balanced,
			want:      30,
		},
		{
			name:      "trie long strings large dataset",
			structure: benchmark.StructureTrie,
			profile:   profile.Profile{DataType: profile.TypeString, AverageStringLength: 40, Size: 20000},
			mix:       balanced,
			want:      60,
		},
		{
			name:      "trie prefix search",
			structure: benchmark.StructureTrie,
			profile: profile.Profile{DataType: profile.TypeString, AverageStringLength: 8,
				Intent: profile.Intent{NeedsPrefixSearch: true}},
			mix:  balanced,
			want: 100,
		},
		{
			name:      "heap priority queue delete heavy",
			structure: benchmark.StructureHeap,
			profile:   profile.Profile{Intent: profile.Intent{NeedsPriorityQueue: true}},
			mix:       deleteHeavy,
			want:      100,
		},
		{
			name:      "heap search heavy",
			structure: benchmark.StructureHeap,
			profile:   profile.Profile{},
			mix:       searchHeavy,
			want:      25,
		},
		{
			name:      "heap exempt from memory penalty",
			structure: benchmark.StructureHeap,
			profile:   profile.Profile{Intent: profile.Intent{MemoryConstrained: true}},
			mix:       searchHeavy,
			want:      40,
		},
		{
			name:      "graph under memory constraint",
			structure: benchmark.StructureGraph,
			profile:   profile.Profile{Size: 50, Intent: profile.Intent{MemoryConstrained: true}},
			mix:       balanced,
			want:      45,
		},
		{
			name:      "graph relationships",
			structure: benchmark.StructureGraph,
			profile: profile.Profile{Size: 500,
				Intent: profile.Intent{HasRelationships: true}},
			mix:  deleteHeavy,
			want: 100,
		},
		{
			name:      "speed bonus above seventy",
			structure: benchmark.StructureHashTable,
			profile: profile.Profile{Size: 10, IsSorted: true, HasPattern: true,
				Intent: profile.Intent{SpeedCritical: true}},
			mix:  searchHeavy,
			want: 80,
		},
		{
			name:      "no speed bonus at or below seventy",
			structure: benchmark.StructureHashTable,
			profile: profile.Profile{Size: 10, IsSorted: true, HasPattern: true,
				Intent: profile.Intent{SpeedCritical: true}},
			mix:  balanced,
			want: 50,
		},
		{
			name:      "unknown structure gets global adjustments only",
			structure: "Queue",
			profile:   profile.Profile{Intent: profile.Intent{MemoryConstrained: true}},
			mix:       balanced,
			want:      45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Suitability(tt.structure, tt.profile, tt.mix), 1e-9)
		})
	}
}

func TestMatchedRules(t *testing.T) {
	mix := benchmark.OperationMix{SearchPercent: 50, InsertPercent: 30, DeletePercent: 20, TotalOperations: 10}
	rules := MatchedRules(benchmark.StructureHashTable, profile.Profile{Size: 5}, mix)

	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"search-moderate", "unsorted", "no-pattern"}, names)
	assert.Empty(t, MatchedRules("Queue", profile.Profile{}, mix))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, benchmark.StructureHashTable, Canonical("HashMap"))
	assert.Equal(t, benchmark.StructureBST, Canonical("Tree"))
	assert.Equal(t, benchmark.StructureTrie, Canonical("Trie"))
	assert.Equal(t, "Queue", Canonical("Queue"))
}

func TestReasoning(t *testing.T) {
	p := profile.Profile{IsSorted: true, Intent: profile.Intent{NeedsRangeQueries: true}}
	mix := benchmark.OperationMix{SearchPercent: 70, InsertPercent: 20, DeletePercent: 10, TotalOperations: 10}

	got := Reasoning(Score{Structure: "BST", Total: 85, Time: 90, Space: 30}, p, mix)
	assert.Equal(t, "BST achieved excellent overall performance. Fast operation times. "+
		"Higher memory usage. Perfect for range queries. Works well with sorted data.", got)

	got = Reasoning(Score{Structure: "HashTable", Total: 65, Time: 50, Space: 75}, p, mix)
	assert.Equal(t, "HashTable achieved good overall performance. Memory efficient. "+
		"Ideal for search-heavy workloads. Not suitable for range queries.", got)

	got = Reasoning(Score{Structure: "Heap", Total: 45, Time: 39, Space: 55}, profile.Profile{}, mix)
	assert.Equal(t, "Heap achieved moderate overall performance. Slower operation times. "+
		"Not ideal for frequent searches.", got)

	got = Reasoning(Score{Structure: "Graph", Total: 10, Time: 50, Space: 50}, profile.Profile{}, mix)
	assert.Equal(t, "Graph achieved poor overall performance.", got)
}
