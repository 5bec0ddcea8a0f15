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
	"strings"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
)

const noResults = "No data structures were tested."

// maxAlternatives is how many runners-up Recommendation lists.
const maxAlternatives = 2

// Recommendation renders the full report for ranked scores.
//
// The report has the winner, its score breakdown and rationale, up to two
// alternatives with their rationale, and ExplainChoice for the winner.
func Recommendation(scores []Score) string {
	if len(scores) == 0 {
		return noResults
	}
	winner := scores[0]

	var b strings.Builder
	b.WriteString("\n╔════════════════════════════════════════════════╗\n")
	b.WriteString("║         RECOMMENDATION REPORT                  ║\n")
	b.WriteString("╚════════════════════════════════════════════════╝\n\n")

	fmt.Fprintf(&b, "RECOMMENDED DATA STRUCTURE: %s\n", winner.Structure)
	fmt.Fprintf(&b, "   Overall Score: %.2f/100\n\n", winner.Total)

	b.WriteString("SCORE BREAKDOWN:\n")
	fmt.Fprintf(&b, "   • Time Efficiency:  %.2f/100\n", winner.Time)
	fmt.Fprintf(&b, "   • Space Efficiency: %.2f/100\n", winner.Space)
	fmt.Fprintf(&b, "   • Suitability:      %.2f/100\n\n", winner.Suitability)

	b.WriteString("RATIONALE:\n")
	fmt.Fprintf(&b, "   %s\n\n", winner.Reasoning)

	if len(scores) > 1 {
		b.WriteString("ALTERNATIVES:\n")
		for i, s := range scores[1:min(len(scores), maxAlternatives+1)] {
			fmt.Fprintf(&b, "   %d. %s (Score: %.2f/100)\n", i+2, s.Structure, s.Total)
			fmt.Fprintf(&b, "      → %s\n", s.Reasoning)
		}
	}

	b.WriteString("\n")
	b.WriteString(ExplainChoice(winner.Structure))
	return b.String()
}

type explainer struct {
	title   string
	bullets [4]string
}

var explainers = map[string]explainer{
	benchmark.StructureHashTable: {"Hash table", [4]string{
		"O(1) average-case search, insert, and delete",
		"Excellent for key-value lookups",
		"Best when order doesn't matter",
		"Use when: Fast lookups are critical",
	}},
	benchmark.StructureBST: {"Binary Search Tree", [4]string{
		"O(log n) operations (when balanced)",
		"Maintains sorted order",
		"Supports range queries efficiently",
		"Use when: You need sorted data or ranges",
	}},
	benchmark.StructureTrie: {"Trie", [4]string{
		"O(m) operations where m = string length",
		"Excellent for prefix matching",
		"Perfect for autocomplete features",
		"Use when: Working with strings and prefixes",
	}},
	benchmark.StructureHeap: {"Heap", [4]string{
		"O(log n) insert and extract-min/max",
		"O(1) peek at min/max element",
		"Perfect for priority queues",
		"Use when: Need min/max element frequently",
	}},
	benchmark.StructureGraph: {"Graph", [4]string{
		"O(1) to O(V+E) operations depending on query",
		"Models relationships between entities",
		"Supports BFS, DFS, shortest path algorithms",
		"Use when: Data has connections/relationships",
	}},
}

// ExplainChoice describes what structure offers and when to use it.
// Unknown structures only get the heading.
func ExplainChoice(structure string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "WHY %s?\n\n", structure)

	e, ok := explainers[Canonical(structure)]
	if !ok {
		return b.String()
	}
	fmt.Fprintf(&b, "%s provides:\n", e.title)
	for _, line := range e.bullets {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return b.String()
}

// Compare renders a side-by-side comparison of two scores.
func Compare(a, b Score) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nCOMPARISON: %s vs %s\n", a.Structure, b.Structure)

	for _, c := range []struct {
		label  string
		va, vb float64
	}{
		{"Overall Scores", a.Total, b.Total},
		{"Time Efficiency", a.Time, b.Time},
		{"Space Efficiency", a.Space, b.Space},
		{"Suitability", a.Suitability, b.Suitability},
	} {
		fmt.Fprintf(&sb, "\n%s:\n", c.label)
		fmt.Fprintf(&sb, "  %s: %.2f/100\n", a.Structure, c.va)
		fmt.Fprintf(&sb, "  %s: %.2f/100\n", b.Structure, c.vb)
		fmt.Fprintf(&sb, "  Winner: %s\n", pick(a.Structure, b.Structure, c.va, c.vb))
	}
	return sb.String()
}

func pick(a, b string, va, vb float64) string {
	switch {
	case va > vb:
		return a
	case vb > va:
		return b
	default:
		return "Tie"
	}
}
