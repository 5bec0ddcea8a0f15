// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

// scoreTable renders a ranking.
func scoreTable(scores []recommend.Score) string {
	rows := make([][]string, 0, len(scores))
	for i, s := range scores {
		rows = append(rows, []string{
			fmt.Sprint(i + 1), s.Structure, f2(s.Total), f2(s.Time), f2(s.Space), f2(s.Suitability),
		})
	}
	return ux.Table([]string{"Rank", "Structure", "Total", "Time", "Space", "Suitability"}, rows)
}

// importedTable renders imported rows, which carry no sub-scores.
func importedTable(rows []*benchmark.Metrics) string {
	out := make([][]string, 0, len(rows))
	for i, m := range rows {
		out = append(out, []string{
			fmt.Sprint(i + 1), m.Structure, fmt.Sprint(m.DataSize),
			f2(m.TotalTime), fmt.Sprint(m.MemoryBytes), f2(m.Score),
		})
	}
	return ux.Table([]string{"Rank", "Structure", "Size", "Total ms", "Memory B", "Score"}, out)
}

// metricsTable renders raw timings in structure-name order.
func metricsTable(results map[string]*benchmark.Metrics) string {
	names := maps.Keys(results)
	slices.Sort(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		m := results[name]
		rows = append(rows, []string{
			name, f2(m.InsertTime), f2(m.SearchTime), f2(m.DeleteTime), f2(m.TotalTime), fmt.Sprint(m.MemoryBytes),
		})
	}
	return ux.Table([]string{"Structure", "Insert ms", "Search ms", "Delete ms", "Total ms", "Memory B"}, rows)
}

// historyTable renders run summaries.
func historyTable(runs []*storage.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), string(r.DataType),
			fmt.Sprint(r.Profile.Size), r.Winner(), r.Source,
		})
	}
	return ux.Table([]string{"ID", "Created", "Type", "Size", "Winner", "Source"}, rows)
}

// printRun prints everything a finished run produced.
func printRun(run *storage.Run, compare []string) {
	ux.Title("Dataset profile")
	ux.Plain(run.Profile.String() + "\n")

	ux.Title("Benchmark results")
	ux.Plain(metricsTable(run.Metrics))

	ux.Title("Ranking")
	ux.Plain(scoreTable(run.Scores))
	ux.Plain(recommend.Recommendation(run.Scores))

	if len(compare) == 2 {
		a, okA := findScore(run.Scores, compare[0])
		b, okB := findScore(run.Scores, compare[1])
		switch {
		case okA && okB:
			ux.Plain(recommend.Compare(a, b))
		default:
			ux.Warning(fmt.Sprintf("cannot compare %s: structure not in results", strings.Join(compare, " and ")))
		}
	}
}

func findScore(scores []recommend.Score, name string) (recommend.Score, bool) {
	name = recommend.Canonical(name)
	for _, s := range scores {
		if strings.EqualFold(s.Structure, name) {
			return s, true
		}
	}
	return recommend.Score{}, false
}
