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
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// Report metrics accepted by Winner.
const (
	MetricInsert = "insert"
	MetricSearch = "search"
	MetricDelete = "delete"
	MetricMemory = "memory"
	MetricTotal  = "total"
)

func metricValue(m *Metrics, metric string) (float64, bool) {
	switch metric {
	case MetricInsert:
		return m.InsertTime, true
	case MetricSearch:
		return m.SearchTime, true
	case MetricDelete:
		return m.DeleteTime, true
	case MetricMemory:
		return float64(m.MemoryBytes), true
	case MetricTotal:
		return m.TotalTime, true
	}
	return 0, false
}

// Winner returns the structure with the smallest positive value for
// metric, or "" if none qualifies. Ties go to the first name in order.
func Winner(results map[string]*Metrics, metric string) string {
	name, _ := winner(results, metric)
	return name
}

func winner(results map[string]*Metrics, metric string) (string, float64) {
	best := math.MaxFloat64
	var name string
	keys := maps.Keys(results)
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := metricValue(results[k], metric)
		if !ok {
			return "", 0
		}
		if v > 0 && v < best {
			best, name = v, k
		}
	}
	return name, best
}

// Report renders every structure summary followed by the winners.
func Report(results map[string]*Metrics) string {
	var b strings.Builder
	b.WriteString("\nPerformance Comparison:\n")

	keys := maps.Keys(results)
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(results[k].String())
		b.WriteString("\n")
	}

	b.WriteString("\nWinners:\n")
	for _, w := range []struct{ label, metric, unit string }{
		{"Fastest Insert", MetricInsert, "ms"},
		{"Fastest Search", MetricSearch, "ms"},
		{"Fastest Delete", MetricDelete, "ms"},
		{"Least Memory", MetricMemory, "bytes"},
	} {
		name, v := winner(results, w.metric)
		if name == "" {
			fmt.Fprintf(&b, "  %s: -\n", w.label)
			continue
		}
		if w.metric == MetricMemory {
			fmt.Fprintf(&b, "  %s: %s (%d %s)\n", w.label, name, int64(v), w.unit)
		} else {
			fmt.Fprintf(&b, "  %s: %s (%.6f %s)\n", w.label, name, v, w.unit)
		}
	}
	return b.String()
}
