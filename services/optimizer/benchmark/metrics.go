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
	"context"
	"fmt"
	"strings"
)

// Metrics holds the measurements of one structure in one run.
//
// Times are in milliseconds. Score is zero until a recommendation pass or
// an import fills it in.
type Metrics struct {
	Structure string `json:"structure"`
	DataSize  int    `json:"data_size"`

	InsertTime float64 `json:"insert_time_ms"`
	SearchTime float64 `json:"search_time_ms"`
	DeleteTime float64 `json:"delete_time_ms"`
	TotalTime  float64 `json:"total_time_ms"`

	InsertCount int `json:"insert_count"`
	SearchCount int `json:"search_count"`
	DeleteCount int `json:"delete_count"`

	MemoryBytes int64 `json:"memory_bytes"`

	Score float64 `json:"score"`
}

func average(total float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return total / float64(count)
}

func throughput(count int, ms float64) float64 {
	if ms <= 0 {
		return 0
	}
	return float64(count) / ms * 1000
}

// AvgInsertTime returns milliseconds per insert, or 0 with no inserts.
func (m *Metrics) AvgInsertTime() float64 { return average(m.InsertTime, m.InsertCount) }

// AvgSearchTime returns milliseconds per search, or 0 with no searches.
func (m *Metrics) AvgSearchTime() float64 { return average(m.SearchTime, m.SearchCount) }

// AvgDeleteTime returns milliseconds per delete, or 0 with no deletes.
func (m *Metrics) AvgDeleteTime() float64 { return average(m.DeleteTime, m.DeleteCount) }

// InsertThroughput returns inserts per second.
func (m *Metrics) InsertThroughput() float64 { return throughput(m.InsertCount, m.InsertTime) }

// SearchThroughput returns searches per second.
func (m *Metrics) SearchThroughput() float64 { return throughput(m.SearchCount, m.SearchTime) }

// DeleteThroughput returns deletes per second.
func (m *Metrics) DeleteThroughput() float64 { return throughput(m.DeleteCount, m.DeleteTime) }

// MemoryPerElement returns MemoryBytes / DataSize, or 0 for an empty dataset.
func (m *Metrics) MemoryPerElement() float64 {
	if m.DataSize <= 0 {
		return 0
	}
	return float64(m.MemoryBytes) / float64(m.DataSize)
}

// String renders a per-structure performance summary.
func (m *Metrics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s Performance Report:\n", m.Structure)
	fmt.Fprintf(&b, "Dataset: %d elements\n", m.DataSize)
	fmt.Fprintf(&b, "Total Time: %.6f ms\n", m.TotalTime)
	fmt.Fprintf(&b, "Memory: %d bytes (%.6f KB)\n", m.MemoryBytes, float64(m.MemoryBytes)/1024)
	if m.InsertCount > 0 {
		fmt.Fprintf(&b, "\nInsert: %d ops, %.6f ms (%.6f ms/op)\n", m.InsertCount, m.InsertTime, m.AvgInsertTime())
	}
	if m.SearchCount > 0 {
		fmt.Fprintf(&b, "Search: %d ops, %.6f ms (%.6f ms/op)\n", m.SearchCount, m.SearchTime, m.AvgSearchTime())
	}
	if m.DeleteCount > 0 {
		fmt.Fprintf(&b, "Delete: %d ops, %.6f ms (%.6f ms/op)\n", m.DeleteCount, m.DeleteTime, m.AvgDeleteTime())
	}
	fmt.Fprintf(&b, "Memory/element: %.6f bytes\n", m.MemoryPerElement())
	return b.String()
}

// ResultSink receives harness results as they are produced.
//
// Implementations must not block for long; they run between structures.
type ResultSink interface {
	// RecordMetrics is called once per structure that completed.
	RecordMetrics(ctx context.Context, m *Metrics)

	// RecordFailure is called once per structure that failed.
	RecordFailure(ctx context.Context, structure string, err error)
}
