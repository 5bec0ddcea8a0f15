// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package profile characterizes a dataset before it is benchmarked.
//
// A Profile records structural facts about the data (sortedness,
// sequential pattern, uniqueness, averages) plus caller-declared Intent.
// Analysis never sets Intent; callers overlay it with WithIntent.
package profile

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// DataType names the element type of a dataset.
type DataType string

const (
	TypeInteger DataType = "integer"
	TypeDouble  DataType = "double"
	TypeString  DataType = "string"
)

// Intent holds workload requirements declared by the caller.
type Intent struct {
	NeedsRangeQueries  bool `json:"needs_range_queries" yaml:"needs_range_queries"`
	NeedsPrefixSearch  bool `json:"needs_prefix_search" yaml:"needs_prefix_search"`
	NeedsPriorityQueue bool `json:"needs_priority_queue" yaml:"needs_priority_queue"`
	MemoryConstrained  bool `json:"memory_constrained" yaml:"memory_constrained"`
	SpeedCritical      bool `json:"speed_critical" yaml:"speed_critical"`
	HasRelationships   bool `json:"has_relationships" yaml:"has_relationships"`
	NeedsConnectivity  bool `json:"needs_connectivity" yaml:"needs_connectivity"`
}

// Profile describes one dataset.
type Profile struct {
	Size           int      `json:"size"`
	DataType       DataType `json:"data_type"`
	IsSorted       bool     `json:"is_sorted"`
	HasPattern     bool     `json:"has_pattern"`
	UniqueElements int      `json:"unique_elements"`
	HasDuplicates  bool     `json:"has_duplicates"`

	// AverageValue is the arithmetic mean for numeric data and the mean
	// length in bytes for strings.
	AverageValue float64 `json:"average_value"`

	// AverageStringLength is zero for numeric data.
	AverageStringLength float64 `json:"average_string_length"`

	Intent `json:"intent"`
}

// WithIntent returns a copy of p with intent replacing its flags.
func (p Profile) WithIntent(intent Intent) Profile {
	p.Intent = intent
	return p
}

// Analyze dispatches to the analyzer for T.
func Analyze[T int | float64 | string](data []T) Profile {
	switch d := any(data).(type) {
	case []int:
		return AnalyzeIntegers(d)
	case []float64:
		return AnalyzeDoubles(d)
	case []string:
		return AnalyzeStrings(d)
	}
	panic("unreachable")
}

// AnalyzeIntegers profiles integer data.
func AnalyzeIntegers(data []int) Profile {
	return analyzeNumeric(data, TypeInteger)
}

// AnalyzeDoubles profiles floating point data.
func AnalyzeDoubles(data []float64) Profile {
	return analyzeNumeric(data, TypeDouble)
}

func analyzeNumeric[T constraints.Integer | constraints.Float](data []T, typ DataType) Profile {
	p := Profile{Size: len(data), DataType: typ}
	if len(data) == 0 {
		return p
	}
	p.IsSorted = isSorted(data)
	p.HasPattern = hasSequentialPattern(data)
	p.UniqueElements = countUnique(data)
	p.HasDuplicates = p.UniqueElements < p.Size

	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	p.AverageValue = sum / float64(len(data))
	return p
}

// AnalyzeStrings profiles string data.
//
// HasPattern means every element shares the first byte of data[0]; it is
// false when any element, including the first, is empty.
func AnalyzeStrings(data []string) Profile {
	p := Profile{Size: len(data), DataType: TypeString}
	if len(data) == 0 {
		return p
	}
	p.IsSorted = isSorted(data)
	p.UniqueElements = countUnique(data)
	p.HasDuplicates = p.UniqueElements < p.Size

	var total int
	for _, s := range data {
		total += len(s)
	}
	p.AverageStringLength = float64(total) / float64(len(data))
	p.AverageValue = p.AverageStringLength

	if data[0] != "" {
		first := data[0][0]
		p.HasPattern = true
		for _, s := range data {
			if s == "" || s[0] != first {
				p.HasPattern = false
				break
			}
		}
	}
	return p
}

func isSorted[T constraints.Ordered](data []T) bool {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return false
		}
	}
	return true
}

// hasSequentialPattern holds when every step is exactly +1. It needs at
// least two elements.
func hasSequentialPattern[T constraints.Integer | constraints.Float](data []T) bool {
	if len(data) < 2 {
		return false
	}
	for i := 1; i < len(data); i++ {
		if data[i] != data[i-1]+1 {
			return false
		}
	}
	return true
}

func countUnique[T comparable](data []T) int {
	seen := make(map[T]struct{}, len(data))
	for _, v := range data {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// String renders the profile as a short report.
func (p Profile) String() string {
	var b strings.Builder
	b.WriteString("=== Data Profile ===\n")
	fmt.Fprintf(&b, "Size: %d\n", p.Size)
	fmt.Fprintf(&b, "Type: %s\n", p.DataType)
	fmt.Fprintf(&b, "Sorted: %s\n", yesNo(p.IsSorted))
	fmt.Fprintf(&b, "Has Pattern: %s\n", yesNo(p.HasPattern))
	fmt.Fprintf(&b, "Unique Elements: %d\n", p.UniqueElements)
	fmt.Fprintf(&b, "Has Duplicates: %s\n", yesNo(p.HasDuplicates))
	if p.DataType == TypeString {
		fmt.Fprintf(&b, "Avg String Length: %.6f\n", p.AverageStringLength)
	} else {
		fmt.Fprintf(&b, "Average Value: %.6f\n", p.AverageValue)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
