// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package container provides the five generic containers exercised by the
// optimizer benchmark: an unbalanced binary search Tree, a binary Heap, a
// separate-chaining HashTable, a byte-keyed Trie and an adjacency-list Graph.
//
// # Common Surface
//
// Every container exposes Insert, Search, Remove, Size and EstimateMemory.
// Search returning false is a normal outcome. Conditions that are real
// failures surface as errors wrapping ErrEmptyContainer or ErrInvalidInput.
//
// # Memory Estimates
//
// EstimateMemory reports a layout-based approximation in bytes, not a
// measurement of the Go heap. The formulas count value slots, pointers and
// slice headers using unsafe.Sizeof so results are comparable across
// containers of the same element type.
//
// # Thread Safety
//
// Containers are not safe for concurrent use. Each benchmark run owns its
// own instances.
package container
