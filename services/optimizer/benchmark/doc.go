// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package benchmark drives the optimizer containers through a uniform
// insert, search and delete workload and records timing and memory.
//
// # Phases
//
// For each structure the Harness runs six phases:
//
//  1. Bulk-insert the dataset.
//  2. Search keys drawn with replacement from the dataset.
//  3. Insert values guaranteed not to be in the dataset.
//  4. Remove keys drawn with replacement from the dataset.
//  5. Estimate the memory footprint from the structure layout.
//  6. Sum insert, search and delete time.
//
// Phases 2 to 4 run only when their share of the OperationMix is positive.
// Key and value generation happens outside the timed closures.
//
// # Failures
//
// RunAll isolates structures: a structure that returns an error or panics
// is logged at Warn and left out of the result map.
//
// # Export
//
// WriteCSV and ReadCSV implement the results table format. Numbers are
// written with '.' as decimal separator; the reader also accepts ','.
package benchmark
