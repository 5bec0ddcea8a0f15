// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package container

import "errors"

var (
	// ErrEmptyContainer is returned by Peek, ExtractTop, Min and Max when the
	// container holds no elements.
	ErrEmptyContainer = errors.New("empty container")

	// ErrInvalidInput is returned when a value cannot be stored, such as an
	// empty word inserted into a Trie.
	ErrInvalidInput = errors.New("invalid input")
)
