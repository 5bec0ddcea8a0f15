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

import "unsafe"

// Layout sizes shared by the EstimateMemory formulas.
const (
	pointerSize     = int64(unsafe.Sizeof(uintptr(0)))
	intSize         = int64(unsafe.Sizeof(int(0)))
	float64Size     = int64(unsafe.Sizeof(float64(0)))
	sliceHeaderSize = int64(unsafe.Sizeof([]byte(nil)))
)

// sizeOf returns the inline size of a T value.
//
// For strings this is the header size only; character data is not counted.
func sizeOf[T any]() int64 {
	var zero T
	return int64(unsafe.Sizeof(zero))
}
