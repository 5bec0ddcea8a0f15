// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

// Synthetic value ranges.
const (
	synthIntMax    = 100_000
	synthDoubleMax = 100_000.0
)

var (
	wordPrefixes = [...]string{"app", "ban", "cat", "dog", "ele", "fox"}
	wordSuffixes = [...]string{"le", "ana", "ch", "gy", "phant", "trot"}
)

// Generate builds a synthetic dataset of size elements.
//
// Description:
//
//	Integers are uniform in [1, 100000], doubles uniform in [0, 100000).
//	Strings cycle through six prefix and suffix pairs followed by the
//	index, e.g. "apple0", "banana1", ..., "foxtrot5", "apple6".
//
// Inputs:
//
//	typ - Element type.
//	size - Number of elements, 1 to MaxSize.
//	r - Random source. Nil seeds a fresh generator.
//
// Outputs:
//
//	*Dataset - The generated dataset.
//	error - ErrUnknownDataType, ErrEmptyDataset or ErrDatasetTooLarge.
func Generate(typ profile.DataType, size int, r *rand.Rand) (*Dataset, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrEmptyDataset, size)
	}
	if size > MaxSize {
		return nil, fmt.Errorf("%w: %d elements, maximum is %d", ErrDatasetTooLarge, size, MaxSize)
	}
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	switch typ {
	case profile.TypeInteger:
		data := make([]int, size)
		for i := range data {
			data[i] = 1 + r.IntN(synthIntMax)
		}
		return FromInts(data), nil
	case profile.TypeDouble:
		data := make([]float64, size)
		for i := range data {
			data[i] = r.Float64() * synthDoubleMax
		}
		return FromDoubles(data), nil
	case profile.TypeString:
		data := make([]string, size)
		for i := range data {
			k := i % len(wordPrefixes)
			data[i] = wordPrefixes[k] + wordSuffixes[k] + strconv.Itoa(i)
		}
		return FromStrings(data), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDataType, typ)
}
