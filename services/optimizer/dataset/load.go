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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/AleutianAI/dsoptimizer/pkg/logging"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

const maxLineBytes = 16 << 20

// LoadResult is a parsed dataset plus the number of discarded tokens.
type LoadResult struct {
	Dataset *Dataset
	Skipped int
}

// Load parses a dataset from r.
//
// Description:
//
//	Tokens are separated by whitespace or commas, across any number of
//	lines. Tokens that do not parse as typ are skipped and counted.
//
// Outputs:
//
//	*LoadResult - The dataset and skipped-token count.
//	error - ErrUnknownDataType, ErrEmptyDataset if nothing parsed,
//	        ErrDatasetTooLarge, or a read error.
func Load(r io.Reader, typ profile.DataType) (*LoadResult, error) {
	if _, err := ParseDataType(string(typ)); err != nil {
		return nil, err
	}

	ds := &Dataset{Type: typ}
	res := &LoadResult{Dataset: ds}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		for _, tok := range strings.FieldsFunc(sc.Text(), isSeparator) {
			if !ds.append(tok) {
				res.Skipped++
				continue
			}
			if ds.Len() > MaxSize {
				return nil, fmt.Errorf("%w: more than %d elements", ErrDatasetTooLarge, MaxSize)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: %d tokens skipped", ErrEmptyDataset, res.Skipped)
	}
	return res, nil
}

// LoadFile parses the dataset stored at path. A leading "~" is expanded.
func LoadFile(path string, typ profile.DataType) (*LoadResult, error) {
	f, err := os.Open(logging.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Load(f, typ)
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

func (d *Dataset) append(tok string) bool {
	switch d.Type {
	case profile.TypeInteger:
		v, err := strconv.Atoi(tok)
		if err != nil {
			return false
		}
		d.Ints = append(d.Ints, v)
	case profile.TypeDouble:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return false
		}
		d.Doubles = append(d.Doubles, v)
	default:
		d.Strings = append(d.Strings, tok)
	}
	return true
}
