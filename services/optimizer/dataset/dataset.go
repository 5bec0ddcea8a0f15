// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset loads, generates and watches benchmark datasets.
//
// A Dataset holds exactly one homogeneous sequence of integers, doubles
// or strings, and knows how to profile and benchmark itself.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

// MaxSize is the largest dataset accepted.
const MaxSize = 10_000_000

var (
	// ErrEmptyDataset indicates a dataset with no usable elements.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrDatasetTooLarge indicates a dataset above MaxSize elements.
	ErrDatasetTooLarge = errors.New("dataset too large")

	// ErrUnknownDataType indicates a data type other than integer, double or string.
	ErrUnknownDataType = errors.New("unknown data type")
)

// ParseDataType accepts "int", "integer", "double", "float" and "string",
// in any case.
func ParseDataType(s string) (profile.DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer":
		return profile.TypeInteger, nil
	case "double", "float", "float64":
		return profile.TypeDouble, nil
	case "string", "str":
		return profile.TypeString, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataType, s)
}

// Dataset is a typed sequence of elements. Only the slice matching Type
// is populated.
type Dataset struct {
	Type    profile.DataType `json:"type"`
	Ints    []int            `json:"ints,omitempty"`
	Doubles []float64        `json:"doubles,omitempty"`
	Strings []string         `json:"strings,omitempty"`
}

// FromInts wraps data as an integer dataset.
func FromInts(data []int) *Dataset { return &Dataset{Type: profile.TypeInteger, Ints: data} }

// FromDoubles wraps data as a double dataset.
func FromDoubles(data []float64) *Dataset { return &Dataset{Type: profile.TypeDouble, Doubles: data} }

// FromStrings wraps data as a string dataset.
func FromStrings(data []string) *Dataset { return &Dataset{Type: profile.TypeString, Strings: data} }

// Len returns the number of elements.
func (d *Dataset) Len() int {
	switch d.Type {
	case profile.TypeInteger:
		return len(d.Ints)
	case profile.TypeDouble:
		return len(d.Doubles)
	case profile.TypeString:
		return len(d.Strings)
	}
	return 0
}

// Validate checks the type and size bounds.
func (d *Dataset) Validate() error {
	if _, err := ParseDataType(string(d.Type)); err != nil {
		return err
	}
	n := d.Len()
	if n == 0 {
		return ErrEmptyDataset
	}
	if n > MaxSize {
		return fmt.Errorf("%w: %d elements, maximum is %d", ErrDatasetTooLarge, n, MaxSize)
	}
	return nil
}

// Profile analyzes the dataset.
func (d *Dataset) Profile() profile.Profile {
	switch d.Type {
	case profile.TypeInteger:
		return profile.AnalyzeIntegers(d.Ints)
	case profile.TypeDouble:
		return profile.AnalyzeDoubles(d.Doubles)
	default:
		return profile.AnalyzeStrings(d.Strings)
	}
}

// Benchmark runs every applicable structure against the dataset.
//
// Outputs:
//
//	map[string]*benchmark.Metrics - Results keyed by structure name.
//	error - From Validate, harness construction or the run precheck.
func (d *Dataset) Benchmark(ctx context.Context, mix benchmark.OperationMix, opts ...benchmark.RunOption) (map[string]*benchmark.Metrics, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	switch d.Type {
	case profile.TypeInteger:
		return run(ctx, d.Ints, mix, opts)
	case profile.TypeDouble:
		return run(ctx, d.Doubles, mix, opts)
	default:
		return run(ctx, d.Strings, mix, opts)
	}
}

func run[T benchmark.Element](ctx context.Context, data []T, mix benchmark.OperationMix, opts []benchmark.RunOption) (map[string]*benchmark.Metrics, error) {
	h, err := benchmark.NewHarness[T](opts...)
	if err != nil {
		return nil, err
	}
	return h.RunAll(ctx, data, mix)
}
