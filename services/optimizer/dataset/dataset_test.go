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
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in      string
		want    profile.DataType
		wantErr bool
	}{
		{"int", profile.TypeInteger, false},
		{"Integer", profile.TypeInteger, false},
		{" double ", profile.TypeDouble, false},
		{"float", profile.TypeDouble, false},
		{"STRING", profile.TypeString, false},
		{"bool", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDataType(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownDataType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	t.Run("integers in range", func(t *testing.T) {
		ds, err := Generate(profile.TypeInteger, 500, r)
		require.NoError(t, err)
		require.Equal(t, 500, ds.Len())
		for _, v := range ds.Ints {
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, 100_000)
		}
	})

	t.Run("doubles in range", func(t *testing.T) {
		ds, err := Generate(profile.TypeDouble, 200, r)
		require.NoError(t, err)
		for _, v := range ds.Doubles {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 100_000.0)
		}
	})

	t.Run("strings cycle word pairs", func(t *testing.T) {
		ds, err := Generate(profile.TypeString, 8, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"apple0", "banana1", "catch2", "doggy3", "elephant4", "foxtrot5", "apple6", "banana7",
		}, ds.Strings)
	})

	t.Run("bounds", func(t *testing.T) {
		_, err := Generate(profile.TypeInteger, 0, r)
		assert.True(t, errors.Is(err, ErrEmptyDataset))
		_, err = Generate(profile.TypeInteger, MaxSize+1, r)
		assert.True(t, errors.Is(err, ErrDatasetTooLarge))
		_, err = Generate("bool", 10, r)
		assert.True(t, errors.Is(err, ErrUnknownDataType))
	})
}

func TestLoad(t *testing.T) {
	t.Run("mixed separators", func(t *testing.T) {
		res, err := Load(strings.NewReader("5, 3 8\n1,4\n\n  9\t10"), profile.TypeInteger)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 3, 8, 1, 4, 9, 10}, res.Dataset.Ints)
		assert.Zero(t, res.Skipped)
	})

	t.Run("bad tokens skipped", func(t *testing.T) {
		res, err := Load(strings.NewReader("1.5 abc 2e2 x,3"), profile.TypeDouble)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 200, 3}, res.Dataset.Doubles)
		assert.Equal(t, 2, res.Skipped)
	})

	t.Run("strings", func(t *testing.T) {
		res, err := Load(strings.NewReader("apple banana,cherry"), profile.TypeString)
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "banana", "cherry"}, res.Dataset.Strings)
	})

	t.Run("nothing parsed", func(t *testing.T) {
		_, err := Load(strings.NewReader("a b c"), profile.TypeInteger)
		assert.True(t, errors.Is(err, ErrEmptyDataset))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Load(strings.NewReader("1"), "bool")
		assert.True(t, errors.Is(err, ErrUnknownDataType))
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("3 1 2"), 0o644))

	res, err := LoadFile(path, profile.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Dataset.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"), profile.TypeInteger)
	assert.Error(t, err)
}

func TestDataset_ProfileAndBenchmark(t *testing.T) {
	ds := FromInts([]int{1, 2, 3, 4})
	p := ds.Profile()
	assert.True(t, p.IsSorted)
	assert.True(t, p.HasPattern)
	assert.Equal(t, 4, p.Size)

	mix, err := benchmark.NewOperationMix(50, 30, 20, 10)
	require.NoError(t, err)
	results, err := ds.Benchmark(context.Background(), mix, benchmark.WithSeed(3))
	require.NoError(t, err)
	assert.Len(t, results, 4)

	strs := FromStrings([]string{"apple", "apricot"})
	results, err = strs.Benchmark(context.Background(), mix, benchmark.WithSeed(3))
	require.NoError(t, err)
	assert.Contains(t, results, benchmark.StructureTrie)

	_, err = FromDoubles(nil).Benchmark(context.Background(), mix)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestWatcher_RunsHandlerOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))

	changed := make(chan string, 4)
	w, err := NewWatcher(path, func(_ context.Context, p string) {
		changed <- p
	}, &WatchOptions{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Writes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("1 2 3"), 0o644))

	select {
	case got := <-changed:
		assert.Equal(t, w.Path(), got)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.NoError(t, w.Close())
}
