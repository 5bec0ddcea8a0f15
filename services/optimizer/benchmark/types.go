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
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/container"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidConfig indicates an operation mix or harness option is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBenchmarkFailed indicates a single structure could not complete.
	ErrBenchmarkFailed = errors.New("benchmark failed")

	// ErrImportFailed indicates no row of a results file could be parsed.
	ErrImportFailed = errors.New("import failed")

	// ErrBinaryFile indicates a results file contains NUL bytes.
	ErrBinaryFile = errors.New("file appears to be binary")

	// ErrMissingHeader indicates a results file lacks recognizable columns.
	ErrMissingHeader = errors.New("header does not match the results format")
)

// -----------------------------------------------------------------------------
// Structure names
// -----------------------------------------------------------------------------

// Names of the benchmarked structures as they appear in results.
const (
	StructureBST       = "BST"
	StructureHashTable = "HashTable"
	StructureHeap      = "Heap"
	StructureTrie      = "Trie"
	StructureGraph     = "Graph"
)

// Element is the set of dataset element types the harness accepts.
type Element interface {
	int | float64 | string
}

// -----------------------------------------------------------------------------
// Operation mix
// -----------------------------------------------------------------------------

// OperationMix is the declared split of a benchmark workload.
//
// The three percentages must each lie in [0, 100] and sum to exactly 100.
// TotalOperations must lie in [1, MaxTotalOperations].
type OperationMix struct {
	SearchPercent   int `json:"search_percent" yaml:"search_percent"`
	InsertPercent   int `json:"insert_percent" yaml:"insert_percent"`
	DeletePercent   int `json:"delete_percent" yaml:"delete_percent"`
	TotalOperations int `json:"total_operations" yaml:"total_operations"`
}

// MaxTotalOperations bounds OperationMix.TotalOperations: twice the largest
// accepted dataset. It keeps total * percent well inside int and caps the
// key and value slices a run allocates.
const MaxTotalOperations = 20_000_000

// NewOperationMix builds and validates a mix.
//
// Example:
//
//	mix, err := benchmark.NewOperationMix(50, 30, 20, 10)
func NewOperationMix(search, insert, del, total int) (OperationMix, error) {
	m := OperationMix{
		SearchPercent:   search,
		InsertPercent:   insert,
		DeletePercent:   del,
		TotalOperations: total,
	}
	if err := m.Validate(); err != nil {
		return OperationMix{}, err
	}
	return m, nil
}

// Validate checks the mix. It never corrects values.
func (m OperationMix) Validate() error {
	for _, p := range []int{m.SearchPercent, m.InsertPercent, m.DeletePercent} {
		if p < 0 || p > 100 {
			return fmt.Errorf("%w: percentage %d out of range [0,100]", ErrInvalidConfig, p)
		}
	}
	if sum := m.SearchPercent + m.InsertPercent + m.DeletePercent; sum != 100 {
		return fmt.Errorf("%w: percentages sum to %d, want 100", ErrInvalidConfig, sum)
	}
	if m.TotalOperations <= 0 {
		return fmt.Errorf("%w: total operations must be positive, got %d", ErrInvalidConfig, m.TotalOperations)
	}
	if m.TotalOperations > MaxTotalOperations {
		return fmt.Errorf("%w: total operations %d exceeds maximum %d",
			ErrInvalidConfig, m.TotalOperations, MaxTotalOperations)
	}
	return nil
}

// SearchCount returns total * search% / 100, truncated.
func (m OperationMix) SearchCount() int { return m.TotalOperations * m.SearchPercent / 100 }

// InsertCount returns total * insert% / 100, truncated.
func (m OperationMix) InsertCount() int { return m.TotalOperations * m.InsertPercent / 100 }

// DeleteCount returns total * delete% / 100, truncated.
func (m OperationMix) DeleteCount() int { return m.TotalOperations * m.DeletePercent / 100 }

// -----------------------------------------------------------------------------
// Harness configuration
// -----------------------------------------------------------------------------

// ProgressFunc receives coarse progress updates. percent is in [0, 100].
type ProgressFunc func(percent int, message string)

// Config controls a Harness.
type Config struct {
	// Rand is the generator for key draws and novel values. When nil a
	// generator seeded from Seed (or from runtime entropy if Seed is zero)
	// is created.
	Rand *rand.Rand

	// Seed seeds the generator when Rand is nil. Zero means non-deterministic.
	Seed uint64

	// Progress is optional.
	Progress ProgressFunc

	// Logger receives phase and failure logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Sink receives per-structure results and failures. Optional.
	Sink ResultSink

	// MinHeap selects min-heap ordering for the Heap structure.
	MinHeap bool

	// DirectedGraph builds the Graph structure as a directed graph.
	DirectedGraph bool

	// HashCapacity is the initial HashTable bucket count.
	HashCapacity int

	// HashMaxLoadFactor is the HashTable rehash threshold.
	HashMaxLoadFactor float64
}

// DefaultConfig returns the harness defaults: max-heap, undirected graph,
// default hash table parameters, no progress reporting.
func DefaultConfig() *Config {
	return &Config{
		Logger:            slog.Default(),
		HashCapacity:      container.DefaultCapacity,
		HashMaxLoadFactor: container.DefaultMaxLoadFactor,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.HashCapacity <= 0 {
		return fmt.Errorf("%w: hash capacity must be positive, got %d", ErrInvalidConfig, c.HashCapacity)
	}
	if c.HashMaxLoadFactor <= 0 || c.HashMaxLoadFactor > 10 {
		return fmt.Errorf("%w: hash max load factor must be in (0,10], got %v", ErrInvalidConfig, c.HashMaxLoadFactor)
	}
	return nil
}

// RunOption configures a Harness. Options apply in order.
type RunOption func(*Config)

// WithSeed makes key draws reproducible. Zero keeps non-deterministic seeding.
func WithSeed(seed uint64) RunOption {
	return func(c *Config) { c.Seed = seed }
}

// WithRand supplies the generator directly. Nil values are ignored.
//
// The generator must not be shared with a concurrently running harness.
func WithRand(r *rand.Rand) RunOption {
	return func(c *Config) {
		if r != nil {
			c.Rand = r
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) RunOption {
	return func(c *Config) { c.Progress = fn }
}

// WithLogger sets the logger. Nil values are ignored.
func WithLogger(l *slog.Logger) RunOption {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithSink installs a result sink.
func WithSink(s ResultSink) RunOption {
	return func(c *Config) { c.Sink = s }
}

// WithMinHeap selects min-heap ordering.
func WithMinHeap(enabled bool) RunOption {
	return func(c *Config) { c.MinHeap = enabled }
}

// WithDirectedGraph selects a directed graph.
func WithDirectedGraph(enabled bool) RunOption {
	return func(c *Config) { c.DirectedGraph = enabled }
}

// WithHashTable sets the initial capacity and rehash threshold.
func WithHashTable(capacity int, maxLoadFactor float64) RunOption {
	return func(c *Config) {
		c.HashCapacity = capacity
		c.HashMaxLoadFactor = maxLoadFactor
	}
}
