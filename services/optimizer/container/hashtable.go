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

import (
	"hash/maphash"
	"log/slog"

	"golang.org/x/exp/constraints"
)

// Default HashTable parameters.
const (
	DefaultCapacity      = 16
	DefaultMaxLoadFactor = 0.75
)

// Hasher maps a key to a bucket-independent hash value.
//
// The table reduces the value modulo its capacity, so implementations must
// be deterministic for the lifetime of the table.
type Hasher[K comparable] interface {
	Hash(key K) uint64
}

// IntegerHasher hashes signed integers by absolute value.
type IntegerHasher[K constraints.Signed] struct{}

// Hash returns |key|. The minimum value of K does not overflow.
func (IntegerHasher[K]) Hash(key K) uint64 {
	if key < 0 {
		return uint64(-(key + 1)) + 1
	}
	return uint64(key)
}

// StringHasher is the djb2 polynomial rolling hash (seed 5381, multiplier 33).
type StringHasher struct{}

// Hash folds the bytes of key into the djb2 accumulator.
func (StringHasher) Hash(key string) uint64 {
	h := uint64(5381)
	for i := 0; i < len(key); i++ {
		h = h*33 + uint64(key[i])
	}
	return h
}

// GenericHasher hashes any comparable key with a per-table maphash seed.
type GenericHasher[K comparable] struct {
	seed maphash.Seed
}

// NewGenericHasher creates a hasher with a fresh random seed.
func NewGenericHasher[K comparable]() GenericHasher[K] {
	return GenericHasher[K]{seed: maphash.MakeSeed()}
}

// Hash returns maphash.Comparable for key.
func (g GenericHasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(g.seed, key)
}

// DefaultHasher selects the hasher for K: IntegerHasher for signed integer
// kinds, StringHasher for strings and GenericHasher for everything else.
func DefaultHasher[K comparable]() Hasher[K] {
	var zero K
	var h any
	switch any(zero).(type) {
	case int:
		h = IntegerHasher[int]{}
	case int8:
		h = IntegerHasher[int8]{}
	case int16:
		h = IntegerHasher[int16]{}
	case int32:
		h = IntegerHasher[int32]{}
	case int64:
		h = IntegerHasher[int64]{}
	case string:
		h = StringHasher{}
	default:
		return NewGenericHasher[K]()
	}
	return h.(Hasher[K])
}

// -----------------------------------------------------------------------------
// HashTable
// -----------------------------------------------------------------------------

type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// HashTableOption configures a HashTable.
type HashTableOption[K comparable] func(*hashTableConfig[K])

type hashTableConfig[K comparable] struct {
	capacity      int
	maxLoadFactor float64
	hasher        Hasher[K]
	logger        *slog.Logger
}

// WithCapacity sets the initial bucket count. Non-positive values keep the default.
func WithCapacity[K comparable](n int) HashTableOption[K] {
	return func(c *hashTableConfig[K]) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithMaxLoadFactor sets the rehash threshold. Non-positive values keep the default.
func WithMaxLoadFactor[K comparable](f float64) HashTableOption[K] {
	return func(c *hashTableConfig[K]) {
		if f > 0 {
			c.maxLoadFactor = f
		}
	}
}

// WithHasher overrides DefaultHasher.
func WithHasher[K comparable](h Hasher[K]) HashTableOption[K] {
	return func(c *hashTableConfig[K]) {
		if h != nil {
			c.hasher = h
		}
	}
}

// WithRehashLogger logs each rehash at Debug level.
func WithRehashLogger[K comparable](l *slog.Logger) HashTableOption[K] {
	return func(c *hashTableConfig[K]) {
		c.logger = l
	}
}

// HashTable is a separate-chaining hash map.
//
// Description:
//
//	Each bucket holds a singly linked chain with new entries at the head.
//	The load factor (size / capacity) never exceeds the configured maximum
//	after an insert: when an insert of a new key would cross it, capacity
//	doubles and every entry is re-inserted before the new key is stored.
//	Inserting an existing key overwrites its value in place.
//
// Performance:
//
//	Insert is amortized O(1). An insert that triggers a rehash is O(n).
//
// Thread Safety:
//
//	Not safe for concurrent use.
type HashTable[K comparable, V any] struct {
	buckets       []*entry[K, V]
	size          int
	maxLoadFactor float64
	hasher        Hasher[K]
	logger        *slog.Logger
}

// NewHashTable creates an empty table.
//
// Example:
//
//	ht := container.NewHashTable[string, int](container.WithCapacity[string](64))
//	ht.Insert("apple", 1)
func NewHashTable[K comparable, V any](opts ...HashTableOption[K]) *HashTable[K, V] {
	cfg := hashTableConfig[K]{
		capacity:      DefaultCapacity,
		maxLoadFactor: DefaultMaxLoadFactor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasher == nil {
		cfg.hasher = DefaultHasher[K]()
	}
	return &HashTable[K, V]{
		buckets:       make([]*entry[K, V], cfg.capacity),
		maxLoadFactor: cfg.maxLoadFactor,
		hasher:        cfg.hasher,
		logger:        cfg.logger,
	}
}

func (h *HashTable[K, V]) bucket(key K) int {
	return int(h.hasher.Hash(key) % uint64(len(h.buckets)))
}

func (h *HashTable[K, V]) find(key K) *entry[K, V] {
	for e := h.buckets[h.bucket(key)]; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

// Insert stores value under key, overwriting any existing value.
func (h *HashTable[K, V]) Insert(key K, value V) {
	if e := h.find(key); e != nil {
		e.value = value
		return
	}
	if float64(h.size+1)/float64(len(h.buckets)) > h.maxLoadFactor {
		h.rehash()
	}
	b := h.bucket(key)
	h.buckets[b] = &entry[K, V]{key: key, value: value, next: h.buckets[b]}
	h.size++
}

// rehash doubles capacity until one more entry fits under the threshold and
// rebuilds every chain.
func (h *HashTable[K, V]) rehash() {
	oldCap := len(h.buckets)
	newCap := oldCap * 2
	for float64(h.size+1)/float64(newCap) > h.maxLoadFactor {
		newCap *= 2
	}
	old := h.buckets
	h.buckets = make([]*entry[K, V], newCap)
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			b := h.bucket(e.key)
			e.next = h.buckets[b]
			h.buckets[b] = e
			e = next
		}
	}
	if h.logger != nil {
		h.logger.Debug("hash table rehashed",
			slog.Int("old_capacity", oldCap),
			slog.Int("new_capacity", newCap),
			slog.Int("size", h.size))
	}
}

// Search returns the value stored under key.
func (h *HashTable[K, V]) Search(key K) (V, bool) {
	if e := h.find(key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is stored.
func (h *HashTable[K, V]) Contains(key K) bool {
	return h.find(key) != nil
}

// Remove unlinks key from its chain.
func (h *HashTable[K, V]) Remove(key K) bool {
	b := h.bucket(key)
	var prev *entry[K, V]
	for e := h.buckets[b]; e != nil; e = e.next {
		if e.key != key {
			prev = e
			continue
		}
		if prev == nil {
			h.buckets[b] = e.next
		} else {
			prev.next = e.next
		}
		h.size--
		return true
	}
	return false
}

// Size returns the number of stored keys.
func (h *HashTable[K, V]) Size() int { return h.size }

// IsEmpty reports whether no keys are stored.
func (h *HashTable[K, V]) IsEmpty() bool { return h.size == 0 }

// Capacity returns the current bucket count.
func (h *HashTable[K, V]) Capacity() int { return len(h.buckets) }

// LoadFactor returns size / capacity.
func (h *HashTable[K, V]) LoadFactor() float64 {
	return float64(h.size) / float64(len(h.buckets))
}

// MaxLoadFactor returns the rehash threshold.
func (h *HashTable[K, V]) MaxLoadFactor() float64 { return h.maxLoadFactor }

// Clear drops every entry and keeps the current capacity.
func (h *HashTable[K, V]) Clear() {
	clear(h.buckets)
	h.size = 0
}

// Keys returns every key in bucket order.
func (h *HashTable[K, V]) Keys() []K {
	keys := make([]K, 0, h.size)
	for _, head := range h.buckets {
		for e := head; e != nil; e = e.next {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// CollisionStats summarizes chain lengths.
type CollisionStats struct {
	// NonEmptyBuckets is the number of buckets holding at least one entry.
	NonEmptyBuckets int `json:"non_empty_buckets"`

	// MaxChainLength is the longest chain.
	MaxChainLength int `json:"max_chain_length"`

	// AverageChainLength is the mean over non-empty buckets.
	AverageChainLength float64 `json:"average_chain_length"`

	// Collisions counts entries beyond the first in each bucket.
	Collisions int `json:"collisions"`
}

// CollisionStats walks every chain.
func (h *HashTable[K, V]) CollisionStats() CollisionStats {
	var s CollisionStats
	for _, head := range h.buckets {
		n := 0
		for e := head; e != nil; e = e.next {
			n++
		}
		if n == 0 {
			continue
		}
		s.NonEmptyBuckets++
		s.Collisions += n - 1
		s.MaxChainLength = max(s.MaxChainLength, n)
	}
	if s.NonEmptyBuckets > 0 {
		s.AverageChainLength = float64(h.size) / float64(s.NonEmptyBuckets)
	}
	return s
}

// EstimateMemory returns buckets * pointer + entries * (key + value + next pointer).
func (h *HashTable[K, V]) EstimateMemory() int64 {
	return int64(len(h.buckets))*pointerSize +
		int64(h.size)*(sizeOf[K]()+sizeOf[V]()+pointerSize)
}
