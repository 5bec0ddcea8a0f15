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
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Heap is a binary heap stored as an implicit tree in a slice.
//
// Description:
//
//	The mode flag fixed at construction selects min-heap or max-heap
//	ordering. Between operations every parent compares <= (min) or >= (max)
//	all of its descendants.
//
// Performance:
//
//	| Operation  | Cost     |
//	|------------|----------|
//	| Insert     | O(log n) |
//	| Peek       | O(1)     |
//	| ExtractTop | O(log n) |
//	| Remove     | O(n)     |
//	| Search     | O(n)     |
//	| BuildHeap  | O(n)     |
type Heap[T constraints.Ordered] struct {
	items []T
	min   bool
}

// NewHeap creates an empty heap. isMin selects min-heap ordering.
func NewHeap[T constraints.Ordered](isMin bool) *Heap[T] {
	return &Heap[T]{min: isMin}
}

// NewMinHeap creates an empty min-heap.
func NewMinHeap[T constraints.Ordered]() *Heap[T] {
	return NewHeap[T](true)
}

// NewMaxHeap creates an empty max-heap.
func NewMaxHeap[T constraints.Ordered]() *Heap[T] {
	return NewHeap[T](false)
}

// above reports whether a belongs closer to the root than b.
func (h *Heap[T]) above(a, b T) bool {
	if h.min {
		return a < b
	}
	return a > b
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.above(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		top := i
		l, r := 2*i+1, 2*i+2
		if l < n && h.above(h.items[l], h.items[top]) {
			top = l
		}
		if r < n && h.above(h.items[r], h.items[top]) {
			top = r
		}
		if top == i {
			return
		}
		h.items[i], h.items[top] = h.items[top], h.items[i]
		i = top
	}
}

// Insert appends value and sifts it up.
func (h *Heap[T]) Insert(value T) {
	h.items = append(h.items, value)
	h.siftUp(len(h.items) - 1)
}

// Peek returns the root without removing it.
func (h *Heap[T]) Peek() (T, error) {
	if len(h.items) == 0 {
		var zero T
		return zero, fmt.Errorf("heap peek: %w", ErrEmptyContainer)
	}
	return h.items[0], nil
}

// ExtractTop removes and returns the root.
//
// The last element moves to the root and is sifted down.
func (h *Heap[T]) ExtractTop() (T, error) {
	if len(h.items) == 0 {
		var zero T
		return zero, fmt.Errorf("heap extract: %w", ErrEmptyContainer)
	}
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top, nil
}

// Remove deletes one occurrence of value found by linear scan.
//
// The slot is filled with the last element, which is then sifted in both
// directions since it may belong above or below its new position.
func (h *Heap[T]) Remove(value T) bool {
	idx := h.indexOf(value)
	if idx < 0 {
		return false
	}
	last := len(h.items) - 1
	h.items[idx] = h.items[last]
	h.items = h.items[:last]
	if idx < len(h.items) {
		h.siftUp(idx)
		h.siftDown(idx)
	}
	return true
}

// Search reports whether value is held. It scans linearly.
func (h *Heap[T]) Search(value T) bool {
	return h.indexOf(value) >= 0
}

func (h *Heap[T]) indexOf(value T) int {
	for i, v := range h.items {
		if v == value {
			return i
		}
	}
	return -1
}

// BuildHeap replaces the contents with values and heapifies bottom up.
func (h *Heap[T]) BuildHeap(values []T) {
	h.items = append(h.items[:0], values...)
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

// Size returns the number of held elements.
func (h *Heap[T]) Size() int { return len(h.items) }

// IsEmpty reports whether the heap holds no elements.
func (h *Heap[T]) IsEmpty() bool { return len(h.items) == 0 }

// IsMinHeap reports the ordering mode.
func (h *Heap[T]) IsMinHeap() bool { return h.min }

// Clear drops every element.
func (h *Heap[T]) Clear() { h.items = h.items[:0] }

// Height returns floor(log2(n)), or 0 for an empty heap.
func (h *Heap[T]) Height() int {
	if len(h.items) == 0 {
		return 0
	}
	return bits.Len(uint(len(h.items))) - 1
}

// Elements returns a copy of the backing slice in heap order.
func (h *Heap[T]) Elements() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

// EstimateMemory returns size * value size for the flat backing array.
func (h *Heap[T]) EstimateMemory() int64 {
	return int64(len(h.items)) * sizeOf[T]()
}
