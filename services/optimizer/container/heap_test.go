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
	"errors"
	"testing"
)

func TestHeap_MinOrdering(t *testing.T) {
	h := NewMinHeap[int]()
	for _, v := range []int{5, 3, 8, 1, 4, 9, 2} {
		h.Insert(v)
	}

	if got := h.Size(); got != 7 {
		t.Fatalf("Size() = %d, want 7", got)
	}

	want := []int{1, 2, 3, 4, 5, 8, 9}
	for i, w := range want {
		got, err := h.ExtractTop()
		if err != nil {
			t.Fatalf("ExtractTop() #%d error: %v", i, err)
		}
		if got != w {
			t.Errorf("ExtractTop() #%d = %d, want %d", i, got, w)
		}
	}
}

func TestHeap_MaxOrdering(t *testing.T) {
	h := NewMaxHeap[float64]()
	for _, v := range []float64{1.5, 9.25, -3, 4} {
		h.Insert(v)
	}
	top, err := h.Peek()
	if err != nil {
		t.Fatalf("Peek() error: %v", err)
	}
	if top != 9.25 {
		t.Errorf("Peek() = %v, want 9.25", top)
	}
	if h.IsMinHeap() {
		t.Error("IsMinHeap() = true, want false")
	}
}

func TestHeap_Empty(t *testing.T) {
	h := NewMinHeap[string]()

	if _, err := h.Peek(); !errors.Is(err, ErrEmptyContainer) {
		t.Errorf("Peek() error = %v, want ErrEmptyContainer", err)
	}
	if _, err := h.ExtractTop(); !errors.Is(err, ErrEmptyContainer) {
		t.Errorf("ExtractTop() error = %v, want ErrEmptyContainer", err)
	}
	if h.Height() != 0 {
		t.Errorf("Height() = %d, want 0", h.Height())
	}
	if h.Remove("x") {
		t.Error("Remove on empty heap returned true")
	}
}

func TestHeap_Remove(t *testing.T) {
	t.Run("middle element keeps invariant", func(t *testing.T) {
		h := NewMinHeap[int]()
		h.BuildHeap([]int{10, 20, 30, 40, 50, 60, 70, 35})

		if !h.Remove(40) {
			t.Fatal("Remove(40) = false, want true")
		}
		if h.Search(40) {
			t.Error("Search(40) after removal = true")
		}
		assertHeapOrdered(t, h)
	})

	t.Run("last element", func(t *testing.T) {
		h := NewMinHeap[int]()
		h.BuildHeap([]int{1, 2, 3})
		if !h.Remove(3) {
			t.Fatal("Remove(3) = false")
		}
		if h.Size() != 2 {
			t.Errorf("Size() = %d, want 2", h.Size())
		}
	})

	t.Run("missing value", func(t *testing.T) {
		h := NewMinHeap[int]()
		h.Insert(1)
		if h.Remove(2) {
			t.Error("Remove(2) = true, want false")
		}
	})
}

func TestHeap_BuildHeapAndHeight(t *testing.T) {
	h := NewMaxHeap[int]()
	h.BuildHeap([]int{3, 1, 4, 1, 5, 9, 2, 6})
	assertHeapOrdered(t, h)

	if got := h.Height(); got != 3 {
		t.Errorf("Height() = %d, want 3", got)
	}
	if got := h.EstimateMemory(); got != 8*sizeOf[int]() {
		t.Errorf("EstimateMemory() = %d, want %d", got, 8*sizeOf[int]())
	}

	elems := h.Elements()
	elems[0] = -1
	if top, _ := h.Peek(); top != 9 {
		t.Errorf("Elements() must return a copy; Peek() = %d", top)
	}
}

func assertHeapOrdered[T int | float64 | string](t *testing.T, h *Heap[T]) {
	t.Helper()
	items := h.Elements()
	for i := 1; i < len(items); i++ {
		parent := (i - 1) / 2
		if h.above(items[i], items[parent]) {
			t.Fatalf("heap order violated at %d: parent %v child %v", i, items[parent], items[i])
		}
	}
}
