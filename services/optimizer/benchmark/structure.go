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
	"github.com/AleutianAI/dsoptimizer/services/optimizer/container"
)

// Structure is the common surface the harness drives.
type Structure[T Element] interface {
	Name() string
	Insert(v T) error
	Search(v T) bool
	Remove(v T) bool
	Size() int
	EstimateMemory() int64
}

// loader is implemented by structures whose initial load differs from
// repeated Insert calls.
type loader[T Element] interface {
	Load(data []T) error
}

// -----------------------------------------------------------------------------
// Adapters
// -----------------------------------------------------------------------------

type treeStructure[T Element] struct{ *container.Tree[T] }

func (treeStructure[T]) Name() string { return StructureBST }

func (s treeStructure[T]) Insert(v T) error {
	s.Tree.Insert(v)
	return nil
}

type heapStructure[T Element] struct{ *container.Heap[T] }

func (heapStructure[T]) Name() string { return StructureHeap }

func (s heapStructure[T]) Insert(v T) error {
	s.Heap.Insert(v)
	return nil
}

// hashStructure stores every value as both key and value.
type hashStructure[T Element] struct{ *container.HashTable[T, T] }

func (hashStructure[T]) Name() string { return StructureHashTable }

func (s hashStructure[T]) Insert(v T) error {
	s.HashTable.Insert(v, v)
	return nil
}

func (s hashStructure[T]) Search(v T) bool {
	_, ok := s.HashTable.Search(v)
	return ok
}

type trieStructure struct{ *container.Trie }

func (trieStructure) Name() string { return StructureTrie }

// graphStructure treats values as vertices. The initial load also links
// consecutive dataset elements with an edge.
type graphStructure[T Element] struct{ *container.Graph[T] }

func (graphStructure[T]) Name() string { return StructureGraph }

func (s graphStructure[T]) Insert(v T) error {
	s.Graph.InsertVertex(v)
	return nil
}

func (s graphStructure[T]) Remove(v T) bool {
	return s.Graph.RemoveVertex(v)
}

func (s graphStructure[T]) Load(data []T) error {
	for _, v := range data {
		s.Graph.InsertVertex(v)
	}
	for i := 1; i < len(data); i++ {
		s.Graph.InsertEdge(data[i-1], data[i])
	}
	return nil
}

// NewStructures returns fresh structures in run order: BST, HashTable,
// Heap, Graph, and Trie when T is string.
func NewStructures[T Element](cfg *Config) []Structure[T] {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := []Structure[T]{
		treeStructure[T]{container.NewTree[T]()},
		hashStructure[T]{container.NewHashTable[T, T](
			container.WithCapacity[T](cfg.HashCapacity),
			container.WithMaxLoadFactor[T](cfg.HashMaxLoadFactor),
			container.WithRehashLogger[T](cfg.Logger),
		)},
		heapStructure[T]{container.NewHeap[T](cfg.MinHeap)},
		graphStructure[T]{container.NewGraph[T](cfg.DirectedGraph)},
	}
	if s, ok := any(trieStructure{container.NewTrie()}).(Structure[T]); ok {
		out = append(out, s)
	}
	return out
}
