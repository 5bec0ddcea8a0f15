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
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefaultEdgeWeight is the weight of an edge inserted without one.
const DefaultEdgeWeight = 1.0

// Edge is an adjacency list entry.
type Edge[T constraints.Ordered] struct {
	To     T       `json:"to"`
	Weight float64 `json:"weight"`
}

// Graph is an adjacency-list graph keyed by vertex value.
//
// Description:
//
//	For undirected graphs every edge is stored on both endpoints and
//	counted once. A self-loop is stored once and counted once in either
//	mode. Duplicate edges are never stored.
//
// Thread Safety:
//
//	Not safe for concurrent use.
type Graph[T constraints.Ordered] struct {
	adj      map[T][]Edge[T]
	directed bool
	edges    int
}

// NewGraph creates an empty graph.
func NewGraph[T constraints.Ordered](directed bool) *Graph[T] {
	return &Graph[T]{adj: make(map[T][]Edge[T]), directed: directed}
}

// InsertVertex adds v if absent.
func (g *Graph[T]) InsertVertex(v T) {
	if _, ok := g.adj[v]; !ok {
		g.adj[v] = nil
	}
}

// InsertEdge adds an edge with DefaultEdgeWeight.
func (g *Graph[T]) InsertEdge(from, to T) bool {
	return g.InsertWeightedEdge(from, to, DefaultEdgeWeight)
}

// InsertWeightedEdge adds from->to, creating both endpoints if needed.
//
// Outputs:
//
//	bool - False if the edge already existed; nothing is changed.
func (g *Graph[T]) InsertWeightedEdge(from, to T, weight float64) bool {
	g.InsertVertex(from)
	g.InsertVertex(to)
	if indexOfEdge(g.adj[from], to) >= 0 {
		return false
	}
	g.adj[from] = append(g.adj[from], Edge[T]{To: to, Weight: weight})
	if !g.directed && from != to {
		g.adj[to] = append(g.adj[to], Edge[T]{To: from, Weight: weight})
	}
	g.edges++
	return true
}

// RemoveVertex deletes v and every edge touching it.
//
// Each logical edge is subtracted from the edge count exactly once: an
// undirected edge stored on both endpoints counts once, and a self-loop
// counts once.
func (g *Graph[T]) RemoveVertex(v T) bool {
	out, ok := g.adj[v]
	if !ok {
		return false
	}
	removed := len(out)
	delete(g.adj, v)
	for u, list := range g.adj {
		idx := indexOfEdge(list, v)
		if idx < 0 {
			continue
		}
		g.adj[u] = slices.Delete(list, idx, idx+1)
		if g.directed {
			// Incoming edges are distinct logical edges in a directed graph.
			removed++
		}
	}
	g.edges -= removed
	return true
}

// RemoveEdge deletes from->to and, for undirected graphs, its mirror.
func (g *Graph[T]) RemoveEdge(from, to T) bool {
	list, ok := g.adj[from]
	if !ok {
		return false
	}
	idx := indexOfEdge(list, to)
	if idx < 0 {
		return false
	}
	g.adj[from] = slices.Delete(list, idx, idx+1)
	if !g.directed && from != to {
		if back := indexOfEdge(g.adj[to], from); back >= 0 {
			g.adj[to] = slices.Delete(g.adj[to], back, back+1)
		}
	}
	g.edges--
	return true
}

// HasVertex reports whether v is present.
func (g *Graph[T]) HasVertex(v T) bool {
	_, ok := g.adj[v]
	return ok
}

// Search is HasVertex under the common container name.
func (g *Graph[T]) Search(v T) bool { return g.HasVertex(v) }

// HasEdge reports whether from->to is stored.
func (g *Graph[T]) HasEdge(from, to T) bool {
	return indexOfEdge(g.adj[from], to) >= 0
}

// Neighbors returns the destinations adjacent to v in insertion order.
func (g *Graph[T]) Neighbors(v T) []T {
	list := g.adj[v]
	out := make([]T, len(list))
	for i, e := range list {
		out[i] = e.To
	}
	return out
}

// Edges returns a copy of v's adjacency list.
func (g *Graph[T]) Edges(v T) []Edge[T] {
	return slices.Clone(g.adj[v])
}

// Vertices returns every vertex in ascending order.
func (g *Graph[T]) Vertices() []T {
	keys := maps.Keys(g.adj)
	slices.Sort(keys)
	return keys
}

// VertexCount returns the number of vertices.
func (g *Graph[T]) VertexCount() int { return len(g.adj) }

// Size is VertexCount.
func (g *Graph[T]) Size() int { return len(g.adj) }

// EdgeCount returns the number of logical edges.
func (g *Graph[T]) EdgeCount() int { return g.edges }

// IsDirected reports the graph mode.
func (g *Graph[T]) IsDirected() bool { return g.directed }

// Clear removes every vertex and edge.
func (g *Graph[T]) Clear() {
	clear(g.adj)
	g.edges = 0
}

// EstimateMemory returns V * (vertex + slice header) + E * (vertex + weight).
func (g *Graph[T]) EstimateMemory() int64 {
	return int64(len(g.adj))*(sizeOf[T]()+sliceHeaderSize) +
		int64(g.edges)*(sizeOf[T]()+float64Size)
}

func indexOfEdge[T constraints.Ordered](list []Edge[T], to T) int {
	for i, e := range list {
		if e.To == to {
			return i
		}
	}
	return -1
}
