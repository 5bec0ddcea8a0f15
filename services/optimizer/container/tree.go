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

	"golang.org/x/exp/constraints"
)

// treeNode is a single owned node of a Tree.
//
// height caches the subtree height so IsBalanced does not need to recompute
// it. It is never used to rebalance.
type treeNode[T constraints.Ordered] struct {
	value       T
	left, right *treeNode[T]
	height      int
}

// Tree is an unbalanced binary search tree.
//
// Description:
//
//	Values greater than a node go to its right subtree, all others go
//	left, so duplicates route left. No rebalancing is performed: sorted or
//	adversarial input degrades the tree to a linked list with O(N) depth.
//	Callers needing logarithmic depth must rebalance externally.
//
// Thread Safety:
//
//	Not safe for concurrent use.
type Tree[T constraints.Ordered] struct {
	root  *treeNode[T]
	count int
}

// NewTree creates an empty tree.
func NewTree[T constraints.Ordered]() *Tree[T] {
	return &Tree[T]{}
}

// Insert adds value to the tree. Duplicates are stored as distinct nodes.
func (t *Tree[T]) Insert(value T) {
	t.root = t.insert(t.root, value)
	t.count++
}

func (t *Tree[T]) insert(n *treeNode[T], value T) *treeNode[T] {
	if n == nil {
		return &treeNode[T]{value: value, height: 1}
	}
	if value > n.value {
		n.right = t.insert(n.right, value)
	} else {
		n.left = t.insert(n.left, value)
	}
	n.height = 1 + max(nodeHeight(n.left), nodeHeight(n.right))
	return n
}

// Search reports whether value is stored in the tree.
func (t *Tree[T]) Search(value T) bool {
	n := t.root
	for n != nil {
		switch {
		case value == n.value:
			return true
		case value > n.value:
			n = n.right
		default:
			n = n.left
		}
	}
	return false
}

// Remove deletes one occurrence of value.
//
// Description:
//
//	A node with two children takes the value of its in-order successor
//	(the smallest value in its right subtree), and the successor is then
//	deleted from the right subtree.
//
// Outputs:
//
//	bool - True if a node was removed.
func (t *Tree[T]) Remove(value T) bool {
	var removed bool
	t.root = t.remove(t.root, value, &removed)
	if removed {
		t.count--
	}
	return removed
}

func (t *Tree[T]) remove(n *treeNode[T], value T, removed *bool) *treeNode[T] {
	if n == nil {
		return nil
	}
	switch {
	case value > n.value:
		n.right = t.remove(n.right, value, removed)
	case value < n.value:
		n.left = t.remove(n.left, value, removed)
	default:
		*removed = true
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.value = succ.value
		var discard bool
		n.right = t.remove(n.right, succ.value, &discard)
	}
	n.height = 1 + max(nodeHeight(n.left), nodeHeight(n.right))
	return n
}

// Size returns the number of stored values, including duplicates.
func (t *Tree[T]) Size() int {
	return t.count
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree[T]) IsEmpty() bool {
	return t.count == 0
}

// Clear removes every node.
func (t *Tree[T]) Clear() {
	t.root = nil
	t.count = 0
}

// Min returns the smallest value or ErrEmptyContainer.
func (t *Tree[T]) Min() (T, error) {
	if t.root == nil {
		var zero T
		return zero, fmt.Errorf("tree min: %w", ErrEmptyContainer)
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	return n.value, nil
}

// Max returns the largest value or ErrEmptyContainer.
func (t *Tree[T]) Max() (T, error) {
	if t.root == nil {
		var zero T
		return zero, fmt.Errorf("tree max: %w", ErrEmptyContainer)
	}
	n := t.root
	for n.right != nil {
		n = n.right
	}
	return n.value, nil
}

// Height returns the number of nodes on the longest root-to-leaf path.
// An empty tree has height 0.
func (t *Tree[T]) Height() int {
	return nodeHeight(t.root)
}

// IsBalanced reports whether every node's subtree heights differ by at
// most one.
func (t *Tree[T]) IsBalanced() bool {
	return balanced(t.root)
}

func balanced[T constraints.Ordered](n *treeNode[T]) bool {
	if n == nil {
		return true
	}
	d := nodeHeight(n.left) - nodeHeight(n.right)
	if d < -1 || d > 1 {
		return false
	}
	return balanced(n.left) && balanced(n.right)
}

func nodeHeight[T constraints.Ordered](n *treeNode[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

// -----------------------------------------------------------------------------
// Traversals
// -----------------------------------------------------------------------------

// InOrder returns all values in non-decreasing order.
func (t *Tree[T]) InOrder() []T {
	out := make([]T, 0, t.count)
	var walk func(*treeNode[T])
	walk = func(n *treeNode[T]) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.value)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// PreOrder returns values in node, left, right order.
func (t *Tree[T]) PreOrder() []T {
	out := make([]T, 0, t.count)
	var walk func(*treeNode[T])
	walk = func(n *treeNode[T]) {
		if n == nil {
			return
		}
		out = append(out, n.value)
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// PostOrder returns values in left, right, node order.
func (t *Tree[T]) PostOrder() []T {
	out := make([]T, 0, t.count)
	var walk func(*treeNode[T])
	walk = func(n *treeNode[T]) {
		if n == nil {
			return
		}
		walk(n.left)
		walk(n.right)
		out = append(out, n.value)
	}
	walk(t.root)
	return out
}

// LevelOrder returns values breadth first, left to right within a level.
func (t *Tree[T]) LevelOrder() []T {
	if t.root == nil {
		return []T{}
	}
	out := make([]T, 0, t.count)
	queue := []*treeNode[T]{t.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n.value)
		if n.left != nil {
			queue = append(queue, n.left)
		}
		if n.right != nil {
			queue = append(queue, n.right)
		}
	}
	return out
}

// RangeQuery returns the values v with lo <= v <= hi in ascending order.
//
// Subtrees that cannot hold values in range are skipped.
func (t *Tree[T]) RangeQuery(lo, hi T) []T {
	out := []T{}
	if lo > hi {
		return out
	}
	var walk func(*treeNode[T])
	walk = func(n *treeNode[T]) {
		if n == nil {
			return
		}
		// Equal values may sit in the left subtree.
		if lo <= n.value {
			walk(n.left)
		}
		if lo <= n.value && n.value <= hi {
			out = append(out, n.value)
		}
		if n.value < hi {
			walk(n.right)
		}
	}
	walk(t.root)
	return out
}

// EstimateMemory returns nodes * (value + two child pointers + cached height).
func (t *Tree[T]) EstimateMemory() int64 {
	return int64(t.count) * (sizeOf[T]() + 2*pointerSize + intSize)
}

// Sum adds every value stored in a numeric tree.
func Sum[T constraints.Integer | constraints.Float](t *Tree[T]) T {
	var total T
	for _, v := range t.InOrder() {
		total += v
	}
	return total
}
