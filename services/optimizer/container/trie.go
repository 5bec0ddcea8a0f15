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
	"unsafe"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type trieNode struct {
	children map[byte]*trieNode
	terminal bool
}

// trieNodeBytes is the estimate charged per node: the node itself plus
// the byte key and pointer of the edge that reaches it.
var trieNodeBytes = int64(unsafe.Sizeof(trieNode{})) + int64(unsafe.Sizeof(byte(0))) + pointerSize

// Trie is a prefix tree over the bytes of its words. Words need not be
// valid UTF-8; distinct byte strings never share a terminal node.
//
// The memory estimate starts at one root node and is adjusted as nodes are
// created and pruned, so EstimateMemory is O(1).
type Trie struct {
	root      *trieNode
	words     int
	nodes     int
	memoryEst int64
}

// NewTrie creates a trie holding only the root node.
func NewTrie() *Trie {
	return &Trie{
		root:      &trieNode{children: make(map[byte]*trieNode)},
		nodes:     1,
		memoryEst: trieNodeBytes,
	}
}

// Insert adds word. An empty word fails with ErrInvalidInput.
// Inserting a word that is already present is a no-op.
func (t *Trie) Insert(word string) error {
	if word == "" {
		return fmt.Errorf("trie insert: empty word: %w", ErrInvalidInput)
	}
	n := t.root
	for i := 0; i < len(word); i++ {
		child, ok := n.children[word[i]]
		if !ok {
			child = &trieNode{children: make(map[byte]*trieNode)}
			n.children[word[i]] = child
			t.nodes++
			t.memoryEst += trieNodeBytes
		}
		n = child
	}
	if !n.terminal {
		n.terminal = true
		t.words++
	}
	return nil
}

func (t *Trie) walk(prefix string) *trieNode {
	n := t.root
	for i := 0; i < len(prefix); i++ {
		n = n.children[prefix[i]]
		if n == nil {
			return nil
		}
	}
	return n
}

// Search reports whether word was inserted and not removed.
func (t *Trie) Search(word string) bool {
	if word == "" {
		return false
	}
	n := t.walk(word)
	return n != nil && n.terminal
}

// StartsWith reports whether any stored word has the given prefix.
func (t *Trie) StartsWith(prefix string) bool {
	n := t.walk(prefix)
	return n != nil && (n.terminal || len(n.children) > 0)
}

// Remove unmarks word and prunes nodes that no longer lead to a word.
func (t *Trie) Remove(word string) bool {
	if word == "" {
		return false
	}
	removed := false
	var prune func(n *trieNode, depth int) bool
	prune = func(n *trieNode, depth int) bool {
		if depth == len(word) {
			if !n.terminal {
				return false
			}
			n.terminal = false
			removed = true
			return len(n.children) == 0
		}
		child := n.children[word[depth]]
		if child == nil {
			return false
		}
		if prune(child, depth+1) {
			delete(n.children, word[depth])
			t.nodes--
			t.memoryEst -= trieNodeBytes
		}
		return !n.terminal && len(n.children) == 0
	}
	prune(t.root, 0)
	if removed {
		t.words--
	}
	return removed
}

// Words returns every stored word in lexicographic byte order.
func (t *Trie) Words() []string {
	return collectWords(t.root, "")
}

// WordsWithPrefix returns the stored words beginning with prefix, sorted.
func (t *Trie) WordsWithPrefix(prefix string) []string {
	n := t.walk(prefix)
	if n == nil {
		return []string{}
	}
	return collectWords(n, prefix)
}

func collectWords(from *trieNode, prefix string) []string {
	out := []string{}
	var collect func(n *trieNode, path []byte)
	collect = func(n *trieNode, path []byte) {
		if n.terminal {
			out = append(out, prefix+string(path))
		}
		keys := maps.Keys(n.children)
		slices.Sort(keys)
		for _, b := range keys {
			collect(n.children[b], append(path, b))
		}
	}
	collect(from, nil)
	return out
}

// Size returns the number of stored words.
func (t *Trie) Size() int { return t.words }

// WordCount is an alias of Size.
func (t *Trie) WordCount() int { return t.words }

// NodeCount returns the number of nodes including the root.
func (t *Trie) NodeCount() int { return t.nodes }

// IsEmpty reports whether no words are stored.
func (t *Trie) IsEmpty() bool { return t.words == 0 }

// Clear drops every word and resets the estimate to a lone root.
func (t *Trie) Clear() {
	*t = *NewTrie()
}

// EstimateMemory returns the running node-based estimate.
func (t *Trie) EstimateMemory() int64 { return t.memoryEst }
