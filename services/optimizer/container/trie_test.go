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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrie_InsertSearch(t *testing.T) {
	trie := NewTrie()
	for _, w := range []string{"apple", "app", "apply", "banana"} {
		require.NoError(t, trie.Insert(w))
	}

	assert.Equal(t, 4, trie.Size())
	assert.True(t, trie.Search("app"))
	assert.True(t, trie.Search("apple"))
	assert.False(t, trie.Search("ap"), "prefix alone is not a word")
	assert.False(t, trie.Search(""))

	assert.True(t, trie.StartsWith("ap"))
	assert.True(t, trie.StartsWith("ban"))
	assert.False(t, trie.StartsWith("c"))
	assert.True(t, trie.StartsWith(""))

	require.NoError(t, trie.Insert("app"))
	assert.Equal(t, 4, trie.WordCount(), "re-insert must not double count")
}

func TestTrie_EmptyWord(t *testing.T) {
	trie := NewTrie()
	err := trie.Insert("")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, trie.StartsWith(""))
}

func TestTrie_RemovePrunes(t *testing.T) {
	trie := NewTrie()
	require.NoError(t, trie.Insert("car"))
	require.NoError(t, trie.Insert("cart"))
	base := trie.EstimateMemory()
	nodes := trie.NodeCount()
	require.Equal(t, 5, nodes)

	t.Run("remove longer word frees its tail", func(t *testing.T) {
		require.True(t, trie.Remove("cart"))
		assert.False(t, trie.Search("cart"))
		assert.True(t, trie.Search("car"))
		assert.Equal(t, nodes-1, trie.NodeCount())
		assert.Equal(t, base-trieNodeBytes, trie.EstimateMemory())
	})

	t.Run("remove missing word", func(t *testing.T) {
		assert.False(t, trie.Remove("ca"))
		assert.False(t, trie.Remove("dog"))
		assert.True(t, trie.Search("car"))
	})

	t.Run("remove last word leaves a lone root", func(t *testing.T) {
		require.True(t, trie.Remove("car"))
		assert.Equal(t, 1, trie.NodeCount())
		assert.Equal(t, trieNodeBytes, trie.EstimateMemory())
		assert.False(t, trie.StartsWith("c"))
		assert.True(t, trie.IsEmpty())
	})
}

func TestTrie_RemoveKeepsPrefixWord(t *testing.T) {
	trie := NewTrie()
	require.NoError(t, trie.Insert("to"))
	require.NoError(t, trie.Insert("tea"))
	require.True(t, trie.Remove("to"))

	assert.True(t, trie.Search("tea"))
	assert.True(t, trie.StartsWith("t"))
	assert.False(t, trie.StartsWith("to"))
}

func TestTrie_Words(t *testing.T) {
	trie := NewTrie()
	for _, w := range []string{"fox", "dog", "cat", "cattle", "élan"} {
		require.NoError(t, trie.Insert(w))
	}

	assert.Equal(t, []string{"cat", "cattle", "dog", "fox", "élan"}, trie.Words())
	assert.Equal(t, []string{"cat", "cattle"}, trie.WordsWithPrefix("ca"))
	assert.Empty(t, trie.WordsWithPrefix("z"))

	trie.Clear()
	assert.Empty(t, trie.Words())
	assert.Equal(t, trieNodeBytes, trie.EstimateMemory())
}

func TestTrie_InvalidUTF8WordsStayDistinct(t *testing.T) {
	trie := NewTrie()
	require.NoError(t, trie.Insert("\xff"))

	assert.True(t, trie.Search("\xff"))
	assert.False(t, trie.Search("\xfe"))
	assert.False(t, trie.Search("\uFFFD"))
	assert.Equal(t, []string{"\xff"}, trie.Words())

	assert.False(t, trie.Remove("\xfe"))
	assert.True(t, trie.Search("\xff"))

	require.NoError(t, trie.Insert("a\xfe"))
	require.NoError(t, trie.Insert("a\xfd"))
	assert.Equal(t, []string{"a\xfd", "a\xfe", "\xff"}, trie.Words())
	assert.Equal(t, 2, len(trie.WordsWithPrefix("a")))
	assert.True(t, trie.Remove("a\xfe"))
	assert.True(t, trie.Search("a\xfd"))
}
