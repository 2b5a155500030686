// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package catalog

import "sync"

// lruEntry is a node in the LRU list.
type lruEntry[K comparable, V any] struct {
	key   K
	value V
	prev  *lruEntry[K, V]
	next  *lruEntry[K, V]
}

// LRU is a thread-safe least recently used cache with O(1) Get and Add.
//
// A doubly-linked list keeps recency order and a map provides lookups.
// head.next is the most recently used entry, tail.prev the least.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*lruEntry[K, V]
	head     *lruEntry[K, V]
	tail     *lruEntry[K, V]

	hits   int64
	misses int64
}

// NewLRU creates an LRU holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 4096
	}
	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*lruEntry[K, V], capacity),
		head:     &lruEntry[K, V]{},
		tail:     &lruEntry[K, V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the cached value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.moveToFront(entry)
		c.hits++
		return entry.value, true
	}
	c.misses++
	var zero V
	return zero, false
}

// Add inserts or replaces a value, evicting the least recently used entry
// when over capacity.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		c.moveToFront(entry)
		return
	}

	entry := &lruEntry[K, V]{key: key, value: value}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		c.unlink(oldest)
		delete(c.items, oldest.key)
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counts.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *LRU[K, V]) addToFront(entry *lruEntry[K, V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *LRU[K, V]) unlink(entry *lruEntry[K, V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (c *LRU[K, V]) moveToFront(entry *lruEntry[K, V]) {
	c.unlink(entry)
	c.addToFront(entry)
}

// CachedFeatures is a Source that memoizes decoded movies.
// Safe for concurrent use; the underlying Accessor must be read-only.
type CachedFeatures struct {
	acc   Accessor
	cache *LRU[int, Movie]
}

// NewCachedFeatures wraps acc with an LRU of the given capacity.
func NewCachedFeatures(acc Accessor, capacity int) *CachedFeatures {
	return &CachedFeatures{acc: acc, cache: NewLRU[int, Movie](capacity)}
}

// Size returns the catalog size.
func (c *CachedFeatures) Size() int {
	return c.acc.Size()
}

// Movie returns the decoded movie at index, decoding on a miss.
func (c *CachedFeatures) Movie(index int) (Movie, error) {
	if m, ok := c.cache.Get(index); ok {
		return m, nil
	}
	m, err := Decode(c.acc, index)
	if err != nil {
		return Movie{}, err
	}
	c.cache.Add(index, m)
	return m, nil
}

// Stats reports cache hits and misses.
func (c *CachedFeatures) Stats() (hits, misses int64) {
	return c.cache.Stats()
}
