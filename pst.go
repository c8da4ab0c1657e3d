// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pst implements in-memory priority search trees.
//
// A priority search tree maps unique keys to priorities. Like an ordered
// map it supports lookups and iteration in key order; like a max-heap it
// returns or removes the entry with the largest priority; and it answers
// 3-sided queries, which report every key in a key range whose priority is
// at least a given floor, in O(log n + k) time.
//
// [Tree][K, P] is suitable for ordered types K and P,
// while [TreeFunc][K, P] supports arbitrary types and comparison functions.
//
// Entries are ordered by priority and then by key, so among equal
// priorities the larger key ranks higher.
package pst

// The implementation is McCreight's priority search tree made dynamic with
// red-black balancing. Keys live in the leaves of a leaf-oriented search
// tree; each entry additionally resides at one node on the path from the
// root to its leaf, in max-heap order. See:
// https://en.wikipedia.org/wiki/Priority_search_tree
// E. M. McCreight, "Priority search trees", SIAM J. Comput. 14(2), 1985.

import (
	"cmp"
	"iter"

	"github.com/jba/pst/rng"
)

// A Tree is a priority search tree whose keys and priorities are ordered
// by their standard Go ordering.
// The zero value of a Tree is an empty Tree ready to use.
type Tree[K, P cmp.Ordered] struct {
	body[K, P]
}

// A TreeFunc is a priority search tree ordered by arbitrary comparison
// functions for keys and priorities.
// The zero value of a TreeFunc is not meaningful since it has no comparison
// functions. Use [NewFunc] or [BuildFunc] to create a TreeFunc.
type TreeFunc[K, P any] struct {
	body[K, P]
	cmpKey func(K, K) int
	cmpPri func(P, P) int
}

// body is the state shared by Tree and TreeFunc.
type body[K, P any] struct {
	root *node[K, P]
	n    int
	// mods counts changes to the set of leaves, so iterators can tell
	// when they must find their place again.
	mods int
}

// NewFunc returns a new, empty TreeFunc ordering keys with cmpKey and
// priorities with cmpPri.
func NewFunc[K, P any](cmpKey func(K, K) int, cmpPri func(P, P) int) *TreeFunc[K, P] {
	return &TreeFunc[K, P]{cmpKey: cmpKey, cmpPri: cmpPri}
}

// pst is the interface implemented by both Tree[K, P] and TreeFunc[K, P]
// that enables a common implementation of the tree operations.
type pst[K, P any] interface {
	// state returns the tree's root and counters; the caller can read or
	// write through it.
	state() *body[K, P]
	compareKeys(a, b K) int
	comparePriorities(a, b P) int
}

func (t *Tree[K, P]) state() *body[K, P]     { return &t.body }
func (t *TreeFunc[K, P]) state() *body[K, P] { return &t.body }

func (t *Tree[K, P]) compareKeys(a, b K) int     { return cmp.Compare(a, b) }
func (t *TreeFunc[K, P]) compareKeys(a, b K) int { return t.cmpKey(a, b) }

func (t *Tree[K, P]) comparePriorities(a, b P) int     { return cmp.Compare(a, b) }
func (t *TreeFunc[K, P]) comparePriorities(a, b P) int { return t.cmpPri(a, b) }

// Len returns the number of keys in t.
func (t *Tree[K, P]) Len() int { return t.n }

// Len returns the number of keys in t.
func (t *TreeFunc[K, P]) Len() int { return t.n }

// Clear deletes every key from t.
func (t *Tree[K, P]) Clear() { clearTree(t) }

// Clear deletes every key from t.
func (t *TreeFunc[K, P]) Clear() { clearTree(t) }

func clearTree[K, P any](m pst[K, P]) {
	s := m.state()
	log.Tracef("Clearing priority search tree with %d entries", s.n)
	s.root, s.n = nil, 0
	s.mods++
}

// Clone returns a copy of t that shares no nodes with it.
func (t *Tree[K, P]) Clone() *Tree[K, P] {
	return &Tree[K, P]{body: t.body.clone()}
}

// Clone returns a copy of t that shares no nodes with it.
func (t *TreeFunc[K, P]) Clone() *TreeFunc[K, P] {
	return &TreeFunc[K, P]{body: t.body.clone(), cmpKey: t.cmpKey, cmpPri: t.cmpPri}
}

func (b *body[K, P]) clone() body[K, P] {
	return body[K, P]{root: b.root.clone(nil), n: b.n}
}

// Get returns the priority of key and reports whether key is present.
//
// Complexity: O(log n)
func (t *Tree[K, P]) Get(key K) (P, bool) { return get(t, key) }

// Get returns the priority of key and reports whether key is present.
//
// Complexity: O(log n)
func (t *TreeFunc[K, P]) Get(key K) (P, bool) { return get(t, key) }

// Contains reports whether key is present in t.
func (t *Tree[K, P]) Contains(key K) bool { return findResident(t, key) != nil }

// Contains reports whether key is present in t.
func (t *TreeFunc[K, P]) Contains(key K) bool { return findResident(t, key) != nil }

// Insert adds key with priority pri.
// If key is already present, Insert returns an error wrapping
// [ErrDuplicateKey] and t is unchanged.
//
// Complexity: O(log n)
func (t *Tree[K, P]) Insert(key K, pri P) error { return insert(t, key, pri) }

// Insert adds key with priority pri.
// If key is already present, Insert returns an error wrapping
// [ErrDuplicateKey] and t is unchanged.
//
// Complexity: O(log n)
func (t *TreeFunc[K, P]) Insert(key K, pri P) error { return insert(t, key, pri) }

// Set sets the priority of key to pri.
// If key was present, Set returns its former priority and false.
// Otherwise it returns the zero value and true.
func (t *Tree[K, P]) Set(key K, pri P) (old P, added bool) { return set(t, key, pri) }

// Set sets the priority of key to pri.
// If key was present, Set returns its former priority and false.
// Otherwise it returns the zero value and true.
func (t *TreeFunc[K, P]) Set(key K, pri P) (old P, added bool) { return set(t, key, pri) }

// SetDefault returns the priority of key, first adding key with priority
// pri if it is not present.
func (t *Tree[K, P]) SetDefault(key K, pri P) P { return setDefault(t, key, pri) }

// SetDefault returns the priority of key, first adding key with priority
// pri if it is not present.
func (t *TreeFunc[K, P]) SetDefault(key K, pri P) P { return setDefault(t, key, pri) }

// UpdatePriority changes the priority of key to pri and returns the
// former priority. It returns an error wrapping [ErrKeyNotFound] if key
// is not present.
//
// Complexity: O(log n)
func (t *Tree[K, P]) UpdatePriority(key K, pri P) (old P, err error) {
	return updatePriority(t, key, pri)
}

// UpdatePriority changes the priority of key to pri and returns the
// former priority. It returns an error wrapping [ErrKeyNotFound] if key
// is not present.
//
// Complexity: O(log n)
func (t *TreeFunc[K, P]) UpdatePriority(key K, pri P) (old P, err error) {
	return updatePriority(t, key, pri)
}

// Delete removes key from t and returns its priority.
// It returns an error wrapping [ErrKeyNotFound] if key is not present.
//
// Complexity: O(log n)
func (t *Tree[K, P]) Delete(key K) (P, error) { return remove(t, key) }

// Delete removes key from t and returns its priority.
// It returns an error wrapping [ErrKeyNotFound] if key is not present.
//
// Complexity: O(log n)
func (t *TreeFunc[K, P]) Delete(key K) (P, error) { return remove(t, key) }

// MaxItem returns the entry with the largest priority,
// or [ErrEmpty] if t is empty.
//
// Complexity: O(1)
func (t *Tree[K, P]) MaxItem() (Item[K, P], error) { return maxItem(t) }

// MaxItem returns the entry with the largest priority,
// or [ErrEmpty] if t is empty.
//
// Complexity: O(1)
func (t *TreeFunc[K, P]) MaxItem() (Item[K, P], error) { return maxItem(t) }

func maxItem[K, P any](m pst[K, P]) (Item[K, P], error) {
	root := m.state().root
	if root == nil {
		return Item[K, P]{}, ErrEmpty
	}
	return root.item, nil
}

// PopMax removes and returns the entry with the largest priority,
// or returns [ErrEmpty] if t is empty.
//
// Complexity: O(log n)
func (t *Tree[K, P]) PopMax() (Item[K, P], error) { return popMax(t) }

// PopMax removes and returns the entry with the largest priority,
// or returns [ErrEmpty] if t is empty.
//
// Complexity: O(log n)
func (t *TreeFunc[K, P]) PopMax() (Item[K, P], error) { return popMax(t) }

// MinKey returns the smallest key in t, or [ErrEmpty] if t is empty.
func (t *Tree[K, P]) MinKey() (K, error) { return minKey(t) }

// MinKey returns the smallest key in t, or [ErrEmpty] if t is empty.
func (t *TreeFunc[K, P]) MinKey() (K, error) { return minKey(t) }

func minKey[K, P any](m pst[K, P]) (K, error) {
	root := m.state().root
	if root == nil {
		var zero K
		return zero, ErrEmpty
	}
	return root.minLeaf().split, nil
}

// MaxKey returns the largest key in t, or [ErrEmpty] if t is empty.
func (t *Tree[K, P]) MaxKey() (K, error) { return maxKey(t) }

// MaxKey returns the largest key in t, or [ErrEmpty] if t is empty.
func (t *TreeFunc[K, P]) MaxKey() (K, error) { return maxKey(t) }

func maxKey[K, P any](m pst[K, P]) (K, error) {
	root := m.state().root
	if root == nil {
		var zero K
		return zero, ErrEmpty
	}
	return root.maxLeaf().split, nil
}

// Query returns the keys k with lo ≤ k ≤ hi whose priority is at least
// bottom, in no particular order.
//
// Complexity: O(log n + k) for k results
func (t *Tree[K, P]) Query(lo, hi K, bottom P) []K {
	return query(t, rng.Closed(lo, hi), bottom)
}

// Query returns the keys k with lo ≤ k ≤ hi whose priority is at least
// bottom, in no particular order.
//
// Complexity: O(log n + k) for k results
func (t *TreeFunc[K, P]) Query(lo, hi K, bottom P) []K {
	return query(t, rng.Closed(lo, hi), bottom)
}

// QueryRange is like [Tree.Query] with the keys limited to r.
// The direction of r is ignored.
func (t *Tree[K, P]) QueryRange(r rng.Range[K], bottom P) []K {
	return query(t, r, bottom)
}

// QueryRange is like [TreeFunc.Query] with the keys limited to r.
// The direction of r is ignored.
func (t *TreeFunc[K, P]) QueryRange(r rng.Range[K], bottom P) []K {
	return query(t, r, bottom)
}

// SortedQuery returns up to limit keys k with lo ≤ k ≤ hi whose priority
// is at least bottom, ordered from the largest priority down.
// A limit ≤ 0 means no limit.
//
// Complexity: O(log n + k log k) for k results
func (t *Tree[K, P]) SortedQuery(lo, hi K, bottom P, limit int) []K {
	return sortedQuery(t, rng.Closed(lo, hi), bottom, limit)
}

// SortedQuery returns up to limit keys k with lo ≤ k ≤ hi whose priority
// is at least bottom, ordered from the largest priority down.
// A limit ≤ 0 means no limit.
//
// Complexity: O(log n + k log k) for k results
func (t *TreeFunc[K, P]) SortedQuery(lo, hi K, bottom P, limit int) []K {
	return sortedQuery(t, rng.Closed(lo, hi), bottom, limit)
}

// SortedQueryRange is like [Tree.SortedQuery] with the keys limited to r.
// The direction of r is ignored.
func (t *Tree[K, P]) SortedQueryRange(r rng.Range[K], bottom P, limit int) []K {
	return sortedQuery(t, r, bottom, limit)
}

// SortedQueryRange is like [TreeFunc.SortedQuery] with the keys limited to r.
// The direction of r is ignored.
func (t *TreeFunc[K, P]) SortedQueryRange(r rng.Range[K], bottom P, limit int) []K {
	return sortedQuery(t, r, bottom, limit)
}

// Keys returns an iterator over the keys of t from smallest to largest.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *Tree[K, P]) Keys() iter.Seq[K] { return scan(t, rng.Unbounded[K]()) }

// Keys returns an iterator over the keys of t from smallest to largest.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *TreeFunc[K, P]) Keys() iter.Seq[K] { return scan(t, rng.Unbounded[K]()) }

// Backward returns an iterator over the keys of t from largest to smallest.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *Tree[K, P]) Backward() iter.Seq[K] {
	return scan(t, rng.Unbounded[K]().Backwards())
}

// Backward returns an iterator over the keys of t from largest to smallest.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *TreeFunc[K, P]) Backward() iter.Seq[K] {
	return scan(t, rng.Unbounded[K]().Backwards())
}

// All returns an iterator over the keys of t and their priorities,
// from smallest to largest key. Each step costs O(log n).
func (t *Tree[K, P]) All() iter.Seq2[K, P] { return all(t) }

// All returns an iterator over the keys of t and their priorities,
// from smallest to largest key. Each step costs O(log n).
func (t *TreeFunc[K, P]) All() iter.Seq2[K, P] { return all(t) }

// Scan returns an iterator over the keys of t that lie in r, in the
// direction of r.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *Tree[K, P]) Scan(r rng.Range[K]) iter.Seq[K] { return scan(t, r) }

// Scan returns an iterator over the keys of t that lie in r, in the
// direction of r.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *TreeFunc[K, P]) Scan(r rng.Range[K]) iter.Seq[K] { return scan(t, r) }

// Verify checks the structure of t and returns an error describing the
// first broken invariant it finds. It is meant for tests and diagnostics.
//
// Complexity: O(n log n)
func (t *Tree[K, P]) Verify() error { return verify(t) }

// Verify checks the structure of t and returns an error describing the
// first broken invariant it finds. It is meant for tests and diagnostics.
//
// Complexity: O(n log n)
func (t *TreeFunc[K, P]) Verify() error { return verify(t) }

// Root returns a read-only view of the root node of t.
func (t *Tree[K, P]) Root() NodeView[K, P] { return NodeView[K, P]{t.root} }

// Root returns a read-only view of the root node of t.
func (t *TreeFunc[K, P]) Root() NodeView[K, P] { return NodeView[K, P]{t.root} }
