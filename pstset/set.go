// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pstset implements a set of arbitrary values kept in a priority
// search tree.
//
// Each value is mapped to a key and a priority by functions given to [New].
// Keys identify values: adding a value whose key is already present
// replaces the old value. Queries take their bounds as values too, using
// the key of the left and right bounds and the priority of the bottom one.
package pstset

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/jba/pst"
)

// A Set holds values of type V with unique keys of type K, ordered by key
// and by priority of type P.
// A Set must be created with [New]. It is not safe for concurrent use.
type Set[V any, K, P cmp.Ordered] struct {
	tree   *pst.Tree[K, P]
	values map[K]V
	key    func(V) K
	pri    func(V) P
}

// New returns a Set holding values, using key and pri to extract the key
// and priority of each value. It returns an error wrapping
// [pst.ErrDuplicateKey] if two of the values have the same key.
//
// Complexity: O(n log n)
func New[V any, K, P cmp.Ordered](key func(V) K, pri func(V) P, values ...V) (*Set[V, K, P], error) {
	s := &Set[V, K, P]{
		values: make(map[K]V, len(values)),
		key:    key,
		pri:    pri,
	}
	t, err := pst.Build(func(yield func(K, P) bool) {
		for _, v := range values {
			if !yield(key(v), pri(v)) {
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	s.tree = t
	for _, v := range values {
		s.values[key(v)] = v
	}
	log.Debugf("Created priority search set with %d values", len(values))
	return s, nil
}

// Len returns the number of values in s.
func (s *Set[V, K, P]) Len() int { return s.tree.Len() }

// Add adds v to s, replacing any value with the same key.
// It reports whether the key was new.
//
// Complexity: O(log n)
func (s *Set[V, K, P]) Add(v V) (added bool) {
	k := s.key(v)
	_, added = s.tree.Set(k, s.pri(v))
	s.values[k] = v
	return added
}

// Remove removes the value with the same key as v. It returns an error
// wrapping [pst.ErrKeyNotFound] if there is none.
//
// Complexity: O(log n)
func (s *Set[V, K, P]) Remove(v V) error {
	k := s.key(v)
	if _, err := s.tree.Delete(k); err != nil {
		return err
	}
	delete(s.values, k)
	return nil
}

// Discard removes the value with the same key as v, if there is one.
func (s *Set[V, K, P]) Discard(v V) {
	k := s.key(v)
	if _, ok := s.values[k]; ok {
		s.tree.Delete(k)
		delete(s.values, k)
	}
}

// Contains reports whether s holds a value with the same key as v.
func (s *Set[V, K, P]) Contains(v V) bool {
	_, ok := s.values[s.key(v)]
	return ok
}

// Lookup returns the value with the given key.
func (s *Set[V, K, P]) Lookup(key K) (V, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Max returns the value with the largest priority,
// or [pst.ErrEmpty] if s is empty.
//
// Complexity: O(1)
func (s *Set[V, K, P]) Max() (V, error) {
	it, err := s.tree.MaxItem()
	if err != nil {
		var zero V
		return zero, err
	}
	return s.value(it.Key), nil
}

// Pop removes and returns the value with the largest priority,
// or returns [pst.ErrEmpty] if s is empty.
//
// Complexity: O(log n)
func (s *Set[V, K, P]) Pop() (V, error) {
	it, err := s.tree.PopMax()
	if err != nil {
		var zero V
		return zero, err
	}
	v := s.value(it.Key)
	delete(s.values, it.Key)
	return v, nil
}

// Query returns the values whose keys lie between the keys of left and
// right, inclusive, and whose priority is at least the priority of
// bottom, in no particular order.
//
// Complexity: O(log n + k) for k results
func (s *Set[V, K, P]) Query(left, right, bottom V) []V {
	return s.lookup(s.tree.Query(s.key(left), s.key(right), s.pri(bottom)))
}

// SortedQuery is like Query, but returns at most limit values, largest
// priority first. A limit ≤ 0 means no limit.
//
// Complexity: O(log n + k log k) for k results
func (s *Set[V, K, P]) SortedQuery(left, right, bottom V, limit int) []V {
	return s.lookup(s.tree.SortedQuery(s.key(left), s.key(right), s.pri(bottom), limit))
}

// All returns an iterator over the values of s in key order.
func (s *Set[V, K, P]) All() iter.Seq[V] { return s.seq(s.tree.Keys()) }

// Backward returns an iterator over the values of s in reverse key order.
func (s *Set[V, K, P]) Backward() iter.Seq[V] { return s.seq(s.tree.Backward()) }

// Clear removes every value from s.
func (s *Set[V, K, P]) Clear() {
	log.Tracef("Clearing priority search set with %d values", s.Len())
	s.tree.Clear()
	clear(s.values)
}

// Root returns a read-only view of the root of the tree behind s.
// Keys found through it can be passed to Lookup.
func (s *Set[V, K, P]) Root() pst.NodeView[K, P] { return s.tree.Root() }

// Verify checks the tree behind s and its agreement with the stored values.
func (s *Set[V, K, P]) Verify() error {
	if err := s.tree.Verify(); err != nil {
		return err
	}
	if len(s.values) != s.tree.Len() {
		return fmt.Errorf("pstset: %d values for %d keys", len(s.values), s.tree.Len())
	}
	for k, p := range s.tree.All() {
		v, ok := s.values[k]
		if !ok {
			return fmt.Errorf("pstset: no value for key %v", k)
		}
		if s.key(v) != k || s.pri(v) != p {
			return fmt.Errorf("pstset: value for key %v has key %v, priority %v, want priority %v",
				k, s.key(v), s.pri(v), p)
		}
	}
	return nil
}

func (s *Set[V, K, P]) value(k K) V {
	v, ok := s.values[k]
	if !ok {
		panic(fmt.Sprintf("pstset: no value for key %v", k))
	}
	return v
}

func (s *Set[V, K, P]) lookup(keys []K) []V {
	if len(keys) == 0 {
		return nil
	}
	vs := make([]V, len(keys))
	for i, k := range keys {
		vs[i] = s.value(k)
	}
	return vs
}

func (s *Set[V, K, P]) seq(keys iter.Seq[K]) iter.Seq[V] {
	return func(yield func(V) bool) {
		for k := range keys {
			if !yield(s.value(k)) {
				return
			}
		}
	}
}
