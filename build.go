// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import (
	"cmp"
	"fmt"
	"iter"
	"math/bits"
	"slices"
	"strconv"
)

// Build returns a new Tree holding the given key-priority pairs.
// It fails with ErrDuplicateKey if a key occurs more than once.
//
// Complexity: O(n log n)
func Build[K, P cmp.Ordered](items iter.Seq2[K, P]) (*Tree[K, P], error) {
	t := new(Tree[K, P])
	if err := build(t, items); err != nil {
		return nil, err
	}
	return t, nil
}

// BuildFunc returns a new TreeFunc holding the given key-priority pairs,
// ordered by cmpKey and cmpPri.
// It fails with ErrDuplicateKey if a key occurs more than once.
//
// Complexity: O(n log n)
func BuildFunc[K, P any](cmpKey func(K, K) int, cmpPri func(P, P) int, items iter.Seq2[K, P]) (*TreeFunc[K, P], error) {
	t := NewFunc(cmpKey, cmpPri)
	if err := build(t, items); err != nil {
		return nil, err
	}
	return t, nil
}

// A unit is a finished subtree waiting to be paired with its neighbor.
type unit[K, P any] struct {
	x   *node[K, P]
	min K
}

// build replaces the contents of m with items. Nothing is modified if the
// items contain a duplicate key.
func build[K, P any](m pst[K, P], items iter.Seq2[K, P]) error {
	var sorted []Item[K, P]
	for k, p := range items {
		sorted = append(sorted, Item[K, P]{Key: k, Priority: p})
	}
	slices.SortFunc(sorted, func(a, b Item[K, P]) int {
		return m.compareKeys(a.Key, b.Key)
	})
	for i := 1; i < len(sorted); i++ {
		if m.compareKeys(sorted[i-1].Key, sorted[i].Key) == 0 {
			return fmt.Errorf("%w %v", ErrDuplicateKey, sorted[i].Key)
		}
	}

	s := m.state()
	s.root, s.n = nil, len(sorted)
	s.mods++
	if len(sorted) == 0 {
		return nil
	}

	leaf := func(it Item[K, P], c color) *node[K, P] {
		return &node[K, P]{split: it.Key, item: it, full: true, color: c}
	}
	join := func(l, r unit[K, P]) unit[K, P] {
		x := &node[K, P]{split: r.min, full: true, color: black}
		x.setLeft(l.x)
		x.setRight(r.x)
		collapseUp(m, x)
		return unit[K, P]{x: x, min: l.min}
	}

	// Pair up the excess leaves so that a power of two of units remains.
	// Their leaves sit one level deeper than all others and are red to keep
	// black heights equal.
	width := 1 << (bits.Len(uint(len(sorted))) - 1)
	excess := len(sorted) - width
	units := make([]unit[K, P], 0, width)
	i := 0
	for range excess {
		l := unit[K, P]{x: leaf(sorted[i], red), min: sorted[i].Key}
		r := unit[K, P]{x: leaf(sorted[i+1], red), min: sorted[i+1].Key}
		units = append(units, join(l, r))
		i += 2
	}
	for _, it := range sorted[i:] {
		units = append(units, unit[K, P]{x: leaf(it, black), min: it.Key})
	}

	for len(units) > 1 {
		next := units[:0]
		for j := 0; j < len(units); j += 2 {
			next = append(next, join(units[j], units[j+1]))
		}
		units = next
	}
	s.root = units[0].x

	log.Debugf("Built priority search tree with %d entries, height %v",
		s.n, newLogClosure(func() string {
			return strconv.Itoa(s.root.height())
		}))
	return nil
}
