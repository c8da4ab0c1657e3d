// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import (
	"iter"

	"github.com/jba/pst/rng"
)

// descend returns the leaf reached by routing key down from the root,
// or nil if the tree is empty. The keys of the leaves on either side of
// it are strictly less and strictly greater than key.
func descend[K, P any](m pst[K, P], key K) *node[K, P] {
	x := m.state().root
	for x != nil && !x.isLeaf() {
		if m.compareKeys(key, x.split) < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	return x
}

// ceiling returns the leaf with the least key greater than key (or equal
// to it, if incl), or nil.
func ceiling[K, P any](m pst[K, P], key K, incl bool) *node[K, P] {
	x := descend(m, key)
	if x == nil {
		return nil
	}
	if c := m.compareKeys(x.split, key); c > 0 || c == 0 && incl {
		return x
	}
	return x.nextLeaf()
}

// floor returns the leaf with the greatest key less than key (or equal
// to it, if incl), or nil.
func floor[K, P any](m pst[K, P], key K, incl bool) *node[K, P] {
	x := descend(m, key)
	if x == nil {
		return nil
	}
	if c := m.compareKeys(x.split, key); c < 0 || c == 0 && incl {
		return x
	}
	return x.prevLeaf()
}

// leaves returns an iterator over the leaves whose keys lie in r, in the
// direction of r. When the leaves of the tree change between steps, the
// iterator finds its place again by the last key it yielded.
func leaves[K, P any](m pst[K, P], r rng.Range[K]) iter.Seq[*node[K, P]] {
	return func(yield func(*node[K, P]) bool) {
		s := m.state()
		rev := r.IsBackwards()
		var x *node[K, P]
		switch lo, loInf, loIncl := r.Low(); {
		case rev:
			if hi, hiInf, hiIncl := r.High(); hiInf {
				if s.root != nil {
					x = s.root.maxLeaf()
				}
			} else {
				x = floor(m, hi, hiIncl)
			}
		case loInf:
			if s.root != nil {
				x = s.root.minLeaf()
			}
		default:
			x = ceiling(m, lo, loIncl)
		}

		for x != nil {
			if rev && !r.AboveLow(x.split, m.compareKeys) ||
				!rev && !r.BelowHigh(x.split, m.compareKeys) {
				return
			}
			key, mods := x.split, s.mods
			if !yield(x) {
				return
			}
			switch {
			case s.mods != mods && rev:
				x = floor(m, key, false)
			case s.mods != mods:
				x = ceiling(m, key, false)
			case rev:
				x = x.prevLeaf()
			default:
				x = x.nextLeaf()
			}
		}
	}
}

func scan[K, P any](m pst[K, P], r rng.Range[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for x := range leaves(m, r) {
			if !yield(x.split) {
				return
			}
		}
	}
}

func all[K, P any](m pst[K, P]) iter.Seq2[K, P] {
	return func(yield func(K, P) bool) {
		for x := range leaves(m, rng.Unbounded[K]()) {
			if !yield(x.split, residentOf(m, x).item.Priority) {
				return
			}
		}
	}
}

// residentOf returns the node holding the item of the leaf x.
func residentOf[K, P any](m pst[K, P], x *node[K, P]) *node[K, P] {
	key := x.split
	for y := x; y != nil; y = y.parent {
		if y.full && m.compareKeys(y.item.Key, key) == 0 {
			return y
		}
	}
	panic("pst: corrupt tree: key without resident")
}
