// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import "github.com/jba/pst/rng"

// 3-sided queries. A node whose resident is missing or below the floor has
// nothing at or above the floor anywhere in its subtree, so the search
// stops there. Otherwise it emits the resident if its key is in range and
// continues into each child whose keys can overlap the range.

// query returns the keys in r with priority at least bottom.
func query[K, P any](m pst[K, P], r rng.Range[K], bottom P) []K {
	var keys []K
	var visit func(x *node[K, P])
	visit = func(x *node[K, P]) {
		if !x.occupied() || m.comparePriorities(x.item.Priority, bottom) < 0 {
			return
		}
		if r.Contains(x.item.Key, m.compareKeys) {
			keys = append(keys, x.item.Key)
		}
		if x.isLeaf() {
			return
		}
		if r.ReachesBelow(x.split, m.compareKeys) {
			visit(x.left)
		}
		if r.BelowHigh(x.split, m.compareKeys) {
			visit(x.right)
		}
	}
	visit(m.state().root)
	return keys
}

// sortedQuery returns up to limit keys in r with priority at least bottom,
// largest item first.
func sortedQuery[K, P any](m pst[K, P], r rng.Range[K], bottom P, limit int) []K {
	if limit <= 0 {
		limit = m.state().n
	}
	// visit returns the matches in x's subtree, largest first. The resident
	// of x beats everything below it, so it leads the merged results of the
	// children.
	var visit func(x *node[K, P]) []Item[K, P]
	visit = func(x *node[K, P]) []Item[K, P] {
		if !x.occupied() || m.comparePriorities(x.item.Priority, bottom) < 0 {
			return nil
		}
		var res []Item[K, P]
		if r.Contains(x.item.Key, m.compareKeys) {
			res = append(res, x.item)
		}
		if x.isLeaf() || len(res) == limit {
			return res
		}
		var left, right []Item[K, P]
		if r.ReachesBelow(x.split, m.compareKeys) {
			left = visit(x.left)
		}
		if r.BelowHigh(x.split, m.compareKeys) {
			right = visit(x.right)
		}
		return mergeItems(m, res, left, right, limit)
	}

	items := visit(m.state().root)
	if len(items) == 0 {
		return nil
	}
	keys := make([]K, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}

// mergeItems appends to dst the largest items of a and b, both sorted
// largest first, until dst holds limit items.
func mergeItems[K, P any](m pst[K, P], dst, a, b []Item[K, P], limit int) []Item[K, P] {
	for len(dst) < limit && (len(a) > 0 || len(b) > 0) {
		if len(b) == 0 || len(a) > 0 && compareItems(m, a[0], b[0]) > 0 {
			dst = append(dst, a[0])
			a = a[1:]
		} else {
			dst = append(dst, b[0])
			b = b[1:]
		}
	}
	return dst
}
