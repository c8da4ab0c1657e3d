// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

// The functions in this file move residents between nodes. Each step
// relocates exactly one resident, so no item is ever held by two nodes
// once a call returns.

// compareItems orders items by priority, then by key.
func compareItems[K, P any](m pst[K, P], a, b Item[K, P]) int {
	if c := m.comparePriorities(a.Priority, b.Priority); c != 0 {
		return c
	}
	return m.compareKeys(a.Key, b.Key)
}

// placeDown makes it the resident of x. The item x held before is pushed
// one level down, toward the leaf of its own key, displacing that node's
// resident in turn, until an empty node absorbs the last one.
func placeDown[K, P any](m pst[K, P], x *node[K, P], it Item[K, P]) {
	for x != nil {
		if !x.full {
			x.item, x.full = it, true
			return
		}
		x.item, it = it, x.item
		if m.compareKeys(it.Key, x.split) < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	panic("pst: corrupt tree: resident pushed below a leaf")
}

// sink seats a new item starting at x. It descends toward the item's leaf
// and takes the first node whose resident is smaller, or that is empty.
func sink[K, P any](m pst[K, P], x *node[K, P], it Item[K, P]) {
	for x != nil {
		if !x.full || compareItems(m, it, x.item) > 0 {
			placeDown(m, x, it)
			return
		}
		if m.compareKeys(it.Key, x.split) < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	panic("pst: corrupt tree: no empty slot on the path of a new item")
}

// collapseUp discards the resident of x and refills it with the larger of
// its children's residents. The child that gave its resident away is
// refilled the same way, so the hole moves down until a node with no
// occupied children is left empty.
func collapseUp[K, P any](m pst[K, P], x *node[K, P]) {
	for x.occupied() {
		l, r := x.left, x.right
		switch {
		case l.occupied() && (!r.occupied() || compareItems(m, l.item, r.item) >= 0):
			x.item = l.item
			x = l
		case r.occupied():
			x.item = r.item
			x = r
		default:
			var zero Item[K, P]
			x.item, x.full = zero, false
			return
		}
	}
}

// findResident returns the node holding key's item, or nil.
func findResident[K, P any](m pst[K, P], key K) *node[K, P] {
	x := m.state().root
	for x.occupied() {
		if m.compareKeys(key, x.item.Key) == 0 {
			return x
		}
		if m.compareKeys(key, x.split) < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	return nil
}
