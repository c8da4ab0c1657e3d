// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import "fmt"

// find returns the leaf where key is or would be stored, and whether key
// is present. An internal node whose split equals key also proves key is
// present, since splits are always keys of the right subtree.
func find[K, P any](m pst[K, P], key K) (leaf *node[K, P], found bool) {
	x := m.state().root
	for x != nil {
		leaf = x
		c := m.compareKeys(key, x.split)
		if c == 0 {
			return x, true
		}
		if c < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	return leaf, false
}

// get returns key's priority.
func get[K, P any](m pst[K, P], key K) (P, bool) {
	if x := findResident(m, key); x != nil {
		return x.item.Priority, true
	}
	var zero P
	return zero, false
}

// add attaches a new leaf for key, which must not be present, next to
// the leaf where the search for key ended.
func add[K, P any](m pst[K, P], prev *node[K, P], key K, pri P) {
	s := m.state()
	it := Item[K, P]{Key: key, Priority: pri}
	s.n++
	s.mods++
	if prev == nil {
		s.root = &node[K, P]{split: key, item: it, full: true, color: black}
		return
	}

	// prev becomes internal and keeps its resident. Its old key moves to
	// a new leaf beside the leaf for key.
	leaf := &node[K, P]{split: key, color: red}
	moved := &node[K, P]{split: prev.split, color: red}
	if m.compareKeys(key, prev.split) < 0 {
		prev.setLeft(leaf)
		prev.setRight(moved)
	} else {
		prev.split = key
		prev.setLeft(moved)
		prev.setRight(leaf)
	}
	sink(m, s.root, it)
	fixInsert(m, leaf)
}

// insert adds key with priority pri. It fails if key is present.
func insert[K, P any](m pst[K, P], key K, pri P) error {
	prev, found := find(m, key)
	if found {
		return fmt.Errorf("%w %v", ErrDuplicateKey, key)
	}
	add(m, prev, key, pri)
	return nil
}

// set adds key with priority pri, or changes key's priority to pri.
func set[K, P any](m pst[K, P], key K, pri P) (old P, added bool) {
	prev, found := find(m, key)
	if found {
		old, _ = updatePriority(m, key, pri)
		return old, false
	}
	add(m, prev, key, pri)
	return old, true
}

// setDefault returns key's priority, adding key with priority pri first
// if it is missing.
func setDefault[K, P any](m pst[K, P], key K, pri P) P {
	prev, found := find(m, key)
	if found {
		p, _ := get(m, key)
		return p
	}
	add(m, prev, key, pri)
	return pri
}

// updatePriority gives key the priority pri and returns the previous one.
func updatePriority[K, P any](m pst[K, P], key K, pri P) (P, error) {
	x := findResident(m, key)
	if x == nil {
		var zero P
		return zero, fmt.Errorf("%w %v", ErrKeyNotFound, key)
	}
	old := x.item.Priority
	collapseUp(m, x)
	sink(m, m.state().root, Item[K, P]{Key: key, Priority: pri})
	return old, nil
}

// remove deletes key and returns its priority.
func remove[K, P any](m pst[K, P], key K) (P, error) {
	s := m.state()

	// tree is the highest node whose split is key: either an internal
	// node that routes to key's leaf as the minimum of its right subtree,
	// or, when key is the smallest key, the leaf itself.
	tree, found := find(m, key)
	if !found {
		var zero P
		return zero, fmt.Errorf("%w %v", ErrKeyNotFound, key)
	}
	leaf := tree
	for !leaf.isLeaf() {
		if m.compareKeys(key, leaf.split) < 0 {
			leaf = leaf.left
		} else {
			leaf = leaf.right
		}
	}

	holder := leaf
	for !(holder.full && m.compareKeys(holder.item.Key, key) == 0) {
		holder = holder.parent
	}
	pri := holder.item.Priority

	s.mods++
	if leaf == s.root {
		s.root, s.n = nil, 0
		return pri, nil
	}
	collapseUp(m, holder)

	// cut is the internal node removed together with leaf; keep takes
	// its place.
	var cut, keep *node[K, P]
	switch {
	case tree.left == nil:
		// leaf holds the smallest key and is a left child.
		cut, keep = leaf.parent, leaf.parent.right
	case tree.right == leaf:
		cut, keep = tree, tree.left
	default:
		// leaf is the leftmost leaf of tree's right subtree; the next key
		// becomes that subtree's minimum.
		tree.split = leaf.parent.split
		cut, keep = leaf.parent, leaf.parent.right
	}

	if cut.full {
		placeDown(m, cut, cut.item)
	}
	replaceChild(m, cut, keep)
	if cut.color == black {
		fixDelete(m, keep)
	}
	s.n--
	return pri, nil
}

// popMax removes and returns the item with the largest priority.
func popMax[K, P any](m pst[K, P]) (Item[K, P], error) {
	root := m.state().root
	if root == nil {
		return Item[K, P]{}, ErrEmpty
	}
	it := root.item
	if _, err := remove(m, it.Key); err != nil {
		panic("pst: corrupt tree: maximum item has no leaf")
	}
	return it, nil
}
