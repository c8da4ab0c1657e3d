// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

type color byte

const (
	black color = iota
	red
)

func (c color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

// An Item is a key together with its priority.
type Item[K, P any] struct {
	Key      K
	Priority P
}

// A node is a vertex of the tree.
//
// A node is a leaf when both children are nil, and then split is the key
// it stores. Otherwise it has two children and split is the smallest key
// of its right subtree, used only for routing.
//
// Independently of its role, a node may hold one resident item. Every item
// in the tree resides in exactly one node, somewhere on the path from the
// root to the leaf of its key, and no resident is smaller than a resident
// below it. A node without a resident has no residents in its subtree.
//
// nil is the sentinel: it is black, empty and never written through.
type node[K, P any] struct {
	parent *node[K, P]
	left   *node[K, P]
	right  *node[K, P]
	split  K
	item   Item[K, P]
	full   bool
	color  color
}

func (x *node[K, P]) isLeaf() bool {
	return x.left == nil && x.right == nil
}

func (x *node[K, P]) occupied() bool {
	return x != nil && x.full
}

func (x *node[K, P]) isBlack() bool {
	return x == nil || x.color == black
}

func (x *node[K, P]) isRed() bool {
	return x != nil && x.color == red
}

// setLeft makes y the left child of x.
func (x *node[K, P]) setLeft(y *node[K, P]) {
	x.left = y
	if y != nil {
		y.parent = x
	}
}

// setRight makes y the right child of x.
func (x *node[K, P]) setRight(y *node[K, P]) {
	x.right = y
	if y != nil {
		y.parent = x
	}
}

// minLeaf returns the leftmost leaf in x's subtree.
// x must not be nil.
func (x *node[K, P]) minLeaf() *node[K, P] {
	for x.left != nil {
		x = x.left
	}
	return x
}

// maxLeaf returns the rightmost leaf in x's subtree.
// x must not be nil.
func (x *node[K, P]) maxLeaf() *node[K, P] {
	for x.right != nil {
		x = x.right
	}
	return x
}

// nextLeaf returns the leaf following the leaf x in key order, or nil.
func (x *node[K, P]) nextLeaf() *node[K, P] {
	for x.parent != nil && x.parent.right == x {
		x = x.parent
	}
	if x.parent == nil {
		return nil
	}
	return x.parent.right.minLeaf()
}

// prevLeaf returns the leaf preceding the leaf x in key order, or nil.
func (x *node[K, P]) prevLeaf() *node[K, P] {
	for x.parent != nil && x.parent.left == x {
		x = x.parent
	}
	if x.parent == nil {
		return nil
	}
	return x.parent.left.maxLeaf()
}

func (x *node[K, P]) height() int {
	if x == nil {
		return 0
	}
	return 1 + max(x.left.height(), x.right.height())
}

func (x *node[K, P]) clone(parent *node[K, P]) *node[K, P] {
	if x == nil {
		return nil
	}
	c := *x
	x2 := &c
	x2.left = x.left.clone(x2)
	x2.right = x.right.clone(x2)
	x2.parent = parent
	return x2
}
