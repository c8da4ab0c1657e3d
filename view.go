// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

// A NodeView is a read-only handle on one node of a tree, for printing
// and diagnostics. The zero NodeView stands for a missing node.
// A NodeView is invalidated by any change to its tree.
type NodeView[K, P any] struct {
	x *node[K, P]
}

// IsNil reports whether v stands for a missing node.
func (v NodeView[K, P]) IsNil() bool { return v.x == nil }

// IsLeaf reports whether v is a leaf, holding the key Split.
func (v NodeView[K, P]) IsLeaf() bool { return v.x != nil && v.x.isLeaf() }

func (v NodeView[K, P]) Left() NodeView[K, P]  { return NodeView[K, P]{v.x.left} }
func (v NodeView[K, P]) Right() NodeView[K, P] { return NodeView[K, P]{v.x.right} }

// Split returns the key of a leaf, or the smallest key of the right
// subtree of an internal node.
func (v NodeView[K, P]) Split() K { return v.x.split }

// Resident returns the item held by v, if any.
func (v NodeView[K, P]) Resident() (Item[K, P], bool) {
	return v.x.item, v.x.full
}

// Red reports whether v is colored red.
func (v NodeView[K, P]) Red() bool { return v.x.isRed() }
