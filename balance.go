// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

// Red-black rebalancing. Leaves are never rotated: every rotation below
// pivots two internal nodes, and each one moves residents so that the
// node that ends up on top again holds the largest item of its subtree.

// replaceChild makes y take x's place under x's parent (or as the root).
func replaceChild[K, P any](m pst[K, P], x, y *node[K, P]) {
	p := x.parent
	y.parent = p
	switch {
	case p == nil:
		m.state().root = y
	case p.left == x:
		p.left = y
	case p.right == x:
		p.right = y
	default:
		// unreachable
		panic("pst: corrupt tree")
	}
}

// rotateLeft rotates the subtree rooted at node x,
// turning (x a (y b c)) into (y (x a b) c).
func rotateLeft[K, P any](m pst[K, P], x *node[K, P]) {
	y := x.right
	// y takes over x's resident, which is the largest of the subtree.
	if x.full {
		placeDown(m, y, x.item)
	}
	x.setRight(y.left)
	replaceChild(m, x, y)
	y.setLeft(x)
	collapseUp(m, x)
}

// rotateRight rotates the subtree rooted at node x,
// turning (x (y a b) c) into (y a (x b c)).
func rotateRight[K, P any](m pst[K, P], x *node[K, P]) {
	y := x.left
	if x.full {
		placeDown(m, y, x.item)
	}
	x.setLeft(y.right)
	replaceChild(m, x, y)
	y.setRight(x)
	collapseUp(m, x)
}

// fixInsert restores the red-black invariants after x, a new red leaf,
// was attached.
func fixInsert[K, P any](m pst[K, P], x *node[K, P]) {
	for x.parent.isRed() {
		p := x.parent
		g := p.parent
		if g.right == p {
			if u := g.left; u.isRed() {
				u.color = black
				p.color = black
				g.color = red
				x = g
				continue
			}
			if p.left == x {
				x = p
				rotateRight(m, x)
			}
			x.parent.color = black
			x.parent.parent.color = red
			rotateLeft(m, x.parent.parent)
		} else {
			if u := g.right; u.isRed() {
				u.color = black
				p.color = black
				g.color = red
				x = g
				continue
			}
			if p.right == x {
				x = p
				rotateLeft(m, x)
			}
			x.parent.color = black
			x.parent.parent.color = red
			rotateRight(m, x.parent.parent)
		}
	}
	m.state().root.color = black
}

// fixDelete restores the red-black invariants after x took the place of
// a removed black node.
func fixDelete[K, P any](m pst[K, P], x *node[K, P]) {
	for x != m.state().root && x.isBlack() {
		if x == x.parent.left {
			s := x.parent.right
			if s.isRed() {
				s.color = black
				x.parent.color = red
				rotateLeft(m, x.parent)
				s = x.parent.right
			}
			if s.left.isBlack() && s.right.isBlack() {
				s.color = red
				x = x.parent
				continue
			}
			if s.right.isBlack() {
				s.left.color = black
				s.color = red
				rotateRight(m, s)
				s = x.parent.right
			}
			s.color = x.parent.color
			x.parent.color = black
			s.right.color = black
			rotateLeft(m, x.parent)
			x = m.state().root
		} else {
			s := x.parent.left
			if s.isRed() {
				s.color = black
				x.parent.color = red
				rotateRight(m, x.parent)
				s = x.parent.left
			}
			if s.left.isBlack() && s.right.isBlack() {
				s.color = red
				x = x.parent
				continue
			}
			if s.left.isBlack() {
				s.right.color = black
				s.color = red
				rotateLeft(m, s)
				s = x.parent.left
			}
			s.color = x.parent.color
			x.parent.color = black
			s.left.color = black
			rotateRight(m, x.parent)
			x = m.state().root
		}
	}
	x.color = black
}
