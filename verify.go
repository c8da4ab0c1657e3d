// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import "fmt"

// verify checks every structural invariant of the tree from scratch,
// without trusting any of the routines that maintain them.
func verify[K, P any](m pst[K, P]) error {
	err := verifyTree(m)
	if err != nil {
		log.Errorf("Priority search tree failed verification: %v", err)
	}
	return err
}

func verifyTree[K, P any](m pst[K, P]) error {
	s := m.state()
	if s.root == nil {
		if s.n != 0 {
			return fmt.Errorf("pst: empty tree has length %d", s.n)
		}
		return nil
	}
	if s.root.parent != nil {
		return fmt.Errorf("pst: root %v has a parent", s.root.split)
	}
	if s.root.isRed() {
		return fmt.Errorf("pst: root %v is red", s.root.split)
	}
	v := verifier[K, P]{m: m}
	if _, _, _, err := v.check(s.root); err != nil {
		return err
	}
	if v.leaves != s.n {
		return fmt.Errorf("pst: tree has %d leaves but length %d", v.leaves, s.n)
	}
	return nil
}

type verifier[K, P any] struct {
	m      pst[K, P]
	leaves int
}

// check verifies the subtree at x, which must not be nil, and returns its
// smallest and largest keys and its black height, counting nil as one.
func (v *verifier[K, P]) check(x *node[K, P]) (lo, hi K, bh int, err error) {
	m := v.m
	if x.isRed() && (x.left.isRed() || x.right.isRed()) {
		return lo, hi, 0, fmt.Errorf("pst: red node %v has a red child", x.split)
	}
	if err := v.checkResident(x); err != nil {
		return lo, hi, 0, err
	}

	if x.isLeaf() {
		v.leaves++
		if err := v.checkLeaf(x); err != nil {
			return lo, hi, 0, err
		}
		return x.split, x.split, 1 + blackness(x), nil
	}

	if x.left == nil || x.right == nil {
		return lo, hi, 0, fmt.Errorf("pst: internal node %v has one child", x.split)
	}
	if x.left.parent != x || x.right.parent != x {
		return lo, hi, 0, fmt.Errorf("pst: child of node %v has wrong parent", x.split)
	}
	llo, lhi, lbh, err := v.check(x.left)
	if err != nil {
		return lo, hi, 0, err
	}
	rlo, rhi, rbh, err := v.check(x.right)
	if err != nil {
		return lo, hi, 0, err
	}
	if lbh != rbh {
		return lo, hi, 0, fmt.Errorf("pst: node %v has black heights %d and %d", x.split, lbh, rbh)
	}
	if m.compareKeys(lhi, x.split) >= 0 {
		return lo, hi, 0, fmt.Errorf("pst: node %v has left key %v", x.split, lhi)
	}
	if m.compareKeys(rlo, x.split) != 0 {
		return lo, hi, 0, fmt.Errorf("pst: node %v has smallest right key %v", x.split, rlo)
	}
	return llo, rhi, lbh + blackness(x), nil
}

func blackness[K, P any](x *node[K, P]) int {
	if x.isBlack() {
		return 1
	}
	return 0
}

// checkResident verifies heap order at x and that the resident of x has
// its leaf below x.
func (v *verifier[K, P]) checkResident(x *node[K, P]) error {
	m := v.m
	if !x.full {
		if x.left.occupied() || x.right.occupied() {
			return fmt.Errorf("pst: empty node %v has a resident below it", x.split)
		}
		return nil
	}
	for _, c := range []*node[K, P]{x.left, x.right} {
		if c.occupied() && compareItems(m, x.item, c.item) <= 0 {
			return fmt.Errorf("pst: node %v holds %v above larger %v", x.split, x.item, c.item)
		}
	}
	y := x
	for !y.isLeaf() {
		if m.compareKeys(x.item.Key, y.split) < 0 {
			y = y.left
		} else {
			y = y.right
		}
	}
	if m.compareKeys(x.item.Key, y.split) != 0 {
		return fmt.Errorf("pst: node %v holds %v, whose key has no leaf below it", x.split, x.item)
	}
	return nil
}

// checkLeaf verifies that exactly one node on the path to x holds x's key.
func (v *verifier[K, P]) checkLeaf(x *node[K, P]) error {
	count := 0
	for y := x; y != nil; y = y.parent {
		if y.full && v.m.compareKeys(y.item.Key, x.split) == 0 {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("pst: key %v has %d residents", x.split, count)
	}
	return nil
}
