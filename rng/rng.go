// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng provides ranges: representations of sequences of ordered values.
//
// Ranges bound the keys visited by ranged queries and scans of a priority
// search tree. A range is built from one of the constructors and, when its
// upper end is still unbounded, narrowed with [Range.To] or [Range.Below]:
//
//	rng.From(3).Below(10)       // [3, 10)
//	rng.Above("a").To("m")      // ("a", "m"]
//	rng.Unbounded[int]().To(7)  // (-∞, 7]
package rng

import (
	"fmt"
	"strings"
)

// Range is a range of values of type T.
// T need not be ordered; that is, it is not constrained by [cmp.Ordered].
// It is up to the user to assign an ordering; Range simply represents
// the bounds of the range. Methods that look at values take the
// comparison function explicitly.
//
// The zero Range is an empty range.
type Range[T any] struct {
	lo, hi         T
	inclLo, inclHi bool
	infLo, infHi   bool
	rev            bool
}

func (r Range[T]) String() string {
	var b strings.Builder
	if r.infLo {
		b.WriteString("(-∞")
	} else {
		if r.inclLo {
			b.WriteByte('[')
		} else {
			b.WriteByte('(')
		}
		fmt.Fprint(&b, r.lo)
	}
	b.WriteString(", ")
	if r.infHi {
		b.WriteString("∞)")
	} else {
		fmt.Fprint(&b, r.hi)
		if r.inclHi {
			b.WriteByte(']')
		} else {
			b.WriteByte(')')
		}
	}
	if r.rev {
		b.WriteString(" backwards")
	}
	return b.String()
}

// IsBackwards reports whether the range is meant to be visited from its
// high end to its low end.
func (r Range[T]) IsBackwards() bool { return r.rev }

// Low returns the lower bound. If infinite is true, v is meaningless.
func (r Range[T]) Low() (v T, infinite, includes bool) {
	return r.lo, r.infLo, r.inclLo
}

// High returns the upper bound. If infinite is true, v is meaningless.
func (r Range[T]) High() (v T, infinite, includes bool) {
	return r.hi, r.infHi, r.inclHi
}

// Unbounded returns (-∞, ∞).
func Unbounded[T any]() Range[T] {
	return Range[T]{infLo: true, infHi: true}
}

// Closed returns [lo, hi].
func Closed[T any](lo, hi T) Range[T] {
	return Range[T]{lo: lo, hi: hi, inclLo: true, inclHi: true}
}

// [t, inf)
func From[T any](t T) Range[T] {
	return Range[T]{lo: t, inclLo: true, infHi: true}
}

// (t, inf)
func Above[T any](t T) Range[T] {
	return Range[T]{lo: t, inclLo: false, infHi: true}
}

// ..., t)
func (r Range[T]) Below(t T) Range[T] {
	if !r.infHi {
		panic("uninitialized Range")
	}
	r.hi = t
	r.infHi = false
	r.inclHi = false
	return r
}

// ..., t]
func (r Range[T]) To(t T) Range[T] {
	if !r.infHi {
		panic("uninitialized Range")
	}
	r.hi = t
	r.infHi = false
	r.inclHi = true
	return r
}

func (r Range[T]) Backwards() Range[T] {
	r.rev = true
	return r
}

// AboveLow reports whether v satisfies the lower bound of r.
func (r Range[T]) AboveLow(v T, cmp func(T, T) int) bool {
	if r.infLo {
		return true
	}
	c := cmp(v, r.lo)
	return c > 0 || c == 0 && r.inclLo
}

// BelowHigh reports whether v satisfies the upper bound of r.
func (r Range[T]) BelowHigh(v T, cmp func(T, T) int) bool {
	if r.infHi {
		return true
	}
	c := cmp(v, r.hi)
	return c < 0 || c == 0 && r.inclHi
}

// Contains reports whether v lies in r.
func (r Range[T]) Contains(v T, cmp func(T, T) int) bool {
	return r.AboveLow(v, cmp) && r.BelowHigh(v, cmp)
}

// ReachesBelow reports whether r may contain a value less than v.
// Its counterpart for values at or above v is BelowHigh.
func (r Range[T]) ReachesBelow(v T, cmp func(T, T) int) bool {
	return r.infLo || cmp(r.lo, v) < 0
}

// IsEmpty reports whether no value of a dense ordering can lie in r.
// For a discrete T such as int, a range like (1, 2) is not reported empty
// even though it holds no integer.
func (r Range[T]) IsEmpty(cmp func(T, T) int) bool {
	if r.infLo || r.infHi {
		return false
	}
	c := cmp(r.lo, r.hi)
	return c > 0 || c == 0 && !(r.inclLo && r.inclHi)
}
