// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pstprint renders priority search trees and sets as text for
// debugging.
//
// A tree of nine entries prints like this, each node showing its split key
// and its resident:
//
//	5:(7, 8)
//	├────3:(3, 6)
//	│    ├────2:(2, 2)
//	│    │    ├────1:(1, 1)
//	│    │    │    ├────0:(0, 0)
//	│    │    │    └────1:[empty]
//	│    │    └────2:[empty]
//	│    └────4:(4, 3)
//	│         ├────3:[empty]
//	│         └────4:[empty]
//	└────7:(8, 7)
//	     ├────6:(6, 5)
//	     │    ├────5:(5, 4)
//	     │    └────6:[empty]
//	     └────8:[empty]
//	          ├────7:[empty]
//	          └────8:[empty]
//
// With color enabled, red nodes are printed in red, black nodes in white
// and empty nodes struck through.
package pstprint

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jba/pst"
	"github.com/jba/pst/pstset"
)

// Options control the rendering.
type Options struct {
	// Indent is the width of one level of nesting. Zero means 4.
	Indent int
	// Color enables ANSI colors even when the output is not a terminal.
	Color bool
}

const empty = "[empty]"

type printer struct {
	lines  []string
	indent int
	black  *color.Color
	red    *color.Color
	bEmpty *color.Color
	rEmpty *color.Color
}

func newPrinter(opts *Options) *printer {
	if opts == nil {
		opts = &Options{}
	}
	p := &printer{
		indent: opts.Indent,
		black:  color.New(color.FgWhite),
		red:    color.New(color.FgRed),
		bEmpty: color.New(color.FgWhite, color.CrossedOut),
		rEmpty: color.New(color.FgRed, color.CrossedOut),
	}
	if p.indent <= 0 {
		p.indent = 4
	}
	for _, c := range []*color.Color{p.black, p.red, p.bEmpty, p.rEmpty} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// branch returns the prefixes for the children of a node printed with the
// given indentation: the connector and indentation of a middle child, and
// those of the last child.
func (p *printer) branch(indent string) (midSym, midIndent, lastSym, lastIndent string) {
	pad := strings.Repeat(" ", p.indent)
	return indent + "├", indent + "│" + pad, indent + "└", indent + " " + pad
}

func (p *printer) add(symbol, text string) {
	if symbol == "" {
		p.lines = append(p.lines, text)
		return
	}
	p.lines = append(p.lines, symbol+strings.Repeat("─", p.indent)+text)
}

func (p *printer) write(w io.Writer) error {
	_, err := fmt.Fprintln(w, strings.Join(p.lines, "\n"))
	return err
}

// FprintTree writes the subtree rooted at root to w, one node per line.
func FprintTree[K, P any](w io.Writer, root pst.NodeView[K, P], opts *Options) error {
	p := newPrinter(opts)
	if root.IsNil() {
		p.add("", empty)
		return p.write(w)
	}
	var walk func(x pst.NodeView[K, P], symbol, indent string)
	walk = func(x pst.NodeView[K, P], symbol, indent string) {
		if x.IsNil() {
			return
		}
		p.add(symbol, paint(p, x, label(x)))
		midSym, midIndent, lastSym, lastIndent := p.branch(indent)
		walk(x.Left(), midSym, midIndent)
		walk(x.Right(), lastSym, lastIndent)
	}
	walk(root, "", "")
	return p.write(w)
}

// SprintTree returns the text written by [FprintTree].
func SprintTree[K, P any](root pst.NodeView[K, P], opts *Options) string {
	var b strings.Builder
	FprintTree(&b, root, opts)
	return b.String()
}

// label describes a tree node by its split key and resident.
func label[K, P any](x pst.NodeView[K, P]) string {
	if it, ok := x.Resident(); ok {
		return fmt.Sprintf("%v:(%v, %v)", x.Split(), it.Key, it.Priority)
	}
	return fmt.Sprintf("%v:%s", x.Split(), empty)
}

// paint colors text after the color of x, striking it through when x
// has no resident.
func paint[K, P any](p *printer, x pst.NodeView[K, P], text string) string {
	_, full := x.Resident()
	var c *color.Color
	switch {
	case x.Red() && full:
		c = p.red
	case x.Red():
		c = p.rEmpty
	case full:
		c = p.black
	default:
		c = p.bEmpty
	}
	return c.Sprint(text)
}

// FprintSet writes the values of s to w in the heap shape of the tree
// behind it: every value is printed above the values of smaller priority
// that reside below it. Empty nodes are left out.
func FprintSet[V any, K, P cmp.Ordered](w io.Writer, s *pstset.Set[V, K, P], opts *Options) error {
	p := newPrinter(opts)
	root := s.Root()
	if !occupied(root) {
		p.add("", empty)
		return p.write(w)
	}
	var walk func(x pst.NodeView[K, P], symbol, indent string)
	walk = func(x pst.NodeView[K, P], symbol, indent string) {
		if !occupied(x) {
			return
		}
		it, _ := x.Resident()
		v, _ := s.Lookup(it.Key)
		p.add(symbol, paint(p, x, fmt.Sprint(v)))
		midSym, midIndent, lastSym, lastIndent := p.branch(indent)
		if occupied(x.Right()) {
			walk(x.Left(), midSym, midIndent)
		} else {
			walk(x.Left(), lastSym, lastIndent)
		}
		walk(x.Right(), lastSym, lastIndent)
	}
	walk(root, "", "")
	return p.write(w)
}

// SprintSet returns the text written by [FprintSet].
func SprintSet[V any, K, P cmp.Ordered](s *pstset.Set[V, K, P], opts *Options) string {
	var b strings.Builder
	FprintSet(&b, s, opts)
	return b.String()
}

func occupied[K, P any](x pst.NodeView[K, P]) bool {
	if x.IsNil() {
		return false
	}
	_, ok := x.Resident()
	return ok
}
