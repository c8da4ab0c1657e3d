// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import "errors"

var (
	// ErrDuplicateKey is returned when a key that is already present is
	// inserted with Insert, or occurs twice in the input of Build.
	ErrDuplicateKey = errors.New("pst: duplicate key")

	// ErrKeyNotFound is returned when an operation names a key that is not
	// in the tree.
	ErrKeyNotFound = errors.New("pst: key not found")

	// ErrEmpty is returned by operations that need at least one entry.
	ErrEmpty = errors.New("pst: empty tree")
)
