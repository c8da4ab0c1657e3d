// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pst

import (
	"bytes"
	"cmp"
	"fmt"
	"iter"
	"maps"
	"math/rand/v2"
	"slices"
	"testing"
	"testing/quick"

	"github.com/davecgh/go-spew/spew"
	"github.com/jba/pst/rng"
	"github.com/stretchr/testify/require"
)

type Interface interface {
	Len() int
	Get(key int) (int, bool)
	Contains(key int) bool
	Insert(key, pri int) error
	Set(key, pri int) (int, bool)
	SetDefault(key, pri int) int
	UpdatePriority(key, pri int) (int, error)
	Delete(key int) (int, error)
	MaxItem() (Item[int, int], error)
	PopMax() (Item[int, int], error)
	MinKey() (int, error)
	MaxKey() (int, error)
	Query(lo, hi, bottom int) []int
	QueryRange(r rng.Range[int], bottom int) []int
	SortedQuery(lo, hi, bottom, limit int) []int
	SortedQueryRange(r rng.Range[int], bottom, limit int) []int
	Keys() iter.Seq[int]
	Backward() iter.Seq[int]
	All() iter.Seq2[int, int]
	Scan(r rng.Range[int]) iter.Seq[int]
	Clear()
	Verify() error
	Root() NodeView[int, int]
}

func test(t *testing.T, f func(*testing.T, func() Interface)) {
	t.Run("Tree", func(t *testing.T) {
		f(t, func() Interface { return new(Tree[int, int]) })
	})
	t.Run("TreeFunc", func(t *testing.T) {
		f(t, func() Interface { return NewFunc[int, int](cmp.Compare, cmp.Compare) })
	})
}

// permute inserts the odd keys 1, 3, ..., 2n-1 in random order with small
// random priorities, so that ties are common. It returns the contents.
func permute(t *testing.T, m Interface, n int) map[int]int {
	t.Helper()
	want := map[int]int{}
	for _, x := range rand.Perm(n) {
		k, p := 2*x+1, rand.IntN(4)
		require.NoError(t, m.Insert(k, p))
		want[k] = p
		checkTree(t, m)
	}
	return want
}

func checkTree(t *testing.T, m Interface) {
	t.Helper()
	if err := m.Verify(); err != nil {
		t.Fatalf("%v\n%s", err, dump(m))
	}
}

// dump renders the tree as (split[key:priority] left right), with a * after
// the split of red nodes and [-] for empty nodes.
func dump(m Interface) string {
	var buf bytes.Buffer
	var walk func(NodeView[int, int])
	walk = func(v NodeView[int, int]) {
		if v.IsNil() {
			return
		}
		fmt.Fprintf(&buf, "(%d", v.Split())
		if v.Red() {
			buf.WriteByte('*')
		}
		if it, ok := v.Resident(); ok {
			fmt.Fprintf(&buf, "[%d:%d]", it.Key, it.Priority)
		} else {
			buf.WriteString("[-]")
		}
		if !v.IsLeaf() {
			buf.WriteByte(' ')
			walk(v.Left())
			buf.WriteByte(' ')
			walk(v.Right())
		}
		buf.WriteByte(')')
	}
	walk(m.Root())
	return buf.String()
}

// bruteQuery returns the keys of want in r with priority at least bottom,
// largest (priority, key) first.
func bruteQuery(want map[int]int, r rng.Range[int], bottom int) []int {
	var keys []int
	for k, p := range want {
		if p >= bottom && r.Contains(k, cmp.Compare[int]) {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b int) int {
		if c := cmp.Compare(want[b], want[a]); c != 0 {
			return c
		}
		return cmp.Compare(b, a)
	})
	return keys
}

// ranges returns every range over [0, n] with each end unbounded, open
// or closed.
func ranges(n int) iter.Seq[rng.Range[int]] {
	return func(yield func(rng.Range[int]) bool) {
		var los []rng.Range[int]
		los = append(los, rng.Unbounded[int]())
		for i := range n + 1 {
			los = append(los, rng.From(i), rng.Above(i))
		}
		for _, lo := range los {
			if !yield(lo) {
				return
			}
			for j := range n + 1 {
				if !yield(lo.To(j)) || !yield(lo.Below(j)) {
					return
				}
			}
		}
	}
}

func TestGet(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			want := permute(t, m, N)
			require.Equal(t, N, m.Len())
			for k := range 2*N + 1 {
				p, ok := m.Get(k)
				wp, wok := want[k]
				if p != wp || ok != wok {
					t.Fatalf("Get(%d) = %d, %v, want %d, %v\nM: %v", k, p, ok, wp, wok, dump(m))
				}
				require.Equal(t, wok, m.Contains(k))
			}
		}
	})
}

func TestInsertDuplicate(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		m := newTree()
		want := permute(t, m, 8)
		before := dump(m)
		for k := range want {
			err := m.Insert(k, 100)
			require.ErrorIs(t, err, ErrDuplicateKey)
			require.Equal(t, 8, m.Len())
			require.Equal(t, before, dump(m))
		}
		require.Equal(t, bruteQuery(want, rng.Unbounded[int](), 0), m.SortedQuery(0, 20, 0, 0))
	})
}

func TestSet(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		check := func(gotOld int, gotAdded bool) func(int, bool) {
			return func(wantOld int, wantAdded bool) {
				t.Helper()
				if gotOld != wantOld || gotAdded != wantAdded {
					t.Errorf("got %d, %t, want %d, %t", gotOld, gotAdded, wantOld, wantAdded)
				}
			}
		}

		m := newTree()
		check(m.Set(1, 10))(0, true)
		check(m.Set(2, 20))(0, true)
		check(m.Set(1, 5))(10, false)
		check(m.Set(1, 30))(5, false)
		checkTree(t, m)

		it, err := m.MaxItem()
		require.NoError(t, err)
		require.Equal(t, Item[int, int]{Key: 1, Priority: 30}, it)

		require.Equal(t, 20, m.SetDefault(2, 99))
		require.Equal(t, 7, m.SetDefault(3, 7))
		require.Equal(t, 3, m.Len())
		checkTree(t, m)
	})
}

func TestUpdatePriority(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			want := permute(t, m, N)
			for range 3 * N {
				k := 2*rand.IntN(N) + 1
				p := rand.IntN(10)
				old, err := m.UpdatePriority(k, p)
				require.NoError(t, err)
				require.Equal(t, want[k], old)
				want[k] = p
				checkTree(t, m)

				got, err := m.MaxItem()
				require.NoError(t, err)
				wk := bruteQuery(want, rng.Unbounded[int](), 0)[0]
				require.Equal(t, Item[int, int]{Key: wk, Priority: want[wk]}, got, spew.Sdump(want))
			}
			_, err := m.UpdatePriority(2*N+2, 1)
			require.ErrorIs(t, err, ErrKeyNotFound)
			require.Equal(t, N, m.Len())
		}
	})
}

func TestDelete(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			want := permute(t, m, N)
			for _, x := range rand.Perm(N) {
				k := 2*x + 1
				before := dump(m)

				// Deleting an absent key changes nothing.
				_, err := m.Delete(k + 1)
				require.ErrorIs(t, err, ErrKeyNotFound)
				require.Equal(t, before, dump(m))

				p, err := m.Delete(k)
				require.NoError(t, err, "\nM: %v", before)
				require.Equal(t, want[k], p)
				delete(want, k)
				checkTree(t, m)
				require.Equal(t, len(want), m.Len())
				require.False(t, m.Contains(k))
				require.Equal(t, bruteQuery(want, rng.Unbounded[int](), 0), m.SortedQuery(0, 2*N, 0, 0))
			}
			require.True(t, m.Root().IsNil())
			_, err := m.Delete(1)
			require.ErrorIs(t, err, ErrKeyNotFound)
		}
	})
}

func TestQuery(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 9 {
			m := newTree()
			want := permute(t, m, N)
			for lo := range 2*N + 1 {
				for hi := lo; hi <= 2*N; hi++ {
					for bottom := range 5 {
						r := rng.Closed(lo, hi)
						wantKeys := bruteQuery(want, r, bottom)
						got := m.Query(lo, hi, bottom)
						require.ElementsMatch(t, wantKeys, got, "Query(%d, %d, %d)\nM: %v", lo, hi, bottom, dump(m))
						require.Equal(t, wantKeys, m.SortedQuery(lo, hi, bottom, 0),
							"SortedQuery(%d, %d, %d)\nM: %v", lo, hi, bottom, dump(m))
					}
				}
			}
			// An inverted range matches nothing.
			require.Empty(t, m.Query(2*N, 0, 0))
		}
	})
}

func TestQueryRange(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 7 {
			m := newTree()
			want := permute(t, m, N)
			for r := range ranges(2 * N) {
				for bottom := range 4 {
					wantKeys := bruteQuery(want, r, bottom)
					require.ElementsMatch(t, wantKeys, m.QueryRange(r, bottom), "%s bottom %d\nM: %v", r, bottom, dump(m))
					require.Equal(t, wantKeys, m.SortedQueryRange(r, bottom, 0), "%s bottom %d\nM: %v", r, bottom, dump(m))
				}
			}
		}
	})
}

func TestSortedQueryLimit(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			want := permute(t, m, N)
			all := bruteQuery(want, rng.Unbounded[int](), 0)
			for limit := -1; limit <= N+1; limit++ {
				wantKeys := all
				if limit > 0 && limit < len(all) {
					wantKeys = all[:limit]
				}
				require.Equal(t, wantKeys, m.SortedQuery(0, 2*N, 0, limit), "limit %d\nM: %v", limit, dump(m))
			}
		}
	})
}

func TestEqualPriorities(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		m := newTree()
		for _, k := range rand.Perm(100) {
			require.NoError(t, m.Insert(k, 5))
		}
		checkTree(t, m)
		var want []int
		for k := 99; k >= 0; k-- {
			want = append(want, k)
		}
		require.Equal(t, want, m.SortedQuery(0, 99, 0, 0))
		require.Equal(t, want[:10], m.SortedQuery(0, 99, 5, 10))
		require.Empty(t, m.SortedQuery(0, 99, 6, 0))
	})
}

func TestPopMax(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			want := permute(t, m, N)
			order := bruteQuery(want, rng.Unbounded[int](), 0)
			for _, k := range order {
				it, err := m.PopMax()
				require.NoError(t, err)
				require.Equal(t, Item[int, int]{Key: k, Priority: want[k]}, it)
				checkTree(t, m)
			}
			_, err := m.PopMax()
			require.ErrorIs(t, err, ErrEmpty)
			_, err = m.MaxItem()
			require.ErrorIs(t, err, ErrEmpty)
		}
	})
}

func TestMinMaxKey(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			permute(t, m, N)
			lo, loErr := m.MinKey()
			hi, hiErr := m.MaxKey()
			if N == 0 {
				require.ErrorIs(t, loErr, ErrEmpty)
				require.ErrorIs(t, hiErr, ErrEmpty)
				continue
			}
			require.NoError(t, loErr)
			require.NoError(t, hiErr)
			require.Equal(t, 1, lo)
			require.Equal(t, 2*N-1, hi)
		}
	})
}

func TestKeys(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			m := newTree()
			want := permute(t, m, N)
			keys := slices.Sorted(maps.Keys(want))
			require.Equal(t, keys, nilIfEmpty(slices.Collect(m.Keys())))

			slices.Reverse(keys)
			require.Equal(t, keys, nilIfEmpty(slices.Collect(m.Backward())))

			got := map[int]int{}
			var last int
			for k, p := range m.All() {
				require.Greater(t, k, last)
				got[k], last = p, k
			}
			require.Equal(t, want, got)
		}
	})
}

func nilIfEmpty(s []int) []int {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestScan(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 8 {
			m := newTree()
			want := permute(t, m, N)
			keys := slices.Sorted(maps.Keys(want))
			for r := range ranges(2 * N) {
				var wantKeys []int
				for _, k := range keys {
					if r.Contains(k, cmp.Compare[int]) {
						wantKeys = append(wantKeys, k)
					}
				}
				require.Equal(t, wantKeys, nilIfEmpty(slices.Collect(m.Scan(r))), "%s\nM: %v", r, dump(m))

				rb := r.Backwards()
				slices.Reverse(wantKeys)
				require.Equal(t, wantKeys, nilIfEmpty(slices.Collect(m.Scan(rb))), "%s\nM: %v", rb, dump(m))
			}
		}
	})
}

func TestScanDelete(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		for N := range 11 {
			for _, backwards := range []bool{false, true} {
				m := newTree()
				permute(t, m, N)
				r := rng.Unbounded[int]()
				if backwards {
					r = r.Backwards()
				}
				var got []int
				for k := range m.Scan(r) {
					got = append(got, k)
					_, err := m.Delete(k)
					require.NoError(t, err)
					checkTree(t, m)
				}
				require.Len(t, got, N)
				require.Zero(t, m.Len())
			}
		}
	})
}

func TestScanInsert(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		m := newTree()
		permute(t, m, 10)
		// Even keys added ahead of the iteration are visited; those added
		// behind it are not.
		var got []int
		for k := range m.Keys() {
			got = append(got, k)
			if k%2 == 1 {
				m.Set(k+1, 0)
				m.Set(k-1, 0)
			}
		}
		want := []int{1}
		for k := 2; k <= 20; k++ {
			want = append(want, k)
		}
		require.Equal(t, want, got)
		require.Equal(t, 21, m.Len())
		checkTree(t, m)
	})
}

func TestClone(t *testing.T) {
	m, err := Build(maps.All(map[string]int{"a": 1, "b": 5, "c": 3, "d": 2, "e": 4}))
	require.NoError(t, err)
	c := m.Clone()
	require.NoError(t, c.Verify())
	_, err = m.Delete("b")
	require.NoError(t, err)
	require.True(t, c.Contains("b"))
	require.Equal(t, 5, c.Len())
	require.Equal(t, []string{"b", "e", "c", "d", "a"}, c.SortedQuery("a", "e", 0, 0))
	require.Equal(t, []string{"e", "c", "d", "a"}, m.SortedQuery("a", "e", 0, 0))

	f := NewFunc[int, string](cmp.Compare, cmp.Compare)
	f.Set(1, "x")
	fc := f.Clone()
	fc.Set(2, "y")
	require.Equal(t, 1, f.Len())
	require.Equal(t, 2, fc.Len())
	require.NoError(t, fc.Verify())
}

func TestClear(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		m := newTree()
		permute(t, m, 10)
		m.Clear()
		require.Zero(t, m.Len())
		require.Empty(t, slices.Collect(m.Keys()))
		checkTree(t, m)
		require.NoError(t, m.Insert(4, 4))
		require.Equal(t, []int{4}, m.Query(0, 10, 0))
	})
}

var scenario = []Item[int, int]{
	{0, 0}, {1, 1}, {2, 2}, {3, 6}, {4, 3}, {5, 4}, {6, 5}, {7, 8}, {8, 7},
}

func items(its []Item[int, int]) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, it := range its {
			if !yield(it.Key, it.Priority) {
				return
			}
		}
	}
}

func TestBuildScenario(t *testing.T) {
	m, err := Build(items(scenario))
	require.NoError(t, err)
	require.NoError(t, m.Verify())
	require.Equal(t, 9, m.Len())

	it, err := m.MaxItem()
	require.NoError(t, err)
	require.Equal(t, Item[int, int]{Key: 7, Priority: 8}, it)
	require.Equal(t, []int{7, 8, 3}, m.SortedQuery(0, 8, 0, 3))

	const want = "(5[7:8] " +
		"(3[3:6] (2[2:2] (1[1:1] (0*[0:0]) (1*[-])) (2[-])) (4[4:3] (3[-]) (4[-]))) " +
		"(7[8:7] (6[6:5] (5[5:4]) (6[-])) (8[-] (7[-]) (8[-]))))"
	require.Equal(t, want, dump(m))
}

func TestBuildSortedQuery(t *testing.T) {
	m, err := Build(items([]Item[int, int]{
		{0, 0}, {1, 6}, {2, 2}, {3, 7}, {4, 4}, {5, 2}, {6, 3}, {7, 5}, {8, 8},
	}))
	require.NoError(t, err)
	all := []int{8, 3, 1, 7, 4, 6, 5, 2, 0}
	for limit := 1; limit <= len(all); limit++ {
		require.Equal(t, all[:limit], m.SortedQuery(0, 8, 0, limit))
	}
	require.Equal(t, all, m.SortedQuery(0, 8, 0, 0))
}

func TestBuild(t *testing.T) {
	for N := range 40 {
		want := map[int]int{}
		for _, x := range rand.Perm(N) {
			want[x*3] = rand.IntN(N + 1)
		}
		m, err := Build(maps.All(want))
		require.NoError(t, err)
		require.NoError(t, m.Verify(), "N=%d\n%s", N, spew.Sdump(want))
		require.Equal(t, N, m.Len())
		require.Equal(t, bruteQuery(want, rng.Unbounded[int](), 0), m.SortedQuery(0, 3*N, 0, 0))

		// The result is an ordinary tree that keeps its invariants.
		for k := range want {
			_, err := m.Delete(k)
			require.NoError(t, err)
			require.NoError(t, m.Verify())
		}
	}
}

func TestBuildDuplicate(t *testing.T) {
	_, err := Build(items([]Item[int, int]{{1, 1}, {2, 2}, {1, 3}}))
	require.ErrorIs(t, err, ErrDuplicateKey)

	m := NewFunc[int, int](cmp.Compare, cmp.Compare)
	m.Set(5, 5)
	err = build(m, items([]Item[int, int]{{1, 1}, {1, 1}}))
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, 1, m.Len())
	require.True(t, m.Contains(5))
}

func TestBuildFunc(t *testing.T) {
	// Smallest priority first.
	m, err := BuildFunc(cmp.Compare[string], func(a, b float64) int { return cmp.Compare(b, a) },
		maps.All(map[string]float64{"x": 0.5, "y": 0.25, "z": 2}))
	require.NoError(t, err)
	require.NoError(t, m.Verify())
	it, err := m.MaxItem()
	require.NoError(t, err)
	require.Equal(t, Item[string, float64]{Key: "y", Priority: 0.25}, it)
	// A floor of 1 under the reversed order keeps priorities up to 1.
	require.Equal(t, []string{"y", "x"}, m.SortedQuery("a", "z", 1, 0))
}

func TestRoundTrip(t *testing.T) {
	f := func(keys []int16, pris []uint8) bool {
		var m Tree[int16, uint8]
		want := map[int16]uint8{}
		for i, k := range keys {
			var p uint8
			if i < len(pris) {
				p = pris[i]
			}
			m.Set(k, p)
			want[k] = p
			if m.Verify() != nil {
				return false
			}
		}
		if m.Len() != len(want) {
			return false
		}
		for _, k := range keys {
			if _, ok := want[k]; !ok {
				continue
			}
			p, err := m.Delete(k)
			if err != nil || p != want[k] {
				return false
			}
			delete(want, k)
			if m.Verify() != nil || m.Len() != len(want) {
				return false
			}
		}
		return m.Len() == 0
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRandomOperations(t *testing.T) {
	test(t, func(t *testing.T, newTree func() Interface) {
		m := newTree()
		want := map[int]int{}
		for i := range 2000 {
			k, p := rand.IntN(64), rand.IntN(16)
			switch rand.IntN(4) {
			case 0, 1:
				old, added := m.Set(k, p)
				wold, ok := want[k]
				require.Equal(t, !ok, added)
				require.Equal(t, wold, old)
				want[k] = p
			case 2:
				_, err := m.Delete(k)
				_, ok := want[k]
				require.Equal(t, ok, err == nil)
				delete(want, k)
			case 3:
				lo, hi := min(k, p*4), max(k, p*4)
				require.ElementsMatch(t, bruteQuery(want, rng.Closed(lo, hi), p/2), m.Query(lo, hi, p/2))
			}
			if i%50 == 0 {
				checkTree(t, m)
			}
		}
		checkTree(t, m)
		require.Equal(t, len(want), m.Len())
	})
}

func TestVerifyCorruption(t *testing.T) {
	for _, test := range []struct {
		name   string
		damage func(*Tree[int, int])
	}{
		{"red root", func(m *Tree[int, int]) { m.root.color = red }},
		{"length", func(m *Tree[int, int]) { m.n++ }},
		{"split", func(m *Tree[int, int]) { m.root.split++ }},
		{"heap order", func(m *Tree[int, int]) {
			x := m.root.left
			x.item, x.left.item = x.left.item, x.item
		}},
		{"lost resident", func(m *Tree[int, int]) { m.root.item.Key = 100 }},
		{"black height", func(m *Tree[int, int]) { m.root.right.color = red }},
	} {
		t.Run(test.name, func(t *testing.T) {
			m, err := Build(items(scenario))
			require.NoError(t, err)
			test.damage(m)
			require.Error(t, m.Verify())
		})
	}
}
