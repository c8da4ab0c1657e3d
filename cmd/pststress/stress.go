// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/jba/pst/pstprint"
	"github.com/jba/pst/pstset"
)

// An entry is a point stored by a worker. Serial tells entries with equal
// keys and priorities from different cycles apart.
type entry struct {
	Key, Priority int
	Serial        int
}

func (e entry) String() string {
	return fmt.Sprintf("(%d, %d #%d)", e.Key, e.Priority, e.Serial)
}

func entryKey(e entry) int      { return e.Key }
func entryPriority(e entry) int { return e.Priority }

// stats counts the work done by one worker.
type stats struct {
	added, queried, deleted int
}

// worker runs cfg.Cycles add/query/delete cycles against a set of its
// own, checking each query against a brute-force scan of its entries.
type worker struct {
	id     int
	cfg    *config
	rnd    *rand.Rand
	set    *pstset.Set[entry, int, int]
	oracle map[int]entry
	serial int
	stats  stats
}

func newWorker(id int, cfg *config, seed uint64) (*worker, error) {
	s, err := pstset.New(entryKey, entryPriority)
	if err != nil {
		return nil, err
	}
	return &worker{
		id:     id,
		cfg:    cfg,
		rnd:    rand.New(rand.NewPCG(seed, uint64(id))),
		set:    s,
		oracle: map[int]entry{},
	}, nil
}

func (w *worker) run(ctx context.Context) error {
	for cycle := range w.cfg.Cycles {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.cycle(); err != nil {
			if w.set.Len() <= 64 {
				log.Errorf("Worker %d set at failure:\n%s", w.id, pstprint.SprintSet(w.set, nil))
			}
			return fmt.Errorf("worker %d, cycle %d: %w", w.id, cycle, err)
		}
		log.Debugf("Worker %d: cycle %d processed, %d entries in tree", w.id, cycle, w.set.Len())
	}
	return nil
}

// cycle fills the set with a random number of new entries, queries a
// random 3-sided range and deletes everything the query reported.
func (w *worker) cycle() error {
	n := w.rnd.IntN(w.cfg.Items - len(w.oracle) + 1)
	for range n {
		e := entry{Key: w.freeKey(), Priority: w.rnd.IntN(w.cfg.KeySpace), Serial: w.serial}
		w.serial++
		if !w.set.Add(e) {
			return fmt.Errorf("key %d reported present before it was added", e.Key)
		}
		w.oracle[e.Key] = e
		w.stats.added++
		if err := w.check(); err != nil {
			return err
		}
	}

	lo := w.rnd.IntN(w.cfg.KeySpace)
	hi := lo + w.rnd.IntN(w.cfg.KeySpace-lo)
	bottom := entry{Priority: w.rnd.IntN(w.cfg.KeySpace)}
	got := w.set.Query(entry{Key: lo}, entry{Key: hi}, bottom)
	want := w.brute(lo, hi, bottom.Priority)
	w.stats.queried++
	if err := sameEntries(got, want); err != nil {
		return fmt.Errorf("query [%d, %d] bottom %d: %w", lo, hi, bottom.Priority, err)
	}
	sorted := w.set.SortedQuery(entry{Key: lo}, entry{Key: hi}, bottom, 10)
	if len(want) > 10 {
		want = want[:10]
	}
	if !slices.Equal(sorted, want) {
		return fmt.Errorf("sorted query [%d, %d] bottom %d: got %v, want %v", lo, hi, bottom.Priority, sorted, want)
	}

	for _, e := range got {
		if err := w.set.Remove(e); err != nil {
			return err
		}
		delete(w.oracle, e.Key)
		w.stats.deleted++
		if err := w.check(); err != nil {
			return err
		}
	}
	return nil
}

// freeKey returns a random key that is not in use.
func (w *worker) freeKey() int {
	for {
		k := w.rnd.IntN(w.cfg.KeySpace)
		if _, ok := w.oracle[k]; !ok {
			return k
		}
	}
}

func (w *worker) check() error {
	if w.set.Len() != len(w.oracle) {
		return fmt.Errorf("set has %d entries, want %d", w.set.Len(), len(w.oracle))
	}
	if !w.cfg.Verify {
		return nil
	}
	return w.set.Verify()
}

// brute returns the matching entries, largest priority first.
func (w *worker) brute(lo, hi, bottom int) []entry {
	var es []entry
	for _, e := range w.oracle {
		if lo <= e.Key && e.Key <= hi && e.Priority >= bottom {
			es = append(es, e)
		}
	}
	slices.SortFunc(es, compareEntries)
	return es
}

// compareEntries orders entries by decreasing priority, then key.
func compareEntries(a, b entry) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return cmp.Compare(b.Key, a.Key)
}

// sameEntries reports how got differs from want, ignoring order.
func sameEntries(got, want []entry) error {
	got = slices.Clone(got)
	slices.SortFunc(got, compareEntries)
	if !slices.Equal(got, want) {
		return fmt.Errorf("got %v, want %v", got, want)
	}
	return nil
}
