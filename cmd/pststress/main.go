// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pststress runs randomized add, query and delete cycles against priority
// search trees, checking every query against a brute-force scan.
//
// Each worker owns one tree, so the workers share nothing and run in
// parallel. Use --verify to also check the tree invariants after every
// change, and --debuglevel=debug to log each cycle.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	if cfg.LogDir != "" {
		if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFile)); err != nil {
			return err
		}
		defer logRotator.Close()
	}
	setLogLevels(cfg.DebugLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	total, err := runWorkers(ctx, cfg)
	if err != nil {
		log.Errorf("Stress test failed: %v", err)
		return err
	}
	log.Infof("Stress test passed in %v: %d added, %d queries, %d deleted",
		time.Since(start).Round(time.Millisecond), total.added, total.queried, total.deleted)
	return nil
}

// runWorkers runs cfg.Workers workers and returns their combined stats.
// The first failure cancels the others.
func runWorkers(ctx context.Context, cfg *config) (stats, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Infof("Starting %d workers with seed %d", cfg.Workers, seed)

	workers := make([]*worker, cfg.Workers)
	for i := range workers {
		w, err := newWorker(i, cfg, seed)
		if err != nil {
			return stats{}, err
		}
		workers[i] = w
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error { return w.run(ctx) })
	}
	err := g.Wait()

	var total stats
	for _, w := range workers {
		total.added += w.stats.added
		total.queried += w.stats.queried
		total.deleted += w.stats.deleted
	}
	return total, err
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
