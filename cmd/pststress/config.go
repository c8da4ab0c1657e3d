// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultItems      = 500
	defaultCycles     = 15
	defaultKeySpace   = 100_000
	defaultWorkers    = 4
	defaultDebugLevel = "info"
	defaultLogFile    = "pststress.log"
)

// config defines the configuration options for pststress.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to an INI configuration file"`
	Items      int    `short:"n" long:"items" description:"Maximum number of entries held by each tree"`
	Cycles     int    `short:"c" long:"cycles" description:"Number of add/query/delete cycles run by each worker"`
	KeySpace   int    `short:"k" long:"keyspace" description:"Keys and priorities are drawn from [0, keyspace)"`
	Workers    int    `short:"w" long:"workers" description:"Number of trees exercised in parallel"`
	Seed       uint64 `long:"seed" description:"Random seed; 0 picks one from the clock"`
	Verify     bool   `long:"verify" description:"Check the tree invariants after every change"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	LogDir     string `long:"logdir" description:"Directory to write a rotated log file to; none if empty"`
}

// loadConfig initializes and parses the config using an optional config
// file and command line options. Options on the command line override
// those in the file. Usage text for invalid options is written to usage.
func loadConfig(args []string, usage io.Writer) (*config, error) {
	cfg := config{
		Items:      defaultItems,
		Cycles:     defaultCycles,
		KeySpace:   defaultKeySpace,
		Workers:    defaultWorkers,
		DebugLevel: defaultDebugLevel,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the help flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := preParser.ParseArgs(args); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(usage, err)
		}
		return nil, err
	}

	parser := flags.NewParser(&cfg, flags.PassDoubleDash)
	if preCfg.ConfigFile != "" {
		err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintln(usage, err)
		parser.WriteHelp(usage)
		return nil, err
	}
	return &cfg, nil
}

func (cfg *config) validate() error {
	switch {
	case cfg.Items <= 0:
		return fmt.Errorf("items must be positive, got %d", cfg.Items)
	case cfg.Cycles <= 0:
		return fmt.Errorf("cycles must be positive, got %d", cfg.Cycles)
	case cfg.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	case cfg.KeySpace < cfg.Items:
		return fmt.Errorf("keyspace %d cannot hold %d distinct keys", cfg.KeySpace, cfg.Items)
	}
	if _, ok := btclog.LevelFromString(cfg.DebugLevel); !ok {
		return fmt.Errorf("the specified debug level [%v] is invalid", cfg.DebugLevel)
	}
	return nil
}
