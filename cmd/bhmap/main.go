// SPDX-License-Identifier: MIT

// bhmap is an interactive shell over a byte-keyed robin-hood hash map.
//
// Usage:
//
//	bhmap [options]
//
// Options:
//
//	-k, --key-size      Key size in bytes (default 16)
//	-v, --value-size    Value size in bytes (default 16)
//	    --hash          xxhash, metro or identity (default xxhash)
//	    --allocator     go or mmap (default go)
//	    --limit         Memory budget in bytes, 0 for none
//	-c, --config        Config file (JSON with comments)
//	    --log-level     debug, info, warn or error (default warn)
//	    --history       History file (default ~/.bhmap_history)
//	    --print-config  Print the effective configuration and exit
//
// Settings come from the built-in defaults, then the config file
// ($XDG_CONFIG_HOME/bhmap/config.json or ~/.config/bhmap/config.json unless
// --config is given), then the flags.
//
// Commands (in REPL): put, get, del, scan, len, info, reserve, clear, seq,
// bench, save, load, metrics, config, help, exit. Type 'help' for details.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/bhlib/hashfn"
	"github.com/katalvlaran/bhlib/hashmap"
	"github.com/katalvlaran/bhlib/mem"
)

func main() {
	if err := run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags turns the command line into config overrides.
func parseFlags(args []string, stderr io.Writer) (overrides Config, configPath string, printOnly bool, err error) {
	fs := flag.NewFlagSet("bhmap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVarP(&overrides.KeySize, "key-size", "k", 0, "key size in bytes")
	fs.IntVarP(&overrides.ValueSize, "value-size", "v", 0, "value size in bytes")
	fs.StringVar(&overrides.Hash, "hash", "", "hash function: xxhash, metro or identity")
	fs.StringVar(&overrides.Allocator, "allocator", "", "allocator: go or mmap")
	fs.Uint64Var(&overrides.Limit, "limit", 0, "memory budget in bytes (0 for none)")
	fs.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&overrides.History, "history", "", "history file")
	fs.StringVarP(&configPath, "config", "c", "", "config file")
	fs.BoolVar(&printOnly, "print-config", false, "print the effective configuration and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bhmap [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err = fs.Parse(args); err != nil {
		return Config{}, "", false, err
	}
	if fs.NArg() > 0 {
		fs.Usage()

		return Config{}, "", false, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	return overrides, configPath, printOnly, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.DisableStacktrace = true

	return zc.Build()
}

// buildAllocator stacks the configured base allocator under the optional
// budget, the metrics and the logging decorators.
func buildAllocator(cfg Config, reg prometheus.Registerer, logger *zap.Logger) (mem.Allocator, *mem.LimitAllocator, error) {
	var base mem.Allocator = mem.GoAllocator{}
	if cfg.Allocator == "mmap" {
		base = mem.NewMmapAllocator()
	}

	var limit *mem.LimitAllocator
	if cfg.Limit > 0 {
		limit = mem.NewLimitAllocator(base, cfg.Limit)
		base = limit
	}

	metered, err := mem.NewMetricsAllocator(base, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("registering metrics: %w", err)
	}

	return mem.NewLoggingAllocator(metered, logger), limit, nil
}

// newShell builds the map and REPL for cfg.
func newShell(cfg Config, out io.Writer, logger *zap.Logger) (*REPL, error) {
	reg := prometheus.NewRegistry()
	alloc, limit, err := buildAllocator(cfg, reg, logger)
	if err != nil {
		return nil, err
	}
	hash, _ := hashfn.Named(cfg.Hash)

	m, err := hashmap.New(cfg.KeySize, cfg.ValueSize, hashfn.Bytes, hash, hashmap.WithAllocator(alloc))
	if err != nil {
		return nil, fmt.Errorf("creating map: %w", err)
	}

	return &REPL{m: m, cfg: cfg, out: out, logger: logger, reg: reg, limit: limit}, nil
}

func run(args, env []string, stdout, stderr io.Writer) error {
	overrides, configPath, printOnly, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, source, err := LoadConfig(configPath, overrides, env)
	if err != nil {
		return err
	}
	if printOnly {
		s, err := FormatConfig(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, s)

		return nil
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if source != "" {
		logger.Info("config loaded", zap.String("path", source))
	}

	shell, err := newShell(cfg, stdout, logger)
	if err != nil {
		return err
	}
	defer shell.m.Free()

	return shell.Run()
}
