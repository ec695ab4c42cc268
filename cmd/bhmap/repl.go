// SPDX-License-Identifier: MIT

package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/katalvlaran/bhlib/hashmap"
	"github.com/katalvlaran/bhlib/mem"
)

// REPL is the interactive command loop over one map.
type REPL struct {
	m      *hashmap.Raw
	cfg    Config
	out    io.Writer
	logger *zap.Logger
	reg    *prometheus.Registry
	limit  *mem.LimitAllocator // nil without a budget
	liner  *liner.State
}

var commands = []string{
	"put", "get", "del", "delete",
	"scan", "ls", "len", "count",
	"info", "reserve", "clear",
	"seq", "bench", "save", "load",
	"metrics", "config", "help", "exit", "quit", "q",
}

// historyFile returns the configured history path, or ~/.bhmap_history.
func (r *REPL) historyFile() string {
	if r.cfg.History != "" {
		return r.cfg.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".bhmap_history")
}

// Run reads commands until exit or end of input.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(completer)

	if f, err := os.Open(r.historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		_ = f.Close()
	}
	defer r.saveHistory()

	fmt.Fprintf(r.out, "bhmap - robin-hood map shell (key_size=%d, value_size=%d, hash=%s)\n",
		r.cfg.KeySize, r.cfg.ValueSize, r.cfg.Hash)
	fmt.Fprintln(r.out, "Type 'help' for available commands.")
	fmt.Fprintln(r.out)

	for {
		line, err := r.liner.Prompt("bhmap> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nBye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		if quit := r.exec(line); quit {
			return nil
		}
	}
}

func (r *REPL) saveHistory() {
	path := r.historyFile()
	if path == "" {
		return
	}
	f, err := os.Create(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		r.logger.Warn("cannot save history", zap.String("path", path), zap.Error(err))

		return
	}
	_, _ = r.liner.WriteHistory(f)
	_ = f.Close()
}

func completer(line string) []string {
	var out []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}

	return out
}

// exec runs one command line and reports whether the shell should exit.
func (r *REPL) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]
	r.logger.Debug("command", zap.String("cmd", cmd), zap.Strings("args", args))

	switch cmd {
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Bye!")

		return true
	case "help", "?":
		r.printHelp()
	case "put":
		r.cmdPut(args)
	case "get":
		r.cmdGet(args)
	case "del", "delete":
		r.cmdDelete(args)
	case "scan", "ls":
		r.cmdScan(args)
	case "len", "count":
		fmt.Fprintln(r.out, r.m.Len())
	case "info":
		r.cmdInfo()
	case "reserve":
		r.cmdReserve(args)
	case "clear":
		r.m.Clear()
		fmt.Fprintln(r.out, "OK: cleared")
	case "seq":
		r.cmdSeq(args)
	case "bench":
		r.cmdBench(args)
	case "save":
		r.cmdSave(args)
	case "load":
		r.cmdLoad(args)
	case "metrics":
		r.cmdMetrics()
	case "config":
		s, err := FormatConfig(r.cfg)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)

			break
		}
		fmt.Fprintln(r.out, s)
	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return false
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  put <key> <value>      Insert or update an entry")
	fmt.Fprintln(r.out, "  get <key>              Look up an entry")
	fmt.Fprintln(r.out, "  del <key>              Delete an entry")
	fmt.Fprintln(r.out, "  scan [limit]           List entries in bucket order")
	fmt.Fprintln(r.out, "  len                    Count live entries")
	fmt.Fprintln(r.out, "  info                   Show table shape and memory use")
	fmt.Fprintln(r.out, "  reserve <n>            Resize the table for n entries")
	fmt.Fprintln(r.out, "  clear                  Remove every entry, keep the table")
	fmt.Fprintln(r.out, "  seq <count> [start]    Insert sequential integer keys")
	fmt.Fprintln(r.out, "  bench <count>          Time random puts and gets")
	fmt.Fprintln(r.out, "  save <file>            Write a snapshot")
	fmt.Fprintln(r.out, "  load <file>            Merge a snapshot into the map")
	fmt.Fprintln(r.out, "  metrics                Show allocator metrics")
	fmt.Fprintln(r.out, "  config                 Show the effective configuration")
	fmt.Fprintln(r.out, "  help                   Show this help")
	fmt.Fprintln(r.out, "  exit / quit / q        Exit")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Keys and values: hex (e.g. 'deadbeef') or plain text (e.g. 'foo'),")
	fmt.Fprintln(r.out, "zero-padded or truncated to key_size / value_size.")
}

// parseField reads s as hex, falling back to text, padded or truncated to size.
func parseField(s string, size int) []byte {
	raw, err := hex.DecodeString(s)
	if err != nil {
		raw = []byte(s)
	}
	out := make([]byte, size)
	copy(out, raw)

	return out
}

// formatField shows printable data as a quoted string and the rest as hex.
func formatField(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	if end == 0 {
		return hex.EncodeToString(b)
	}
	for _, c := range b[:end] {
		if c < 32 || c > 126 {
			return hex.EncodeToString(b)
		}
	}

	return strconv.Quote(string(b[:end]))
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: put <key> <value>")

		return
	}
	key := parseField(args[0], r.m.KeySize())
	if err := put(r.m, key, parseField(args[1], r.m.ValueSize())); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	fmt.Fprintf(r.out, "OK: put %s\n", formatField(key))
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: get <key>")

		return
	}
	it := r.m.At(parseField(args[0], r.m.KeySize()))
	if it.None() {
		fmt.Fprintln(r.out, "(not found)")

		return
	}
	v, err := r.m.Value(it)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	fmt.Fprintln(r.out, formatField(v))
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: del <key>")

		return
	}
	key := parseField(args[0], r.m.KeySize())
	it := r.m.At(key)
	if it.None() {
		fmt.Fprintf(r.out, "OK: %s did not exist\n", formatField(key))

		return
	}
	if _, err := r.m.Remove(it); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	fmt.Fprintf(r.out, "OK: deleted %s\n", formatField(key))
}

func (r *REPL) cmdScan(args []string) {
	limit := -1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Fprintln(r.out, "Usage: scan [limit]")

			return
		}
		limit = n
	}
	shown := 0
	for k, v := range r.m.All() {
		if shown == limit {
			break
		}
		fmt.Fprintf(r.out, "%s = %s\n", formatField(k), formatField(v))
		shown++
	}
	fmt.Fprintf(r.out, "(%d of %d entries)\n", shown, r.m.Len())
}

func (r *REPL) cmdInfo() {
	s := r.m.Stats()
	fmt.Fprintf(r.out, "Key size:    %d bytes\n", r.m.KeySize())
	fmt.Fprintf(r.out, "Value size:  %d bytes\n", r.m.ValueSize())
	fmt.Fprintf(r.out, "Hash:        %s\n", r.cfg.Hash)
	fmt.Fprintf(r.out, "Allocator:   %s\n", r.cfg.Allocator)
	fmt.Fprintf(r.out, "Entries:     %d\n", s.Size)
	fmt.Fprintf(r.out, "Buckets:     %d\n", s.Capacity)
	fmt.Fprintf(r.out, "Load:        %.1f%%\n", s.Load*100)
	fmt.Fprintf(r.out, "Max PSL:     %d\n", s.MaxPSL)
	fmt.Fprintf(r.out, "Mean PSL:    %.2f\n", s.MeanPSL)
	if r.limit != nil {
		used, objects := r.limit.InUse()
		fmt.Fprintf(r.out, "Memory:      %d of %d bytes in %d regions\n", used, r.limit.Limit(), objects)
	}
}

func (r *REPL) cmdReserve(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: reserve <n>")

		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintln(r.out, "Usage: reserve <n>")

		return
	}
	if err := r.m.Reserve(n); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	fmt.Fprintf(r.out, "OK: %d buckets\n", r.m.Cap())
}

// intField encodes n little-endian into a field of size bytes.
func intField(n uint64, size int) []byte {
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], n)
	out := make([]byte, size)
	copy(out, w[:])

	return out
}

func (r *REPL) cmdSeq(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: seq <count> [start]")

		return
	}
	count, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "Error parsing count: %v\n", err)

		return
	}
	var start uint64
	if len(args) > 1 {
		if start, err = strconv.ParseUint(args[1], 10, 64); err != nil {
			fmt.Fprintf(r.out, "Error parsing start: %v\n", err)

			return
		}
	}
	if count > math.MaxUint64-start {
		fmt.Fprintf(r.out, "Error: seq %d from %d runs past the largest key\n", count, start)

		return
	}
	for i := start; i < start+count; i++ {
		if err := put(r.m, intField(i, r.m.KeySize()), intField(i, r.m.ValueSize())); err != nil {
			fmt.Fprintf(r.out, "Error after %d entries: %v\n", i-start, err)

			return
		}
	}
	fmt.Fprintf(r.out, "OK: inserted %d entries\n", count)
}

func (r *REPL) cmdBench(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: bench <count>")

		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		fmt.Fprintln(r.out, "Usage: bench <count>")

		return
	}

	keys := make([][]byte, count)
	for i := range keys {
		keys[i] = intField(rand.Uint64(), r.m.KeySize())
	}
	value := make([]byte, r.m.ValueSize())

	start := time.Now()
	for _, k := range keys {
		if err := put(r.m, k, value); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)

			return
		}
	}
	putDur := time.Since(start)

	start = time.Now()
	hits := 0
	for _, k := range keys {
		if !r.m.At(k).None() {
			hits++
		}
	}
	getDur := time.Since(start)

	fmt.Fprintf(r.out, "put: %d ops in %v (%.0f ns/op)\n", count, putDur, float64(putDur.Nanoseconds())/float64(count))
	fmt.Fprintf(r.out, "get: %d ops in %v (%.0f ns/op), %d hits\n", count, getDur, float64(getDur.Nanoseconds())/float64(count), hits)
}

func (r *REPL) cmdSave(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: save <file>")

		return
	}
	if err := saveSnapshot(args[0], r.m); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	r.logger.Info("snapshot saved", zap.String("path", args[0]), zap.Int("entries", r.m.Len()))
	fmt.Fprintf(r.out, "OK: saved %d entries to %s\n", r.m.Len(), args[0])
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "Usage: load <file>")

		return
	}
	n, err := loadSnapshot(args[0], r.m)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	r.logger.Info("snapshot loaded", zap.String("path", args[0]), zap.Int("entries", n))
	fmt.Fprintf(r.out, "OK: loaded %d entries from %s\n", n, args[0])
}

func (r *REPL) cmdMetrics() {
	families, err := r.reg.Gather()
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)

		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			fmt.Fprintf(r.out, "%-36s %.0f\n", mf.GetName(), v)
		}
	}
}
