// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/bhlib/hashfn"
)

var (
	errConfigInvalid      = errors.New("invalid config")
	errConfigFileNotFound = errors.New("config file not found")
	errBadKeySize         = errors.New("key_size must be positive")
	errBadValueSize       = errors.New("value_size must be positive")
	errUnknownHash        = errors.New("unknown hash (want xxhash, metro or identity)")
	errUnknownAllocator   = errors.New("unknown allocator (want go or mmap)")
)

// Config holds the shell settings. Zero fields in a file leave the
// lower-precedence value alone.
type Config struct {
	KeySize   int    `json:"key_size,omitempty"`
	ValueSize int    `json:"value_size,omitempty"`
	Hash      string `json:"hash,omitempty"`
	Allocator string `json:"allocator,omitempty"`
	Limit     uint64 `json:"limit,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`
	History   string `json:"history,omitempty"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		KeySize:   16,
		ValueSize: 16,
		Hash:      "xxhash",
		Allocator: "go",
		LogLevel:  "warn",
	}
}

// globalConfigPath returns $XDG_CONFIG_HOME/bhmap/config.json, falling back
// to ~/.config/bhmap/config.json, or "" without a home directory.
func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, "bhmap", "config.json")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "bhmap", "config.json")
}

// LoadConfig resolves the settings in order of increasing precedence:
// defaults, the config file (explicit path, else the global one if it
// exists), then overrides.
func LoadConfig(configPath string, overrides Config, env []string) (Config, string, error) {
	cfg := DefaultConfig()

	path, mustExist := configPath, true
	if path == "" {
		path, mustExist = globalConfigPath(env), false
	}

	var loaded string
	if path != "" {
		fileCfg, ok, err := loadConfigFile(path, mustExist)
		if err != nil {
			return Config{}, "", err
		}
		if ok {
			cfg = mergeConfig(cfg, fileCfg)
			loaded = path
		}
	}

	cfg = mergeConfig(cfg, overrides)
	if err := validateConfig(cfg); err != nil {
		return Config{}, "", fmt.Errorf("%w: %w", errConfigInvalid, err)
	}

	return cfg, loaded, nil
}

func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		if os.IsNotExist(err) {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.KeySize != 0 {
		base.KeySize = overlay.KeySize
	}
	if overlay.ValueSize != 0 {
		base.ValueSize = overlay.ValueSize
	}
	if overlay.Hash != "" {
		base.Hash = overlay.Hash
	}
	if overlay.Allocator != "" {
		base.Allocator = overlay.Allocator
	}
	if overlay.Limit != 0 {
		base.Limit = overlay.Limit
	}
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}
	if overlay.History != "" {
		base.History = overlay.History
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.KeySize <= 0 {
		return errBadKeySize
	}
	if cfg.ValueSize <= 0 {
		return errBadValueSize
	}
	if _, ok := hashfn.Named(cfg.Hash); !ok {
		return fmt.Errorf("%w: %q", errUnknownHash, cfg.Hash)
	}
	if cfg.Allocator != "go" && cfg.Allocator != "mmap" {
		return fmt.Errorf("%w: %q", errUnknownAllocator, cfg.Allocator)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

// FormatConfig renders cfg as indented JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
