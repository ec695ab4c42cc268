// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	env := []string{"XDG_CONFIG_HOME=" + t.TempDir()}
	cfg, source, err := LoadConfig("", Config{}, env)
	require.NoError(t, err)
	assert.Empty(t, source)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "bhmap", "config.json")
	writeFile(t, global, `{
		// comments and trailing commas are allowed
		"key_size": 8,
		"value_size": 4,
		"hash": "metro",
	}`)

	cfg, source, err := LoadConfig("", Config{ValueSize: 32}, []string{"XDG_CONFIG_HOME=" + dir})
	require.NoError(t, err)
	assert.Equal(t, global, source)
	assert.Equal(t, 8, cfg.KeySize)
	assert.Equal(t, 32, cfg.ValueSize, "flags win over the file")
	assert.Equal(t, "metro", cfg.Hash)
	assert.Equal(t, "go", cfg.Allocator, "defaults fill the rest")
}

func TestLoadConfigExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	writeFile(t, path, `{"allocator": "mmap", "limit": 4096}`)

	cfg, source, err := LoadConfig(path, Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Equal(t, "mmap", cfg.Allocator)
	assert.Equal(t, uint64(4096), cfg.Limit)

	_, _, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"), Config{}, nil)
	assert.ErrorIs(t, err, errConfigFileNotFound)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	env := []string{"XDG_CONFIG_HOME=" + t.TempDir()}
	tests := []struct {
		name string
		over Config
		want error
	}{
		{"negative key size", Config{KeySize: -1}, errBadKeySize},
		{"negative value size", Config{ValueSize: -2}, errBadValueSize},
		{"unknown hash", Config{Hash: "crc"}, errUnknownHash},
		{"unknown allocator", Config{Allocator: "jemalloc"}, errUnknownAllocator},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := LoadConfig("", tc.over, env)
			require.ErrorIs(t, err, errConfigInvalid)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, _, err := LoadConfig("", Config{LogLevel: "loud"}, env)
	assert.ErrorIs(t, err, errConfigInvalid)
}

func TestLoadConfigInvalidSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, `{"key_size": `)
	_, _, err := LoadConfig(path, Config{}, nil)
	assert.ErrorIs(t, err, errConfigInvalid)
}

func TestParseFlags(t *testing.T) {
	over, path, printOnly, err := parseFlags(
		[]string{"-k", "4", "--value-size=12", "--hash", "identity", "-c", "x.json", "--print-config"},
		io.Discard)
	require.NoError(t, err)
	assert.Equal(t, Config{KeySize: 4, ValueSize: 12, Hash: "identity"}, over)
	assert.Equal(t, "x.json", path)
	assert.True(t, printOnly)

	_, _, _, err = parseFlags([]string{"extra"}, io.Discard)
	assert.Error(t, err)
}
