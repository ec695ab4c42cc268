// SPDX-License-Identifier: MIT

// Package hashfn offers hash and compare functions for hashmap instances.
//
// hashmap masks the hash with the table size and never re-mixes it, so the
// low bits must be well spread for keys that are not already uniform.
// XXHash and Metro are good general choices; Identity and Int suit keys that
// are small dense integers and reproduce the table layout exactly.
package hashfn

import (
	"bytes"
	"cmp"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	metro "github.com/dgryski/go-metro"

	"github.com/katalvlaran/bhlib/internal/unsafex"
)

// XXHash hashes b with 64-bit xxHash.
func XXHash(b []byte) uint64 { return xxhash.Sum64(b) }

// Metro returns a metrohash64 function keyed with seed.
func Metro(seed uint64) func([]byte) uint64 {
	return func(b []byte) uint64 { return metro.Hash64(b, seed) }
}

// Identity reads up to the first 8 bytes of b as a little-endian integer.
func Identity(b []byte) uint64 {
	var w [8]byte
	copy(w[:], b)

	return binary.LittleEndian.Uint64(w[:])
}

// Integer is the set of types Int accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Int hashes an integer to itself.
func Int[K Integer](k K) uint64 { return uint64(k) }

// Of adapts a byte hasher to a pointer-free key type by hashing the key's
// memory. Padding bytes inside K take part in the hash, so K should have
// none, or be built so that its padding is always zero.
func Of[K any](fn func([]byte) uint64) func(K) uint64 {
	return func(k K) uint64 { return fn(unsafex.Bytes(&k)) }
}

// Bytes compares keys lexicographically.
func Bytes(a, b []byte) int { return bytes.Compare(a, b) }

// Ordered compares two ordered values.
func Ordered[K cmp.Ordered](a, b K) int { return cmp.Compare(a, b) }

// Named returns the byte hasher registered under name ("xxhash", "metro" or
// "identity") and whether name was known. The metro hasher uses seed 0.
func Named(name string) (func([]byte) uint64, bool) {
	switch name {
	case "xxhash":
		return XXHash, true
	case "metro":
		return Metro(0), true
	case "identity":
		return Identity, true
	default:
		return nil, false
	}
}
