// SPDX-License-Identifier: MIT

package hashmap

import (
	"errors"

	"github.com/katalvlaran/bhlib/mem"
)

// Sentinel errors returned by hashmap operations.
var (
	// ErrNilFunc indicates a nil compare or hash function.
	ErrNilFunc = errors.New("hashmap: compare and hash must be non-nil")

	// ErrKeySize indicates a key whose length differs from the map's key size.
	ErrKeySize = errors.New("hashmap: key length does not match key size")

	// ErrOutOfRange indicates a handle that addresses no live entry.
	ErrOutOfRange = errors.New("hashmap: iterator addresses no entry")

	// ErrStaleIterator indicates a handle issued before the last structural
	// change of the map.
	ErrStaleIterator = errors.New("hashmap: stale iterator")

	// ErrBadCapacity indicates a negative initial capacity option.
	ErrBadCapacity = errors.New("hashmap: capacity must be non-negative")

	// ErrNilAllocator indicates a nil allocator option.
	ErrNilAllocator = errors.New("hashmap: allocator is nil")
)

const (
	// minCapacity is the smallest non-zero table.
	minCapacity = 16

	// pslSize is the byte size of one stored probe-sequence length.
	pslSize = 8
)

// Iter addresses one bucket. The zero Iter is the none handle.
type Iter struct {
	pos int // bucket+1; 0 is none
	gen uint64
}

// None reports whether it is the none handle.
func (it Iter) None() bool { return it.pos <= 0 }

// Options configures a new map.
//
// Allocator – source of the three bucket arrays. Default mem.Default().
// Capacity  – entries to make room for at construction (see Reserve).
type Options struct {
	Allocator mem.Allocator
	Capacity  int
}

// Option is a functional option for New and NewOf.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Allocator: mem.Default()}
}

// WithAllocator routes table allocations through a. A nil a panics.
func WithAllocator(a mem.Allocator) Option {
	return func(o *Options) {
		if a == nil {
			panic(ErrNilAllocator.Error())
		}
		o.Allocator = a
	}
}

// WithCapacity makes room for n entries up front. A negative n panics.
func WithCapacity(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadCapacity.Error())
		}
		o.Capacity = n
	}
}

// Stats summarises the shape of a table.
type Stats struct {
	Size     int     // live entries
	Capacity int     // buckets
	Load     float64 // Size / Capacity, 0 for an empty table
	MaxPSL   int     // longest probe sequence
	MeanPSL  float64 // mean probe sequence over live entries
}
