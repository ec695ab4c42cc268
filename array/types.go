// SPDX-License-Identifier: MIT

package array

import (
	"errors"

	"github.com/katalvlaran/bhlib/mem"
)

// Sentinel errors returned by array operations.
var (
	// ErrOutOfRange indicates an index or handle outside the live elements.
	ErrOutOfRange = errors.New("array: index out of range")

	// ErrStaleIterator indicates a handle issued before the last structural
	// change of the array.
	ErrStaleIterator = errors.New("array: stale iterator")

	// ErrBadCapacity indicates a negative initial capacity option.
	ErrBadCapacity = errors.New("array: capacity must be non-negative")

	// ErrNilAllocator indicates a nil allocator option.
	ErrNilAllocator = errors.New("array: allocator is nil")
)

// growSeed is the capacity of the first buffer an Insert allocates.
const growSeed = 16

// Iter is a position handle into an array. The zero Iter is the none
// handle: it addresses nothing and Next(Iter{}) starts a traversal.
type Iter struct {
	pos int // index+1; 0 is none
	gen uint64
}

// None reports whether it is the none handle.
func (it Iter) None() bool { return it.pos <= 0 }

// Index returns the element index, or -1 for the none handle.
func (it Iter) Index() int { return it.pos - 1 }

// Options configures a new array.
//
// Allocator – source of the element buffer. Default mem.Default().
// Capacity  – capacity reserved at construction. Default 0.
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

// WithAllocator routes every buffer allocation through a.
// A nil allocator is a programming error and panics.
func WithAllocator(a mem.Allocator) Option {
	return func(o *Options) {
		if a == nil {
			panic(ErrNilAllocator.Error())
		}
		o.Allocator = a
	}
}

// WithCapacity reserves room for n elements up front.
// A negative n panics.
func WithCapacity(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadCapacity.Error())
		}
		o.Capacity = n
	}
}
