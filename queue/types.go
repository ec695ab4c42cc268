// SPDX-License-Identifier: MIT

package queue

import (
	"errors"

	"github.com/katalvlaran/bhlib/mem"
)

// Sentinel errors returned by queue operations.
var (
	ErrOutOfRange    = errors.New("queue: iterator out of range")
	ErrStaleIterator = errors.New("queue: stale iterator")
	ErrBadCapacity   = errors.New("queue: capacity must be non-negative")
	ErrNilAllocator  = errors.New("queue: allocator is nil")
)

const growSeed = 16

// Iter addresses one slot of the ring. The zero Iter is the none handle.
type Iter struct {
	pos int // slot+1; 0 is none
	gen uint64
}

// None reports whether it is the none handle.
func (it Iter) None() bool { return it.pos <= 0 }

// Options configures a new queue.
//
// Allocator – source of the ring buffer. Default mem.Default().
// Capacity  – ring slots reserved at construction. Default 0.
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

// WithAllocator routes ring allocations through a. A nil a panics.
func WithAllocator(a mem.Allocator) Option {
	return func(o *Options) {
		if a == nil {
			panic(ErrNilAllocator.Error())
		}
		o.Allocator = a
	}
}

// WithCapacity reserves n ring slots up front. A negative n panics.
func WithCapacity(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadCapacity.Error())
		}
		o.Capacity = n
	}
}
