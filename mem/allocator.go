// SPDX-License-Identifier: MIT

package mem

import (
	"math"

	"github.com/katalvlaran/bhlib/internal/unsafex"
)

// Allocator hands out raw byte regions. Every region returned by a
// successful Allocate is zeroed, 8-byte aligned and exactly size bytes
// long, and must be released through the paired Deallocator exactly once.
type Allocator interface {
	Allocate(size uint64) ([]byte, Deallocator, error)
}

// Deallocator releases one region obtained from an Allocator.
type Deallocator interface {
	Deallocate()
}

// DeallocatorFunc adapts a plain function to Deallocator.
type DeallocatorFunc func()

// Deallocate calls f.
func (f DeallocatorFunc) Deallocate() {
	if f != nil {
		f()
	}
}

type chainDeallocator []Deallocator

func (c chainDeallocator) Deallocate() {
	for _, d := range c {
		if d != nil {
			d.Deallocate()
		}
	}
}

// ChainDeallocator returns a Deallocator that runs ds in order.
func ChainDeallocator(ds ...Deallocator) Deallocator {
	return chainDeallocator(ds)
}

var nopDeallocator = DeallocatorFunc(nil)

// GoAllocator allocates from the Go heap. Releasing a region only drops the
// reference; the garbage collector reclaims it.
type GoAllocator struct{}

var _ Allocator = GoAllocator{}

// Allocate returns size zeroed bytes.
func (GoAllocator) Allocate(size uint64) ([]byte, Deallocator, error) {
	if size > math.MaxInt {
		return nil, nil, ErrOutOfMemory
	}

	return unsafex.Words(int(size)), nopDeallocator, nil
}

// Default returns the allocator containers use when none is configured.
func Default() Allocator {
	return GoAllocator{}
}

// Block is one allocated region together with its release hook.
// The zero Block is an empty, unallocated region.
type Block struct {
	Bytes []byte
	free  Deallocator
}

// Alloc obtains a Block of size bytes from a. A zero size yields the empty
// Block without calling the allocator.
func Alloc(a Allocator, size int) (Block, error) {
	if size < 0 {
		return Block{}, ErrCapacityOverflow
	}
	if size == 0 {
		return Block{}, nil
	}
	b, d, err := a.Allocate(uint64(size))
	if err != nil {
		return Block{}, err
	}

	return Block{Bytes: b, free: d}, nil
}

// Free releases the region and resets b to the empty Block.
func (b *Block) Free() {
	if b.free != nil {
		b.free.Deallocate()
	}
	*b = Block{}
}
