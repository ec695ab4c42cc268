// SPDX-License-Identifier: MIT

//go:build unix

package mem

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// MmapAllocator serves every request with its own anonymous private mapping.
// Regions are page aligned, zero filled by the kernel and returned to the
// system with munmap on release. Large containers use it to keep their
// buffers out of the Go heap.
type MmapAllocator struct {
	pageSize int
}

var _ Allocator = (*MmapAllocator)(nil)

// NewMmapAllocator returns an allocator backed by anonymous mappings.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{pageSize: os.Getpagesize()}
}

// Allocate maps size bytes rounded up to the page size.
func (m *MmapAllocator) Allocate(size uint64) ([]byte, Deallocator, error) {
	if size == 0 {
		return nil, nopDeallocator, nil
	}
	page := uint64(m.pageSize)
	if size > math.MaxInt-page {
		return nil, nil, ErrOutOfMemory
	}
	length := (size + page - 1) / page * page

	mapping, err := unix.Mmap(
		-1, 0,
		int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: mmap %d bytes: %v", ErrOutOfMemory, length, err)
	}

	return mapping[:size:size], DeallocatorFunc(func() {
		// munmap only fails on invalid arguments, which would be a bug here.
		if err := unix.Munmap(mapping); err != nil {
			panic(err)
		}
	}), nil
}
