// SPDX-License-Identifier: MIT

//go:build !unix

package mem

// MmapAllocator falls back to the Go heap on platforms without mmap.
type MmapAllocator struct {
	GoAllocator
}

var _ Allocator = (*MmapAllocator)(nil)

// NewMmapAllocator returns a heap-backed stand-in on this platform.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{}
}
