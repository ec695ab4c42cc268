// SPDX-License-Identifier: MIT

// Package mem is the allocation layer under every bhlib container.
//
// Containers never call make directly. They ask an Allocator for a zeroed,
// 8-byte aligned region and keep the paired Deallocator until the region is
// replaced or the container is freed:
//
//	b, d, err := alloc.Allocate(n)
//	...
//	d.Deallocate()
//
// Allocators compose as decorators:
//
//	GoAllocator      – Go heap, the default.
//	MmapAllocator    – one anonymous mapping per region (unix), heap elsewhere.
//	LimitAllocator   – refuses requests past a byte budget with ErrOutOfMemory.
//	MetricsAllocator – prometheus counters and gauges for bytes and regions.
//	LoggingAllocator – zap records for every request.
//
// The package also owns element layouts (Layout, LayoutOf) and the
// overflow-checked size arithmetic containers use before growing.
//
// Errors (sentinel):
//
//	– ErrZeroSize          element, key or value size of zero.
//	– ErrPointerType       element type carries Go pointers.
//	– ErrCapacityOverflow  count × size does not fit an int.
//	– ErrOutOfMemory       the allocator refused the request.
//	– ErrMisaligned        region does not fit a layout.
package mem
