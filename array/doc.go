// SPDX-License-Identifier: MIT

// Package array implements a growable contiguous sequence of fixed-size
// elements.
//
// Raw is the type-erased core: it knows only the element size and stores
// elements back to back in a single allocator-owned buffer. It never
// constructs or destroys elements; a freshly inserted slot holds whatever
// bytes the buffer had there. Array[T] is a typed facade over Raw for
// pointer-free element types.
//
// Growth policy:
//
//	– Reserve(n) sets the capacity to exactly max(n, Len()).
//	– Insert on a full array doubles the capacity (16 on first growth).
//	– Shrinking Len never releases memory.
//
// Iterators are index handles stamped with the array's generation. Every
// structural change (insert, remove, reallocation, resize, clear, free)
// bumps the generation, so using an old handle reports ErrStaleIterator
// instead of touching memory that has moved.
//
// Errors (sentinel):
//
//	– ErrOutOfRange        handle or index outside [0, Len()).
//	– ErrStaleIterator     handle issued before the last structural change.
//	– mem.ErrCapacityOverflow, mem.ErrOutOfMemory from growth.
//
// An Array is not safe for concurrent use.
package array
