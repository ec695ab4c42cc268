// SPDX-License-Identifier: MIT

// Package hashmap implements an open-addressing hash map with robin-hood
// insertion and backward-shift deletion.
//
// Raw stores fixed-size opaque keys and values in three parallel arrays
// (keys, values and probe-sequence lengths) of Cap()+1 slots; the extra
// slot carries entries in flight during insertion. A probe-sequence length
// (PSL) of 0 marks an empty bucket and 1 an entry sitting in its ideal
// bucket. Map[K, V] is a typed facade for pointer-free K and V.
//
// Insertion walks forward from the ideal bucket carrying the new entry. Each
// time the carried entry is poorer (larger PSL) than the resident, the two
// trade places and the walk continues with the displaced resident, until an
// empty bucket takes whatever is being carried. Lookup stops as soon as it
// meets a resident richer than the probe, so misses cost about the mean PSL.
// Deletion shifts the following displaced entries one bucket back, so the
// table never holds tombstones.
//
// Capacity is zero or a power of two of at least 16. The table grows
// (doubling) once it would exceed a 7/8 load and shrinks (halving) on
// Reserve only when the load would fall to 7/16 or below; the gap between
// the two thresholds keeps alternating inserts and removes at a boundary
// from reallocating every time.
//
// The caller supplies a three-way compare and a hash for every instance. The
// hash is masked with Cap()-1 and never re-mixed, so it must spread its low
// bits; see package hashfn for ready-made choices.
//
// Iterators are bucket handles stamped with the map's generation; every
// insert, remove, rehash, clear or free makes earlier handles stale.
//
// Errors (sentinel):
//
//	– ErrNilFunc        nil compare or hash.
//	– ErrKeySize        key of the wrong length.
//	– ErrOutOfRange     handle addressing no live entry.
//	– ErrStaleIterator  handle older than the last structural change.
//	– mem.ErrCapacityOverflow, mem.ErrOutOfMemory from growth.
//
// A map is not safe for concurrent use.
package hashmap
