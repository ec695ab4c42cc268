// SPDX-License-Identifier: MIT

// Package bhlib is a small set of allocator-backed containers for
// fixed-size, pointer-free records: a growable array, a circular deque and
// a robin-hood hash map, plus the heap and sort routines they share.
//
// What is in the box?
//
//	Every container comes in two flavours:
//		• Raw: type-erased storage of fixed-size byte records, with
//		  generation-checked iterators and caller-supplied compare/hash
//		• Typed: a generic facade (Array[T], Queue[T], Map[K, V]) over Raw
//		  for any Go type without pointers
//
// All storage comes from a mem.Allocator, so the same map can live on the Go
// heap, in anonymous mmap regions, under a byte budget, or behind metrics
// and logging decorators.
//
// Packages:
//
//	algo/      byte swap, binary max-heap and in-place heap sort
//	array/     growable contiguous array
//	queue/     circular double-ended queue
//	hashmap/   open-addressing robin-hood map with backward-shift deletion
//	hashfn/    ready-made hash and compare functions
//	mem/       layouts, allocators and allocator decorators
//	cmd/bhmap  interactive shell over a byte-keyed map
//	examples/  routing, grid and leaderboard scenarios
//
// A robin-hood table after inserting keys whose ideal buckets collide:
//
//	bucket:  0    1    2    3    4
//	key:     -    a    b    c    -
//	psl:     0    1    2    3    0
//
// psl counts 1 for an entry in its ideal bucket; 0 marks an empty bucket.
//
// None of the containers lock. Share one across goroutines only behind
// your own synchronisation.
//
//	go get github.com/katalvlaran/bhlib
package bhlib
