// SPDX-License-Identifier: MIT

// Package algo provides the comparison-based primitives the bhlib containers
// build on: a byte-exact Swap, a binary max-heap (make, pop, push) and an
// in-place heap-sort.
//
// Every routine comes in two shapes:
//
//	– typed, over a []T with cmp func(a, b T) int;
//	– byte-erased, over a flat buffer of count elements of size bytes with
//	  cmp func(a, b []byte) int. Elements are moved with Swap.
//
// Both shapes share one sift implementation over a small indexed interface,
// in the spirit of container/heap.
//
// Comparator contract: cmp(x, y) < 0 when x orders before y, 0 when the two
// are equivalent and > 0 when x orders after y.
//
// Complexity:
//
//	– HeapMake: O(n)
//	– HeapPop, HeapPush: O(log n)
//	– Sort: O(n log n), not stable, no extra memory.
package algo
