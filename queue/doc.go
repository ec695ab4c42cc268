// SPDX-License-Identifier: MIT

// Package queue implements a double-ended queue over a circular buffer of
// fixed-size elements.
//
// Raw is the type-erased core and Queue[T] the typed facade for
// pointer-free T. Head and tail are slot indices into the ring; the queue
// holds (tail - head) mod Cap() elements and keeps one slot free so that
// head == tail always means empty.
//
// Pushing onto a queue with one free slot left doubles the ring (16 slots on
// first growth). Reserve relinearises the contents into a fresh buffer in at
// most two copies, so after it returns the elements run from slot 0.
//
// Iterators are slot handles stamped with the queue's generation; any push,
// pop, reallocation, clear or free makes earlier handles stale.
//
// A Queue is not safe for concurrent use.
package queue
