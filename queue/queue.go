// SPDX-License-Identifier: MIT

package queue

import (
	"iter"

	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// Queue is a double-ended queue of pointer-free T.
type Queue[T any] struct {
	raw *Raw
}

// NewOf returns an empty Queue of T.
func NewOf[T any](opts ...Option) (*Queue[T], error) {
	layout, err := mem.LayoutOf[T]()
	if err != nil {
		return nil, err
	}
	raw, err := newRaw(layout, opts)
	if err != nil {
		return nil, err
	}

	return &Queue[T]{raw: raw}, nil
}

// Raw exposes the byte-level ring behind q.
func (q *Queue[T]) Raw() *Raw { return q.raw }

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int { return q.raw.Len() }

// Cap returns the ring size; one slot always stays free.
func (q *Queue[T]) Cap() int { return q.raw.Cap() }

// Reserve resizes the ring to at least n slots, or Len()+1 when that is larger.
func (q *Queue[T]) Reserve(n int) error { return q.raw.Reserve(n) }

// Clear drops every element and keeps the ring.
func (q *Queue[T]) Clear() { q.raw.Clear() }

// Free releases the ring; q stays usable and empty.
func (q *Queue[T]) Free() { q.raw.Free() }

// PushFront adds v before the front element.
func (q *Queue[T]) PushFront(v T) error {
	b, err := q.raw.PushFront()
	if err != nil {
		return err
	}
	*unsafex.As[T](b) = v

	return nil
}

// PushBack adds v after the back element.
func (q *Queue[T]) PushBack(v T) error {
	b, err := q.raw.PushBack()
	if err != nil {
		return err
	}
	*unsafex.As[T](b) = v

	return nil
}

// PopFront removes and returns the front element.
func (q *Queue[T]) PopFront() (T, bool) {
	v, ok := q.Front()
	if ok {
		q.raw.PopFront()
	}

	return v, ok
}

// PopBack removes and returns the back element.
func (q *Queue[T]) PopBack() (T, bool) {
	v, ok := q.Back()
	if ok {
		q.raw.PopBack()
	}

	return v, ok
}

// Front returns the front element without removing it.
func (q *Queue[T]) Front() (T, bool) {
	var zero T
	b := q.raw.Front()
	if b == nil {
		return zero, false
	}

	return *unsafex.As[T](b), true
}

// Back returns the back element without removing it.
func (q *Queue[T]) Back() (T, bool) {
	var zero T
	b := q.raw.Back()
	if b == nil {
		return zero, false
	}

	return *unsafex.As[T](b), true
}

// All yields the elements front to back.
func (q *Queue[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, b := range q.raw.All() {
			if !yield(i, *unsafex.As[T](b)) {
				return
			}
		}
	}
}
