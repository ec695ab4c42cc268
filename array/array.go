// SPDX-License-Identifier: MIT

package array

import (
	"iter"

	"github.com/katalvlaran/bhlib/algo"
	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// Array is a growable sequence of T stored in allocator-owned memory.
// T must be pointer-free; NewOf rejects other types.
type Array[T any] struct {
	raw *Raw
}

// NewOf returns an empty Array of T.
func NewOf[T any](opts ...Option) (*Array[T], error) {
	layout, err := mem.LayoutOf[T]()
	if err != nil {
		return nil, err
	}
	raw, err := newRaw(layout, opts)
	if err != nil {
		return nil, err
	}

	return &Array[T]{raw: raw}, nil
}

func (a *Array[T]) at(i int) *T { return unsafex.As[T](a.raw.slot(i)) }

// Raw exposes the byte-level container behind a.
func (a *Array[T]) Raw() *Raw { return a.raw }

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.raw.len }

// Cap returns the number of elements a can hold before reallocating.
func (a *Array[T]) Cap() int { return a.raw.cap }

// Reserve sets the capacity to exactly max(n, Len()).
func (a *Array[T]) Reserve(n int) error { return a.raw.Reserve(n) }

// Resize sets the length to n; new elements are zero only if the buffer
// slot was never written.
func (a *Array[T]) Resize(n int) error { return a.raw.Resize(n) }

// Append adds v at the end.
func (a *Array[T]) Append(v T) error {
	return a.InsertAt(a.raw.len, v)
}

// InsertAt inserts v before index i; i past the end appends.
func (a *Array[T]) InsertAt(i int, v T) error {
	it, err := a.raw.Insert(i)
	if err != nil {
		return err
	}
	*a.at(it.Index()) = v

	return nil
}

// Get returns the element at i.
func (a *Array[T]) Get(i int) (T, error) {
	var zero T
	idx, err := a.raw.check(a.raw.At(i))
	if err != nil {
		return zero, err
	}

	return *a.at(idx), nil
}

// Set overwrites the element at i.
func (a *Array[T]) Set(i int, v T) error {
	idx, err := a.raw.check(a.raw.At(i))
	if err != nil {
		return err
	}
	*a.at(idx) = v

	return nil
}

// Ptr returns a pointer to the element at it. The pointer is valid until
// the next reallocation.
func (a *Array[T]) Ptr(it Iter) (*T, error) {
	idx, err := a.raw.check(it)
	if err != nil {
		return nil, err
	}

	return a.at(idx), nil
}

// RemoveAt deletes the element at i.
func (a *Array[T]) RemoveAt(i int) error {
	_, err := a.raw.Remove(a.raw.At(i))

	return err
}

// Clear drops every element.
func (a *Array[T]) Clear() { a.raw.Clear() }

// Free releases the buffer.
func (a *Array[T]) Free() { a.raw.Free() }

// Slice views the live elements as a []T aliasing the buffer.
func (a *Array[T]) Slice() []T {
	return unsafex.Slice[T](a.raw.Bytes())
}

// Sort orders the elements ascending under cmp (heap-sort, not stable).
func (a *Array[T]) Sort(cmp func(x, y T) int) {
	algo.Sort(a.Slice(), cmp)
}

// All yields every element with its index.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.raw.len; i++ {
			if !yield(i, *a.at(i)) {
				return
			}
		}
	}
}
