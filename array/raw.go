// SPDX-License-Identifier: MIT

package array

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/bhlib/algo"
	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// Raw is a growable sequence of opaque elements of one fixed size.
type Raw struct {
	layout mem.Layout
	alloc  mem.Allocator
	buf    mem.Block
	len    int
	cap    int
	gen    uint64
}

// New returns an empty array of size-byte elements.
// A non-positive size yields a *mem.LayoutError.
func New(size int, opts ...Option) (*Raw, error) {
	layout, err := mem.NewLayout("element", size)
	if err != nil {
		return nil, err
	}

	return newRaw(layout, opts)
}

func newRaw(layout mem.Layout, opts []Option) (*Raw, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Raw{layout: layout, alloc: o.Allocator}
	if o.Capacity > 0 {
		if err := r.Reserve(o.Capacity); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Size returns the element size in bytes.
func (r *Raw) Size() int { return r.layout.Size }

// Len returns the number of live elements.
func (r *Raw) Len() int { return r.len }

// Cap returns the number of element slots in the buffer.
func (r *Raw) Cap() int { return r.cap }

// Bytes returns the live elements as one contiguous region. The region
// aliases the array's buffer until the next reallocation.
func (r *Raw) Bytes() []byte {
	return r.buf.Bytes[:r.len*r.layout.Size]
}

func (r *Raw) slot(i int) []byte {
	off := i * r.layout.Size

	return r.buf.Bytes[off : off+r.layout.Size : off+r.layout.Size]
}

// Reserve sets the capacity to exactly max(n, Len()). Reallocating to the
// current capacity does nothing. On failure the array is left untouched.
func (r *Raw) Reserve(n int) error {
	if n < r.len {
		n = r.len
	}
	if n == r.cap {
		return nil
	}
	size, err := mem.Bytes(n, r.layout.Size)
	if err != nil {
		return fmt.Errorf("array: reserve %d elements of %d bytes: %w", n, r.layout.Size, err)
	}
	blk, err := mem.Alloc(r.alloc, size)
	if err != nil {
		return fmt.Errorf("array: reserve %d elements: %w", n, err)
	}
	if !unsafex.Aligned(blk.Bytes, r.layout.Align) {
		blk.Free()

		return fmt.Errorf("array: reserve %d elements: %w", n, mem.ErrMisaligned)
	}

	copy(blk.Bytes, r.Bytes())
	r.buf.Free()
	r.buf = blk
	r.cap = n
	r.gen++

	return nil
}

// Resize sets the length to n. Growing reserves first and leaves the new
// slots uninitialised; shrinking only moves the length.
func (r *Raw) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: resize to %d", ErrOutOfRange, n)
	}
	if n > r.cap {
		if err := r.Reserve(n); err != nil {
			return err
		}
	}
	r.len = n
	r.gen++

	return nil
}

func (r *Raw) grow() error {
	if r.cap == 0 {
		return r.Reserve(growSeed)
	}
	if r.cap > r.layout.MaxCount()/2 {
		return fmt.Errorf("array: grow past %d elements: %w", r.cap, mem.ErrCapacityOverflow)
	}

	return r.Reserve(r.cap * 2)
}

// Insert opens an uninitialised slot at index, shifting later elements one
// slot right, and returns its handle. An index past the end appends.
func (r *Raw) Insert(index int) (Iter, error) {
	if index < 0 {
		return Iter{}, fmt.Errorf("%w: insert at %d", ErrOutOfRange, index)
	}
	if index > r.len {
		index = r.len
	}
	if r.len == r.cap {
		if err := r.grow(); err != nil {
			return Iter{}, err
		}
	}

	size := r.layout.Size
	data := r.buf.Bytes
	copy(data[(index+1)*size:(r.len+1)*size], data[index*size:r.len*size])
	r.len++
	r.gen++

	return Iter{pos: index + 1, gen: r.gen}, nil
}

// At returns the handle for index. The index is not checked here;
// Value and Remove report ErrOutOfRange for a handle past the end.
func (r *Raw) At(index int) Iter {
	if index < 0 {
		return Iter{}
	}

	return Iter{pos: index + 1, gen: r.gen}
}

func (r *Raw) check(it Iter) (int, error) {
	if it.None() {
		return 0, fmt.Errorf("%w: none handle", ErrOutOfRange)
	}
	if it.gen != r.gen {
		return 0, ErrStaleIterator
	}
	i := it.pos - 1
	if i < 0 || i >= r.len {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, r.len)
	}

	return i, nil
}

// Remove deletes the element at it, shifting later elements one slot left.
// It returns the handle of the element that now occupies the slot, or the
// none handle when the removed element was last.
func (r *Raw) Remove(it Iter) (Iter, error) {
	i, err := r.check(it)
	if err != nil {
		return Iter{}, err
	}

	size := r.layout.Size
	data := r.buf.Bytes
	copy(data[i*size:(r.len-1)*size], data[(i+1)*size:r.len*size])
	r.len--
	r.gen++
	if i >= r.len {
		return Iter{}, nil
	}

	return Iter{pos: i + 1, gen: r.gen}, nil
}

// Next advances it by one element. The none handle yields the first element;
// stepping past the last element yields none.
func (r *Raw) Next(it Iter) (Iter, error) {
	if it.None() {
		if r.len == 0 {
			return Iter{}, nil
		}

		return Iter{pos: 1, gen: r.gen}, nil
	}
	if it.gen != r.gen {
		return Iter{}, ErrStaleIterator
	}
	if it.pos >= r.len {
		return Iter{}, nil
	}

	return Iter{pos: it.pos + 1, gen: r.gen}, nil
}

// Value returns the bytes of the element at it. The slice aliases the array.
func (r *Raw) Value(it Iter) ([]byte, error) {
	i, err := r.check(it)
	if err != nil {
		return nil, err
	}

	return r.slot(i), nil
}

// Clear drops every element and keeps the buffer.
func (r *Raw) Clear() {
	r.len = 0
	r.gen++
}

// Free releases the buffer. The array stays usable and empty.
func (r *Raw) Free() {
	r.buf.Free()
	r.len, r.cap = 0, 0
	r.gen++
}

// All yields every live element with its index. Mutating the array while
// ranging is not supported.
func (r *Raw) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := 0; i < r.len; i++ {
			if !yield(i, r.slot(i)) {
				return
			}
		}
	}
}

// Sort orders the live elements ascending under cmp (heap-sort, not stable).
// Handles stay valid: the elements move, the slots do not.
func (r *Raw) Sort(cmp func(a, b []byte) int) {
	algo.SortBytes(r.buf.Bytes, r.layout.Size, r.len, cmp)
}
