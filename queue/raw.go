// SPDX-License-Identifier: MIT

package queue

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// Raw is a ring of opaque elements of one fixed size.
type Raw struct {
	layout mem.Layout
	alloc  mem.Allocator
	buf    mem.Block
	cap    int
	head   int
	tail   int
	gen    uint64
}

// New returns an empty queue of size-byte elements.
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
	q := &Raw{layout: layout, alloc: o.Allocator}
	if o.Capacity > 0 {
		if err := q.Reserve(o.Capacity); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// Size returns the element size in bytes.
func (q *Raw) Size() int { return q.layout.Size }

// Len returns the number of queued elements.
func (q *Raw) Len() int {
	if q.tail >= q.head {
		return q.tail - q.head
	}

	return q.cap - q.head + q.tail
}

// Cap returns the number of ring slots, one of which always stays free.
func (q *Raw) Cap() int { return q.cap }

func (q *Raw) slot(i int) []byte {
	off := i * q.layout.Size

	return q.buf.Bytes[off : off+q.layout.Size : off+q.layout.Size]
}

func (q *Raw) region(from, to int) []byte {
	return q.buf.Bytes[from*q.layout.Size : to*q.layout.Size]
}

// Reserve reallocates the ring to n slots, raised to Len()+1 when the queue
// is not empty. Elements keep their order and start at slot 0 afterwards.
func (q *Raw) Reserve(n int) error {
	size := q.Len()
	if size > 0 && n < size+1 {
		n = size + 1
	}
	if n < 0 {
		n = 0
	}
	if n == q.cap {
		return nil
	}
	nbytes, err := mem.Bytes(n, q.layout.Size)
	if err != nil {
		return fmt.Errorf("queue: reserve %d elements of %d bytes: %w", n, q.layout.Size, err)
	}
	blk, err := mem.Alloc(q.alloc, nbytes)
	if err != nil {
		return fmt.Errorf("queue: reserve %d elements: %w", n, err)
	}
	if !unsafex.Aligned(blk.Bytes, q.layout.Align) {
		blk.Free()

		return fmt.Errorf("queue: reserve %d elements: %w", n, mem.ErrMisaligned)
	}

	switch {
	case q.head < q.tail:
		copy(blk.Bytes, q.region(q.head, q.tail))
	case q.head > q.tail:
		k := copy(blk.Bytes, q.region(q.head, q.cap))
		copy(blk.Bytes[k:], q.region(0, q.tail))
	}

	q.buf.Free()
	q.buf = blk
	q.cap = n
	q.head, q.tail = 0, size
	q.gen++

	return nil
}

func (q *Raw) ensureRoom() error {
	if q.cap > q.Len()+1 {
		return nil
	}
	if q.cap == 0 {
		return q.Reserve(growSeed)
	}
	if q.cap > q.layout.MaxCount()/2 {
		return fmt.Errorf("queue: grow past %d elements: %w", q.cap, mem.ErrCapacityOverflow)
	}

	return q.Reserve(q.cap * 2)
}

// PushFront opens an uninitialised slot before the head and returns it.
func (q *Raw) PushFront() ([]byte, error) {
	if err := q.ensureRoom(); err != nil {
		return nil, err
	}
	q.head--
	if q.head < 0 {
		q.head = q.cap - 1
	}
	q.gen++

	return q.slot(q.head), nil
}

// PushBack opens an uninitialised slot after the tail and returns it.
func (q *Raw) PushBack() ([]byte, error) {
	if err := q.ensureRoom(); err != nil {
		return nil, err
	}
	b := q.slot(q.tail)
	q.tail++
	if q.tail == q.cap {
		q.tail = 0
	}
	q.gen++

	return b, nil
}

// PopFront drops the front element. The slot is not cleared.
func (q *Raw) PopFront() {
	if q.head == q.tail {
		return
	}
	q.head++
	if q.head == q.cap {
		q.head = 0
	}
	q.gen++
}

// PopBack drops the back element. The slot is not cleared.
func (q *Raw) PopBack() {
	if q.head == q.tail {
		return
	}
	q.tail--
	if q.tail < 0 {
		q.tail = q.cap - 1
	}
	q.gen++
}

// Front returns the front element, or nil when the queue is empty.
func (q *Raw) Front() []byte {
	if q.head == q.tail {
		return nil
	}

	return q.slot(q.head)
}

// Back returns the back element, or nil when the queue is empty.
func (q *Raw) Back() []byte {
	if q.head == q.tail {
		return nil
	}
	i := q.tail - 1
	if i < 0 {
		i = q.cap - 1
	}

	return q.slot(i)
}

// Next walks from head to tail. The none handle yields the front element;
// stepping past the back yields none.
func (q *Raw) Next(it Iter) (Iter, error) {
	if q.head == q.tail {
		return Iter{}, nil
	}
	var i int
	if it.None() {
		i = q.head
	} else {
		if it.gen != q.gen {
			return Iter{}, ErrStaleIterator
		}
		i = it.pos
		if i == q.cap {
			i = 0
		}
	}
	if i == q.tail {
		return Iter{}, nil
	}

	return Iter{pos: i + 1, gen: q.gen}, nil
}

// Value returns the element at it.
func (q *Raw) Value(it Iter) ([]byte, error) {
	if it.None() {
		return nil, ErrOutOfRange
	}
	if it.gen != q.gen {
		return nil, ErrStaleIterator
	}
	i := it.pos - 1
	if i < 0 || i >= q.cap || !q.live(i) {
		return nil, ErrOutOfRange
	}

	return q.slot(i), nil
}

func (q *Raw) live(i int) bool {
	if q.head <= q.tail {
		return i >= q.head && i < q.tail
	}

	return i >= q.head || i < q.tail
}

// Clear empties the queue and keeps the ring.
func (q *Raw) Clear() {
	q.head, q.tail = 0, 0
	q.gen++
}

// Free releases the ring. The queue stays usable and empty.
func (q *Raw) Free() {
	q.buf.Free()
	q.cap, q.head, q.tail = 0, 0, 0
	q.gen++
}

// All yields the elements front to back with their logical position.
func (q *Raw) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		n := q.Len()
		for k := 0; k < n; k++ {
			i := q.head + k
			if i >= q.cap {
				i -= q.cap
			}
			if !yield(k, q.slot(i)) {
				return
			}
		}
	}
}
