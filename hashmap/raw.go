// SPDX-License-Identifier: MIT

package hashmap

import (
	"fmt"
	"iter"
	"math"

	"github.com/katalvlaran/bhlib/mem"
)

// Raw is a robin-hood hash map over opaque fixed-size keys and values.
type Raw struct {
	key     mem.Layout
	value   mem.Layout
	compare func(a, b []byte) int
	hash    func(key []byte) uint64
	alloc   mem.Allocator

	t    table
	size int
	gen  uint64
}

// New returns an empty map of keySize-byte keys and valueSize-byte values.
// compare must return 0 exactly for equal keys; hash must agree with it.
func New(keySize, valueSize int, compare func(a, b []byte) int, hash func(key []byte) uint64, opts ...Option) (*Raw, error) {
	key, err := mem.NewLayout("key", keySize)
	if err != nil {
		return nil, err
	}
	value, err := mem.NewLayout("value", valueSize)
	if err != nil {
		return nil, err
	}

	return newRaw(key, value, compare, hash, opts)
}

func newRaw(key, value mem.Layout, compare func(a, b []byte) int, hash func([]byte) uint64, opts []Option) (*Raw, error) {
	if compare == nil || hash == nil {
		return nil, ErrNilFunc
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &Raw{
		key:     key,
		value:   value,
		compare: compare,
		hash:    hash,
		alloc:   o.Allocator,
		t:       table{keySize: key.Size, valueSize: value.Size},
	}
	if o.Capacity > 0 {
		if err := m.Reserve(o.Capacity); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// KeySize returns the key size in bytes.
func (m *Raw) KeySize() int { return m.key.Size }

// ValueSize returns the value size in bytes.
func (m *Raw) ValueSize() int { return m.value.Size }

// Len returns the number of live entries.
func (m *Raw) Len() int { return m.size }

// Cap returns the number of buckets.
func (m *Raw) Cap() int { return m.t.cap }

// maxCapacity bounds the bucket count so that (capacity+1) slots of a PSL,
// a key and a value stay addressable.
func (m *Raw) maxCapacity() int {
	if m.key.Size > math.MaxInt-pslSize-m.value.Size {
		return 0
	}

	return math.MaxInt/(pslSize+m.key.Size+m.value.Size) - 1
}

// capacityFor returns the bucket count Reserve settles on for n entries.
func (m *Raw) capacityFor(n int) (int, error) {
	capacity := m.t.cap
	switch {
	case n == 0:
		return 0, nil
	case n > capacity/8*7:
		limit := m.maxCapacity()
		for n > capacity/8*7 {
			if capacity == 0 {
				capacity = minCapacity
			} else if capacity > math.MaxInt/2 {
				return 0, mem.ErrCapacityOverflow
			} else {
				capacity *= 2
			}
			if capacity > limit {
				return 0, mem.ErrCapacityOverflow
			}
		}
	default:
		for n <= capacity/16*7 && capacity > minCapacity {
			capacity /= 2
		}
	}

	return capacity, nil
}

// Reserve resizes the table for max(n, Len()) entries: it doubles until the
// entries fit under a 7/8 load, or halves while they would sit at or under
// 7/16 and the table is larger than 16 buckets. Reserve(0) on an empty map
// releases the table. Every live entry is re-inserted into the new table.
// On failure the map is unchanged.
func (m *Raw) Reserve(n int) error {
	if n < m.size {
		n = m.size
	}
	capacity, err := m.capacityFor(n)
	if err != nil {
		return fmt.Errorf("hashmap: reserve %d entries: %w", n, err)
	}
	if capacity == m.t.cap {
		return nil
	}

	next, err := allocTable(m.alloc, m.key, m.value, capacity)
	if err != nil {
		return err
	}
	for b := m.t.next(0); b >= 0; b = m.t.next(b + 1) {
		k := m.t.key(b)
		home := next.place(k, m.hash(k))
		copy(next.value(home), m.t.value(b))
	}

	m.t.free()
	m.t = next
	m.gen++

	return nil
}

// Insert adds key and returns the handle of its bucket. The value bytes are
// left for the caller to write. Insert does not look for an existing equal
// key; use At first, or Map.Put, to keep keys unique.
//
// Growth failure is only reported when the table has no free bucket left;
// otherwise the insert proceeds above the 7/8 load.
func (m *Raw) Insert(key []byte) (Iter, error) {
	if len(key) != m.key.Size {
		return Iter{}, fmt.Errorf("%w: got %d, want %d", ErrKeySize, len(key), m.key.Size)
	}
	if m.size+1 > m.t.cap/8*7 {
		if err := m.Reserve(m.size + 1); err != nil && m.size >= m.t.cap {
			return Iter{}, err
		}
	}

	b := m.t.place(key, m.hash(key))
	m.size++
	m.gen++

	return Iter{pos: b + 1, gen: m.gen}, nil
}

// At returns the handle of the bucket holding key, or the none handle.
func (m *Raw) At(key []byte) Iter {
	if m.size == 0 || len(key) != m.key.Size {
		return Iter{}
	}
	b := m.t.find(key, m.hash(key), m.compare)
	if b < 0 {
		return Iter{}
	}

	return Iter{pos: b + 1, gen: m.gen}
}

func (m *Raw) check(it Iter) (int, error) {
	if it.None() {
		return 0, ErrOutOfRange
	}
	if it.gen != m.gen {
		return 0, ErrStaleIterator
	}
	b := it.pos - 1
	if b < 0 || b >= m.t.cap || m.t.psl[b] == 0 {
		return 0, ErrOutOfRange
	}

	return b, nil
}

// Remove deletes the entry at it with backward-shift deletion. It returns the
// handle of the entry that slid into the freed bucket, or else the next
// occupied bucket, or none at the end of the table.
func (m *Raw) Remove(it Iter) (Iter, error) {
	b, err := m.check(it)
	if err != nil {
		return Iter{}, err
	}
	m.t.evict(b)
	m.size--
	m.gen++

	if b = m.t.next(b); b < 0 {
		return Iter{}, nil
	}

	return Iter{pos: b + 1, gen: m.gen}, nil
}

// Next returns the next occupied bucket after it; the none handle starts at
// the first bucket.
func (m *Raw) Next(it Iter) (Iter, error) {
	from := 0
	if !it.None() {
		if it.gen != m.gen {
			return Iter{}, ErrStaleIterator
		}
		from = it.pos
	}
	b := m.t.next(from)
	if b < 0 {
		return Iter{}, nil
	}

	return Iter{pos: b + 1, gen: m.gen}, nil
}

// Key returns the key stored at it. The slice aliases the table.
func (m *Raw) Key(it Iter) ([]byte, error) {
	b, err := m.check(it)
	if err != nil {
		return nil, err
	}

	return m.t.key(b), nil
}

// Value returns the value stored at it. The slice aliases the table.
func (m *Raw) Value(it Iter) ([]byte, error) {
	b, err := m.check(it)
	if err != nil {
		return nil, err
	}

	return m.t.value(b), nil
}

// Clear empties every bucket and keeps the table.
func (m *Raw) Clear() {
	if m.t.cap > 0 {
		clear(m.t.psl[:m.t.cap])
	}
	m.size = 0
	m.gen++
}

// Free releases the table. The map stays usable and empty.
func (m *Raw) Free() {
	m.t.free()
	m.size = 0
	m.gen++
}

// All yields every entry in bucket order. Mutating the map while ranging is
// not supported.
func (m *Raw) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for b := m.t.next(0); b >= 0; b = m.t.next(b + 1) {
			if !yield(m.t.key(b), m.t.value(b)) {
				return
			}
		}
	}
}

// Stats reports the table's size, load and probe-sequence lengths.
func (m *Raw) Stats() Stats {
	s := Stats{Size: m.size, Capacity: m.t.cap}
	if m.t.cap == 0 {
		return s
	}
	s.Load = float64(m.size) / float64(m.t.cap)
	var total uint64
	for _, p := range m.t.psl[:m.t.cap] {
		if p == 0 {
			continue
		}
		total += p
		if int(p) > s.MaxPSL {
			s.MaxPSL = int(p)
		}
	}
	if m.size > 0 {
		s.MeanPSL = float64(total) / float64(m.size)
	}

	return s
}
