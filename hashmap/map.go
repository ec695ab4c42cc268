// SPDX-License-Identifier: MIT

package hashmap

import (
	"iter"

	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// Map is a robin-hood hash map from K to V. K and V must be pointer-free.
// Unlike Raw, Map keeps keys unique.
type Map[K, V any] struct {
	raw *Raw
}

// NewOf returns an empty Map. compare must return 0 exactly for equal keys
// and hash must agree with it.
func NewOf[K, V any](compare func(a, b K) int, hash func(K) uint64, opts ...Option) (*Map[K, V], error) {
	if compare == nil || hash == nil {
		return nil, ErrNilFunc
	}
	key, err := mem.LayoutOf[K]()
	if err != nil {
		return nil, err
	}
	value, err := mem.LayoutOf[V]()
	if err != nil {
		return nil, err
	}
	raw, err := newRaw(key, value,
		func(a, b []byte) int { return compare(*unsafex.As[K](a), *unsafex.As[K](b)) },
		func(k []byte) uint64 { return hash(*unsafex.As[K](k)) },
		opts,
	)
	if err != nil {
		return nil, err
	}

	return &Map[K, V]{raw: raw}, nil
}

// Raw exposes the byte-level map behind m.
func (m *Map[K, V]) Raw() *Raw { return m.raw }

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.raw.Len() }

// Cap returns the bucket count.
func (m *Map[K, V]) Cap() int { return m.raw.Cap() }

// Reserve resizes the table for max(n, Len()) entries.
func (m *Map[K, V]) Reserve(n int) error { return m.raw.Reserve(n) }

// Clear removes every entry and keeps the table.
func (m *Map[K, V]) Clear() { m.raw.Clear() }

// Free releases the table; m stays usable and empty.
func (m *Map[K, V]) Free() { m.raw.Free() }

// Stats reports the table's shape and probe lengths.
func (m *Map[K, V]) Stats() Stats { return m.raw.Stats() }

// Put stores v under k, replacing any previous value.
func (m *Map[K, V]) Put(k K, v V) error {
	kb := unsafex.Bytes(&k)
	it := m.raw.At(kb)
	if it.None() {
		var err error
		if it, err = m.raw.Insert(kb); err != nil {
			return err
		}
	}
	*unsafex.As[V](m.raw.t.value(it.pos-1)) = v

	return nil
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	var zero V
	it := m.raw.At(unsafex.Bytes(&k))
	if it.None() {
		return zero, false
	}

	return *unsafex.As[V](m.raw.t.value(it.pos - 1)), true
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	return !m.raw.At(unsafex.Bytes(&k)).None()
}

// Delete removes k and reports whether it was present.
func (m *Map[K, V]) Delete(k K) bool {
	it := m.raw.At(unsafex.Bytes(&k))
	if it.None() {
		return false
	}
	_, err := m.raw.Remove(it)

	return err == nil
}

// All yields every entry in bucket order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range m.raw.All() {
			if !yield(*unsafex.As[K](k), *unsafex.As[V](v)) {
				return
			}
		}
	}
}
