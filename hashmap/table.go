// SPDX-License-Identifier: MIT

package hashmap

import (
	"fmt"

	"github.com/katalvlaran/bhlib/algo"
	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// table is one generation of bucket storage: cap buckets plus the carry
// slot at index cap.
type table struct {
	keySize   int
	valueSize int
	cap       int

	keyBlk   mem.Block
	valueBlk mem.Block
	pslBlk   mem.Block
	psl      []uint64
}

// allocTable obtains the three arrays for a table of capacity buckets.
// If any allocation fails the ones already obtained are released.
func allocTable(a mem.Allocator, key, value mem.Layout, capacity int) (table, error) {
	t := table{keySize: key.Size, valueSize: value.Size}
	if capacity == 0 {
		return t, nil
	}
	slots := capacity + 1

	reqs := []struct {
		blk   *mem.Block
		size  int
		align int
	}{
		{&t.keyBlk, key.Size, key.Align},
		{&t.valueBlk, value.Size, value.Align},
		{&t.pslBlk, pslSize, pslSize},
	}
	for i, r := range reqs {
		n, err := mem.Bytes(slots, r.size)
		if err == nil {
			*r.blk, err = mem.Alloc(a, n)
		}
		if err == nil && !unsafex.Aligned(r.blk.Bytes, r.align) {
			r.blk.Free()
			err = mem.ErrMisaligned
		}
		if err != nil {
			for _, done := range reqs[:i] {
				done.blk.Free()
			}

			return table{}, fmt.Errorf("hashmap: allocate %d buckets: %w", capacity, err)
		}
	}

	t.cap = capacity
	t.psl = unsafex.Slice[uint64](t.pslBlk.Bytes)
	clear(t.psl)

	return t, nil
}

func (t *table) free() {
	t.keyBlk.Free()
	t.valueBlk.Free()
	t.pslBlk.Free()
	*t = table{keySize: t.keySize, valueSize: t.valueSize}
}

func (t *table) key(b int) []byte {
	off := b * t.keySize

	return t.keyBlk.Bytes[off : off+t.keySize : off+t.keySize]
}

func (t *table) value(b int) []byte {
	off := b * t.valueSize

	return t.valueBlk.Bytes[off : off+t.valueSize : off+t.valueSize]
}

func (t *table) mask() int { return t.cap - 1 }

// exchange trades the entries in buckets a and b.
func (t *table) exchange(a, b int) {
	t.psl[a], t.psl[b] = t.psl[b], t.psl[a]
	algo.Swap(t.key(a), t.key(b))
	algo.Swap(t.value(a), t.value(b))
}

// move copies the entry in bucket src over bucket dst.
func (t *table) move(dst, src int) {
	t.psl[dst] = t.psl[src]
	copy(t.key(dst), t.key(src))
	copy(t.value(dst), t.value(src))
}

// carryState tags what the carry slot holds while place walks the table.
type carryState uint8

const (
	// carryingNew: the caller's key is still looking for a bucket.
	carryingNew carryState = iota
	// carryingDisplaced: the caller's key has landed; a former resident is
	// being carried to the next free bucket.
	carryingDisplaced
)

// place runs robin-hood insertion of key with hash h and returns the bucket
// that ends up holding key. The table must have at least one empty bucket.
// The value bytes of the new entry are whatever the carry slot held.
func (t *table) place(key []byte, h uint64) int {
	carry := t.cap
	copy(t.key(carry), key)
	t.psl[carry] = 1

	state, home := carryingNew, -1
	b := int(h & uint64(t.mask()))
	for t.psl[b] != 0 {
		if t.psl[carry] > t.psl[b] {
			t.exchange(b, carry)
			if state == carryingNew {
				state, home = carryingDisplaced, b
			}
		}
		b = (b + 1) & t.mask()
		t.psl[carry]++
	}
	t.move(b, carry)
	if state == carryingNew {
		home = b
	}

	return home
}

// find returns the bucket holding key, or -1. Probing stops at the first
// resident richer than the probe.
func (t *table) find(key []byte, h uint64, compare func(a, b []byte) int) int {
	b := int(h & uint64(t.mask()))
	probe := uint64(1)
	for t.psl[b] >= probe && compare(t.key(b), key) != 0 {
		b = (b + 1) & t.mask()
		probe++
	}
	if t.psl[b] >= probe {
		return b
	}

	return -1
}

// evict empties bucket b by shifting the following displaced entries one
// bucket back.
func (t *table) evict(b int) {
	cur := b
	for range t.cap - 1 {
		next := (cur + 1) & t.mask()
		if t.psl[next] <= 1 {
			break
		}
		t.move(cur, next)
		t.psl[cur]--
		cur = next
	}
	t.psl[cur] = 0
}

// next returns the first occupied bucket at or after b, or -1.
func (t *table) next(b int) int {
	for ; b < t.cap; b++ {
		if t.psl[b] != 0 {
			return b
		}
	}

	return -1
}
