// SPDX-License-Identifier: MIT

package array_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bhlib/array"
	"github.com/katalvlaran/bhlib/mem"
)

func put32(t *testing.T, r *array.Raw, it array.Iter, v uint32) {
	t.Helper()
	b, err := r.Value(it)
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(b, v)
}

func contents(r *array.Raw) []uint32 {
	out := []uint32{}
	for _, b := range r.All() {
		out = append(out, binary.LittleEndian.Uint32(b))
	}

	return out
}

func filled(t *testing.T, vals ...uint32) *array.Raw {
	t.Helper()
	r, err := array.New(4)
	require.NoError(t, err)
	for _, v := range vals {
		it, err := r.Insert(r.Len())
		require.NoError(t, err)
		put32(t, r, it, v)
	}

	return r
}

// ------------------------------------------------------------------------
// 1. Construction and capacity.
// ------------------------------------------------------------------------

func TestNewRejectsZeroSize(t *testing.T) {
	_, err := array.New(0)
	var le *mem.LayoutError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, mem.ErrZeroSize)
}

func TestNewWithCapacity(t *testing.T) {
	r, err := array.New(8, array.WithCapacity(10))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 10, r.Cap())
	assert.Equal(t, 8, r.Size())
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = array.New(4, array.WithCapacity(-1)) })
	assert.Panics(t, func() { _, _ = array.New(4, array.WithAllocator(nil)) })
}

func TestReserveExactAndNeverBelowLength(t *testing.T) {
	r := filled(t, 1, 2, 3)
	require.Equal(t, 16, r.Cap())

	require.NoError(t, r.Reserve(100))
	assert.Equal(t, 100, r.Cap())

	require.NoError(t, r.Reserve(1))
	assert.Equal(t, 3, r.Cap())
	assert.Equal(t, []uint32{1, 2, 3}, contents(r))
}

func TestReserveSameCapacityKeepsHandles(t *testing.T) {
	r := filled(t, 1, 2)
	it := r.At(1)
	require.NoError(t, r.Reserve(r.Cap()))
	_, err := r.Value(it)
	assert.NoError(t, err)
}

func TestReserveOverflow(t *testing.T) {
	r := filled(t, 7)
	capBefore := r.Cap()

	err := r.Reserve(math.MaxInt/4 + 1)
	require.ErrorIs(t, err, mem.ErrCapacityOverflow)
	assert.Equal(t, capBefore, r.Cap())
	assert.Equal(t, []uint32{7}, contents(r))
}

func TestReserveAllocatorFailure(t *testing.T) {
	limit := mem.NewLimitAllocator(nil, 64)
	r, err := array.New(4, array.WithAllocator(limit))
	require.NoError(t, err)
	for i := range 16 {
		it, err := r.Insert(i)
		require.NoError(t, err)
		put32(t, r, it, uint32(i))
	}

	// The 17th element needs a 128-byte buffer while the 64-byte one is live.
	_, err = r.Insert(16)
	require.ErrorIs(t, err, mem.ErrOutOfMemory)
	assert.Equal(t, 16, r.Len())
	assert.Equal(t, 16, r.Cap())
	assert.Len(t, contents(r), 16)

	r.Free()
	used, _ := limit.InUse()
	assert.Zero(t, used)
}

type oddAllocator struct{}

func (oddAllocator) Allocate(size uint64) ([]byte, mem.Deallocator, error) {
	b, d, err := mem.GoAllocator{}.Allocate(size + 1)

	return b[1:], d, err
}

func TestTypedRejectsMisalignedBuffer(t *testing.T) {
	a, err := array.NewOf[uint64](array.WithAllocator(oddAllocator{}))
	require.NoError(t, err)
	err = a.Append(1)
	assert.ErrorIs(t, err, mem.ErrMisaligned)
	assert.Zero(t, a.Len())

	// Byte-aligned records do not care.
	r, err := array.New(8, array.WithAllocator(oddAllocator{}))
	require.NoError(t, err)
	_, err = r.Insert(0)
	assert.NoError(t, err)
}

func TestResize(t *testing.T) {
	r := filled(t, 1, 2, 3)
	require.NoError(t, r.Resize(40))
	assert.Equal(t, 40, r.Len())
	assert.Equal(t, 40, r.Cap())
	assert.Equal(t, []uint32{1, 2, 3}, contents(r)[:3])

	require.NoError(t, r.Resize(2))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 40, r.Cap())

	assert.ErrorIs(t, r.Resize(-1), array.ErrOutOfRange)
}

// ------------------------------------------------------------------------
// 2. Insert, remove and traversal.
// ------------------------------------------------------------------------

func TestInsertClampsAndShifts(t *testing.T) {
	r := filled(t, 1, 3)
	it, err := r.Insert(1)
	require.NoError(t, err)
	assert.Equal(t, 1, it.Index())
	put32(t, r, it, 2)

	it, err = r.Insert(99)
	require.NoError(t, err)
	assert.Equal(t, 3, it.Index())
	put32(t, r, it, 4)

	assert.Equal(t, []uint32{1, 2, 3, 4}, contents(r))

	_, err = r.Insert(-1)
	assert.ErrorIs(t, err, array.ErrOutOfRange)
}

func TestInsertDoublesCapacity(t *testing.T) {
	r := filled(t)
	assert.Zero(t, r.Cap())
	for i := range 17 {
		_, err := r.Insert(i)
		require.NoError(t, err)
	}
	assert.Equal(t, 32, r.Cap())
}

func TestInsertRemoveInverse(t *testing.T) {
	base := []uint32{10, 20, 30, 40, 50}
	for idx := 0; idx <= len(base); idx++ {
		r := filled(t, base...)
		it, err := r.Insert(idx)
		require.NoError(t, err)
		put32(t, r, it, 999)

		_, err = r.Remove(it)
		require.NoError(t, err)
		assert.Equal(t, base, contents(r), "index %d", idx)
		assert.Equal(t, len(base), r.Len())
	}
}

func TestRemoveReturnsSuccessor(t *testing.T) {
	r := filled(t, 1, 2, 3)

	next, err := r.Remove(r.At(1))
	require.NoError(t, err)
	v, err := r.Value(next)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(v))

	next, err = r.Remove(next)
	require.NoError(t, err)
	assert.True(t, next.None())
	assert.Equal(t, []uint32{1}, contents(r))
}

func TestRemoveOutOfRange(t *testing.T) {
	r := filled(t, 1)
	_, err := r.Remove(r.At(1))
	assert.ErrorIs(t, err, array.ErrOutOfRange)
	_, err = r.Remove(array.Iter{})
	assert.ErrorIs(t, err, array.ErrOutOfRange)
	_, err = r.Value(r.At(5))
	assert.ErrorIs(t, err, array.ErrOutOfRange)
}

func TestNoneHandleIsOutOfRangeAfterMutation(t *testing.T) {
	r := filled(t, 1, 2, 3)
	_, err := r.Insert(1)
	require.NoError(t, err)

	none := r.At(-1)
	require.True(t, none.None())
	_, err = r.Value(none)
	assert.ErrorIs(t, err, array.ErrOutOfRange)
	assert.NotErrorIs(t, err, array.ErrStaleIterator)
	_, err = r.Remove(none)
	assert.ErrorIs(t, err, array.ErrOutOfRange)
	assert.Equal(t, 4, r.Len())
}

func TestStaleIterator(t *testing.T) {
	r := filled(t, 1, 2)
	it := r.At(0)
	_, err := r.Insert(0)
	require.NoError(t, err)

	_, err = r.Value(it)
	assert.ErrorIs(t, err, array.ErrStaleIterator)
	_, err = r.Remove(it)
	assert.ErrorIs(t, err, array.ErrStaleIterator)
	_, err = r.Next(it)
	assert.ErrorIs(t, err, array.ErrStaleIterator)

	it = r.At(0)
	r.Clear()
	_, err = r.Value(it)
	assert.ErrorIs(t, err, array.ErrStaleIterator)
}

func TestNextTraversal(t *testing.T) {
	r := filled(t)
	it, err := r.Next(array.Iter{})
	require.NoError(t, err)
	assert.True(t, it.None())

	r = filled(t, 5, 6, 7)
	var got []uint32
	for it, err = r.Next(array.Iter{}); !it.None(); it, err = r.Next(it) {
		require.NoError(t, err)
		v, err := r.Value(it)
		require.NoError(t, err)
		got = append(got, binary.LittleEndian.Uint32(v))
	}
	require.NoError(t, err)
	assert.Equal(t, []uint32{5, 6, 7}, got)
}

func TestBytesClearFree(t *testing.T) {
	r := filled(t, 1, 2)
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, r.Bytes())

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Equal(t, 16, r.Cap())
	assert.Empty(t, r.Bytes())

	r.Free()
	assert.Zero(t, r.Cap())
	_, err := r.Insert(0)
	assert.NoError(t, err)
}

func TestRawSort(t *testing.T) {
	r := filled(t, 4, 3, 2, 1, 5, 6, 7, 8)
	r.Sort(func(a, b []byte) int {
		return int(binary.LittleEndian.Uint32(a)) - int(binary.LittleEndian.Uint32(b))
	})
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6, 7, 8}, contents(r))
}

func TestAllStopsEarly(t *testing.T) {
	r := filled(t, 1, 2, 3)
	n := 0
	for range r.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

// ------------------------------------------------------------------------
// 3. Model check against a plain slice.
// ------------------------------------------------------------------------

func TestRandomOpsMatchSliceModel(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	r, err := array.New(3)
	require.NoError(t, err)
	var model [][]byte

	for step := range 2000 {
		switch op := rng.IntN(10); {
		case op < 6:
			idx := rng.IntN(len(model) + 3)
			it, err := r.Insert(idx)
			require.NoError(t, err)
			v := []byte{byte(step), byte(step >> 8), byte(rng.Uint32())}
			b, err := r.Value(it)
			require.NoError(t, err)
			copy(b, v)
			if idx > len(model) {
				idx = len(model)
			}
			model = append(model[:idx], append([][]byte{v}, model[idx:]...)...)
		case op < 9 && len(model) > 0:
			idx := rng.IntN(len(model))
			_, err := r.Remove(r.At(idx))
			require.NoError(t, err)
			model = append(model[:idx], model[idx+1:]...)
		case op == 9:
			require.NoError(t, r.Reserve(rng.IntN(64)))
		}

		require.Equal(t, len(model), r.Len())
		require.LessOrEqual(t, r.Len(), r.Cap())
	}

	got := [][]byte{}
	for _, b := range r.All() {
		got = append(got, bytes.Clone(b))
	}
	want := append([][]byte{}, model...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("array diverged from model (-want +got):\n%s", diff)
	}
}
