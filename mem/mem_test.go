// SPDX-License-Identifier: MIT

package mem_test

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/bhlib/internal/unsafex"
	"github.com/katalvlaran/bhlib/mem"
)

// ------------------------------------------------------------------------
// 1. Layouts and size arithmetic.
// ------------------------------------------------------------------------

type pair struct {
	A uint32
	B int64
}

type withPointer struct {
	N int
	S string
}

func TestNewLayout(t *testing.T) {
	l, err := mem.NewLayout("key", 12)
	require.NoError(t, err)
	assert.Equal(t, mem.Layout{Size: 12, Align: 1}, l)

	_, err = mem.NewLayout("value", 0)
	var le *mem.LayoutError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "value", le.What)
	assert.ErrorIs(t, err, mem.ErrZeroSize)
}

func TestLayoutOf(t *testing.T) {
	l, err := mem.LayoutOf[pair]()
	require.NoError(t, err)
	assert.Equal(t, 16, l.Size)
	assert.Equal(t, 8, l.Align)

	_, err = mem.LayoutOf[struct{}]()
	assert.ErrorIs(t, err, mem.ErrZeroSize)

	_, err = mem.LayoutOf[withPointer]()
	assert.ErrorIs(t, err, mem.ErrPointerType)

	_, err = mem.LayoutOf[[4]*int]()
	assert.ErrorIs(t, err, mem.ErrPointerType)

	_, err = mem.LayoutOf[[0]*int]()
	assert.ErrorIs(t, err, mem.ErrZeroSize)
}

func TestLayoutCheck(t *testing.T) {
	l, err := mem.LayoutOf[uint64]()
	require.NoError(t, err)

	buf := unsafex.Words(16)
	assert.NoError(t, l.Check(buf[:8]))
	assert.NoError(t, l.Check(buf[8:]))
	assert.ErrorIs(t, l.Check(buf[1:9]), mem.ErrMisaligned)
	assert.ErrorIs(t, l.Check(buf[:4]), mem.ErrMisaligned)
}

func TestBytesOverflow(t *testing.T) {
	n, err := mem.Bytes(16, 4)
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	_, err = mem.Bytes(math.MaxInt/2+1, 2)
	assert.ErrorIs(t, err, mem.ErrCapacityOverflow)
	_, err = mem.Bytes(-1, 2)
	assert.ErrorIs(t, err, mem.ErrCapacityOverflow)

	assert.False(t, mem.MulOverflows(0, math.MaxInt))
	assert.True(t, mem.MulOverflows(math.MaxInt, 2))
}

// ------------------------------------------------------------------------
// 2. Allocators.
// ------------------------------------------------------------------------

func TestGoAllocatorAligned(t *testing.T) {
	for _, size := range []uint64{1, 7, 8, 13, 4096} {
		b, d, err := mem.GoAllocator{}.Allocate(size)
		require.NoError(t, err)
		assert.Len(t, b, int(size))
		assert.True(t, unsafex.Aligned(b, 8))
		for _, c := range b {
			require.Zero(t, c)
		}
		d.Deallocate()
	}
}

func TestMmapAllocator(t *testing.T) {
	a := mem.NewMmapAllocator()
	b, d, err := a.Allocate(10000)
	require.NoError(t, err)
	require.Len(t, b, 10000)
	assert.True(t, unsafex.Aligned(b, 8))
	b[0], b[9999] = 1, 2
	assert.Equal(t, byte(2), b[9999])
	d.Deallocate()

	b, d, err = a.Allocate(0)
	require.NoError(t, err)
	assert.Empty(t, b)
	d.Deallocate()
}

func TestAllocBlock(t *testing.T) {
	blk, err := mem.Alloc(mem.Default(), 0)
	require.NoError(t, err)
	assert.Nil(t, blk.Bytes)

	_, err = mem.Alloc(mem.Default(), -1)
	assert.ErrorIs(t, err, mem.ErrCapacityOverflow)

	blk, err = mem.Alloc(mem.Default(), 32)
	require.NoError(t, err)
	assert.Len(t, blk.Bytes, 32)
	blk.Free()
	assert.Nil(t, blk.Bytes)
	blk.Free() // second release is a no-op on the empty block
}

func TestChainDeallocatorOrder(t *testing.T) {
	var got []int
	d := mem.ChainDeallocator(
		mem.DeallocatorFunc(func() { got = append(got, 1) }),
		nil,
		mem.DeallocatorFunc(func() { got = append(got, 2) }),
	)
	d.Deallocate()
	assert.Equal(t, []int{1, 2}, got)
}

func TestLimitAllocator(t *testing.T) {
	l := mem.NewLimitAllocator(nil, 100)

	_, d1, err := l.Allocate(60)
	require.NoError(t, err)
	_, _, err = l.Allocate(41)
	require.ErrorIs(t, err, mem.ErrOutOfMemory)

	_, d2, err := l.Allocate(40)
	require.NoError(t, err)
	bytes, objects := l.InUse()
	assert.Equal(t, uint64(100), bytes)
	assert.Equal(t, int64(2), objects)

	d1.Deallocate()
	d1.Deallocate() // released once only
	bytes, objects = l.InUse()
	assert.Equal(t, uint64(40), bytes)
	assert.Equal(t, int64(1), objects)

	d2.Deallocate()
	bytes, _ = l.InUse()
	assert.Zero(t, bytes)
	assert.Equal(t, uint64(100), l.Limit())
}

type failingAllocator struct{}

func (failingAllocator) Allocate(uint64) ([]byte, mem.Deallocator, error) {
	return nil, nil, errors.New("boom")
}

func TestLimitAllocatorUpstreamFailure(t *testing.T) {
	l := mem.NewLimitAllocator(failingAllocator{}, 100)
	_, _, err := l.Allocate(10)
	require.EqualError(t, err, "boom")
	bytes, objects := l.InUse()
	assert.Zero(t, bytes)
	assert.Zero(t, objects)
}

func TestMetricsAllocator(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := mem.NewMetricsAllocator(nil, reg)
	require.NoError(t, err)

	_, d, err := m.Allocate(128)
	require.NoError(t, err)
	_, d2, err := m.Allocate(64)
	require.NoError(t, err)
	d.Deallocate()

	c := m.Collectors()
	assert.Equal(t, 192.0, testutil.ToFloat64(c[0]))
	assert.Equal(t, 64.0, testutil.ToFloat64(c[1]))
	assert.Equal(t, 2.0, testutil.ToFloat64(c[2]))
	assert.Equal(t, 1.0, testutil.ToFloat64(c[3]))
	d2.Deallocate()
	assert.Zero(t, testutil.ToFloat64(c[1]))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)

	// Registering the same names twice is refused.
	_, err = mem.NewMetricsAllocator(nil, reg)
	assert.Error(t, err)
}

func TestLoggingAllocator(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := mem.NewLoggingAllocator(nil, zap.New(core))

	_, d, err := l.Allocate(16)
	require.NoError(t, err)
	d.Deallocate()
	assert.Equal(t, 1, logs.FilterMessage("allocate").Len())
	assert.Equal(t, 1, logs.FilterMessage("deallocate").Len())

	f := mem.NewLoggingAllocator(failingAllocator{}, zap.New(core))
	_, _, err = f.Allocate(16)
	require.Error(t, err)
	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warn, 1)
	assert.Equal(t, "allocate failed", warn[0].Message)
}
