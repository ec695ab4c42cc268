// SPDX-License-Identifier: MIT

package hashfn_test

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bhlib/hashfn"
)

func TestIdentity(t *testing.T) {
	assert.Equal(t, uint64(0), hashfn.Identity(nil))
	assert.Equal(t, uint64(0x0201), hashfn.Identity([]byte{1, 2}))
	assert.Equal(t, uint64(0x0807060504030201),
		hashfn.Identity([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
}

func TestInt(t *testing.T) {
	assert.Equal(t, uint64(42), hashfn.Int(int32(42)))
	assert.Equal(t, uint64(7), hashfn.Int(uint8(7)))
}

func TestXXHashMatchesLibrary(t *testing.T) {
	b := []byte("robin hood")
	assert.Equal(t, xxhash.Sum64(b), hashfn.XXHash(b))
}

func TestMetroSeeds(t *testing.T) {
	b := []byte("backward shift")
	h0, h1 := hashfn.Metro(0), hashfn.Metro(1)
	assert.Equal(t, h0(b), h0(b))
	assert.NotEqual(t, h0(b), h1(b))
}

func TestOfHashesKeyMemory(t *testing.T) {
	h := hashfn.Of[uint32](hashfn.Identity)
	assert.Equal(t, uint64(0xdeadbeef), h(0xdeadbeef))

	type key struct{ A, B uint32 }
	hk := hashfn.Of[key](hashfn.XXHash)
	assert.Equal(t, hk(key{1, 2}), hk(key{1, 2}))
	assert.NotEqual(t, hk(key{1, 2}), hk(key{2, 1}))
}

func TestComparators(t *testing.T) {
	assert.Negative(t, hashfn.Bytes([]byte{1}, []byte{2}))
	assert.Zero(t, hashfn.Bytes([]byte{3, 4}, []byte{3, 4}))
	assert.Positive(t, hashfn.Ordered("b", "a"))
}

func TestNamed(t *testing.T) {
	for _, name := range []string{"xxhash", "metro", "identity"} {
		fn, ok := hashfn.Named(name)
		require.True(t, ok, name)
		require.NotNil(t, fn)
	}
	_, ok := hashfn.Named("crc32")
	assert.False(t, ok)
}
