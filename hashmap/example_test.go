// SPDX-License-Identifier: MIT

package hashmap_test

import (
	"encoding/binary"
	"fmt"

	"github.com/katalvlaran/bhlib/hashfn"
	"github.com/katalvlaran/bhlib/hashmap"
)

func ExampleMap() {
	m, err := hashmap.NewOf[uint32, float64](hashfn.Ordered[uint32], hashfn.Int[uint32])
	if err != nil {
		panic(err)
	}
	defer m.Free()

	for k := range uint32(16) {
		_ = m.Put(k, float64(k)/2)
	}
	for k := uint32(1); k < 16; k += 2 {
		m.Delete(k)
	}

	v, ok := m.Get(6)
	_, odd := m.Get(7)
	fmt.Println(m.Len(), m.Cap(), v, ok, odd)
	// Output: 8 32 3 true false
}

func ExampleRaw() {
	m, err := hashmap.New(4, 8, hashfn.Bytes, hashfn.XXHash)
	if err != nil {
		panic(err)
	}
	defer m.Free()

	it, _ := m.Insert([]byte("gold"))
	v, _ := m.Value(it)
	binary.LittleEndian.PutUint64(v, 1999)

	it = m.At([]byte("gold"))
	v, _ = m.Value(it)
	fmt.Println(binary.LittleEndian.Uint64(v), m.At([]byte("lead")).None())
	// Output: 1999 true
}
