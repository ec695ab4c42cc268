// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/katalvlaran/bhlib/hashmap"
)

// Snapshot layout, little-endian:
//
//	0x00  magic "BHM1"
//	0x04  key size   uint32
//	0x08  value size uint32
//	0x0C  count      uint64
//	0x14  count × (key, value)
const (
	snapMagic      = "BHM1"
	snapHeaderSize = 20
)

var (
	errSnapshotMagic  = errors.New("not a bhmap snapshot")
	errSnapshotLayout = errors.New("snapshot key/value sizes do not match the map")
	errSnapshotShort  = errors.New("snapshot truncated")
)

// encodeSnapshot serialises every entry of m.
func encodeSnapshot(m *hashmap.Raw) []byte {
	ks, vs := m.KeySize(), m.ValueSize()
	buf := make([]byte, snapHeaderSize, snapHeaderSize+m.Len()*(ks+vs))
	copy(buf, snapMagic)
	binary.LittleEndian.PutUint32(buf[4:], uint32(ks))
	binary.LittleEndian.PutUint32(buf[8:], uint32(vs))
	binary.LittleEndian.PutUint64(buf[12:], uint64(m.Len()))
	for k, v := range m.All() {
		buf = append(buf, k...)
		buf = append(buf, v...)
	}

	return buf
}

// decodeSnapshot puts every entry of data into m, replacing values of keys
// already present. It returns the number of entries read.
func decodeSnapshot(data []byte, m *hashmap.Raw) (int, error) {
	if len(data) < snapHeaderSize || !bytes.Equal(data[:4], []byte(snapMagic)) {
		return 0, errSnapshotMagic
	}
	ks := int(binary.LittleEndian.Uint32(data[4:]))
	vs := int(binary.LittleEndian.Uint32(data[8:]))
	if ks != m.KeySize() || vs != m.ValueSize() {
		return 0, fmt.Errorf("%w: file %d/%d, map %d/%d", errSnapshotLayout, ks, vs, m.KeySize(), m.ValueSize())
	}
	count := binary.LittleEndian.Uint64(data[12:])
	body := data[snapHeaderSize:]
	if count > uint64(len(body)/(ks+vs)) || len(body) != int(count)*(ks+vs) {
		return 0, fmt.Errorf("%w: %d entries declared, %d bytes present", errSnapshotShort, count, len(body))
	}

	if err := m.Reserve(m.Len() + int(count)); err != nil {
		return 0, err
	}
	for i := range int(count) {
		rec := body[i*(ks+vs) : (i+1)*(ks+vs)]
		if err := put(m, rec[:ks], rec[ks:]); err != nil {
			return i, err
		}
	}

	return int(count), nil
}

// put stores value under key, replacing an existing entry.
func put(m *hashmap.Raw, key, value []byte) error {
	it := m.At(key)
	if it.None() {
		var err error
		if it, err = m.Insert(key); err != nil {
			return err
		}
	}
	v, err := m.Value(it)
	if err != nil {
		return err
	}
	copy(v, value)

	return nil
}

// saveSnapshot writes m to path atomically.
func saveSnapshot(path string, m *hashmap.Raw) error {
	if err := atomic.WriteFile(path, bytes.NewReader(encodeSnapshot(m))); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	return nil
}

// loadSnapshot merges the snapshot at path into m.
func loadSnapshot(path string, m *hashmap.Raw) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return 0, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	n, err := decodeSnapshot(data, m)
	if err != nil {
		return n, fmt.Errorf("loading snapshot %s: %w", path, err)
	}

	return n, nil
}
