// SPDX-License-Identifier: MIT

package algo

const wordSize = 8

// Swap exchanges the first len(a) bytes of a and b. It moves whole 8-byte
// words first and finishes with the remaining tail. b must be at least as
// long as a; overlapping regions give unspecified results.
func Swap(a, b []byte) {
	n := len(a)
	b = b[:n]

	var tmp [wordSize]byte
	i := 0
	for ; i+wordSize <= n; i += wordSize {
		copy(tmp[:], a[i:i+wordSize])
		copy(a[i:i+wordSize], b[i:i+wordSize])
		copy(b[i:i+wordSize], tmp[:])
	}
	for ; i < n; i++ {
		a[i], b[i] = b[i], a[i]
	}
}
