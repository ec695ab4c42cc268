// SPDX-License-Identifier: MIT

package mem

import (
	"math"
	"math/bits"
	"reflect"

	"github.com/katalvlaran/bhlib/internal/unsafex"
)

// Layout describes a fixed-size opaque element: its byte size and the
// alignment its storage must honour. Containers keep one Layout per element
// kind for their whole lifetime.
type Layout struct {
	Size  int
	Align int
}

// NewLayout returns a byte-aligned layout for opaque records of size bytes.
// what names the element in the returned *LayoutError ("element", "key", ...).
func NewLayout(what string, size int) (Layout, error) {
	if size <= 0 {
		return Layout{}, &LayoutError{What: what, Size: size, Err: ErrZeroSize}
	}

	return Layout{Size: size, Align: 1}, nil
}

// LayoutOf returns the layout of T. T must have a non-zero size and must not
// contain Go pointers.
func LayoutOf[T any]() (Layout, error) {
	size, align := unsafex.SizeAlign[T]()
	t := reflect.TypeFor[T]()
	if size == 0 {
		return Layout{}, &LayoutError{What: t.String(), Size: size, Err: ErrZeroSize}
	}
	if unsafex.HasPointers(t) {
		return Layout{}, &LayoutError{What: t.String(), Size: size, Err: ErrPointerType}
	}

	return Layout{Size: size, Align: align}, nil
}

// Check verifies that b can hold exactly one element of this layout.
func (l Layout) Check(b []byte) error {
	if len(b) != l.Size || !unsafex.Aligned(b, l.Align) {
		return ErrMisaligned
	}

	return nil
}

// MaxCount returns the largest element count whose byte size fits an int.
func (l Layout) MaxCount() int {
	return math.MaxInt / l.Size
}

// Bytes returns count*size as an int, or ErrCapacityOverflow.
func Bytes(count, size int) (int, error) {
	if count < 0 || size < 0 || MulOverflows(count, size) {
		return 0, ErrCapacityOverflow
	}

	return count * size, nil
}

// MulOverflows reports whether a*b overflows a non-negative int.
func MulOverflows(a, b int) bool {
	if a < 0 || b < 0 {
		return true
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))

	return hi != 0 || lo > math.MaxInt
}
