// SPDX-License-Identifier: MIT

// Package unsafex is the only place in bhlib that imports unsafe.
//
// Containers store elements as raw bytes. The typed facades (array.Array,
// queue.Queue, hashmap.Map) need to reinterpret those bytes as values of a
// pointer-free type and back; every such reinterpretation goes through the
// helpers below so the set of unsafe conversions stays small and auditable.
//
// Callers must guarantee:
//   - the element type holds no Go pointers (see HasPointers);
//   - the byte slice is at least unsafe.Sizeof(T) long;
//   - the byte slice start is aligned for T (see Aligned).
package unsafex

import (
	"reflect"
	"unsafe"
)

// wordSize is the alignment guaranteed by Words.
const wordSize = 8

// Words returns n zeroed bytes whose first byte is 8-byte aligned.
// The memory is backed by a []uint64 so the Go allocator keeps it aligned.
func Words(n int) []byte {
	if n <= 0 {
		return nil
	}
	w := make([]uint64, (n+wordSize-1)/wordSize)

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(w))), n)
}

// Bytes views the memory of *p as a byte slice of length unsafe.Sizeof(T).
func Bytes[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}

// As views the head of b as a *T. It panics if b is shorter than T.
func As[T any](b []byte) *T {
	var zero T
	if uintptr(len(b)) < unsafe.Sizeof(zero) {
		panic("unsafex: byte slice shorter than target type")
	}

	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// Slice views b as a []T of len(b)/sizeof(T) elements.
func Slice[T any](b []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || len(b) < size {
		return nil
	}

	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/size)
}

// Aligned reports whether the first byte of b sits on an align boundary.
// Empty slices are always aligned.
func Aligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}

	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%uintptr(align) == 0
}

// SizeAlign returns unsafe.Sizeof and unsafe.Alignof for T.
func SizeAlign[T any]() (size, align int) {
	var zero T

	return int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))
}

// HasPointers reports whether values of t contain Go pointers and therefore
// must not live in memory the garbage collector does not scan.
func HasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && HasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if HasPointers(t.Field(i).Type) {
				return true
			}
		}

		return false
	default:
		return false
	}
}
