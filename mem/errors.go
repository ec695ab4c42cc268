// SPDX-License-Identifier: MIT

package mem

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every container in bhlib.
var (
	// ErrZeroSize indicates an element, key or value layout of zero bytes.
	ErrZeroSize = errors.New("mem: element size must be positive")

	// ErrPointerType indicates a type that carries Go pointers and therefore
	// cannot be stored in allocator-owned memory.
	ErrPointerType = errors.New("mem: element type contains pointers")

	// ErrCapacityOverflow indicates that a requested capacity multiplied by the
	// element size would not fit the platform int.
	ErrCapacityOverflow = errors.New("mem: capacity overflow")

	// ErrOutOfMemory indicates that an allocator refused a request.
	ErrOutOfMemory = errors.New("mem: out of memory")

	// ErrMisaligned indicates a byte region that does not satisfy a layout's
	// alignment or length.
	ErrMisaligned = errors.New("mem: region does not match layout")
)

// LayoutError reports an invalid element description passed to a container
// constructor. It unwraps to ErrZeroSize or ErrPointerType.
type LayoutError struct {
	What string // "element", "key", "value" or a type name
	Size int
	Err  error
}

// Error implements error.
func (e *LayoutError) Error() string {
	return fmt.Sprintf("mem: invalid %s layout (size=%d): %v", e.What, e.Size, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *LayoutError) Unwrap() error { return e.Err }
