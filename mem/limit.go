// SPDX-License-Identifier: MIT

package mem

import (
	"fmt"
	"sync/atomic"
)

// LimitAllocator caps the number of bytes that may be outstanding at once.
// A request that would push the in-use total past the budget fails with
// ErrOutOfMemory without reaching the upstream allocator.
//
// It is safe for concurrent use; the containers built on it are not.
type LimitAllocator struct {
	upstream Allocator
	limit    uint64

	inuseBytes   atomic.Uint64
	inuseObjects atomic.Int64
}

var _ Allocator = (*LimitAllocator)(nil)

// NewLimitAllocator wraps upstream with a budget of limit bytes.
func NewLimitAllocator(upstream Allocator, limit uint64) *LimitAllocator {
	if upstream == nil {
		upstream = Default()
	}

	return &LimitAllocator{upstream: upstream, limit: limit}
}

// Allocate reserves size bytes of budget and forwards the request.
func (l *LimitAllocator) Allocate(size uint64) ([]byte, Deallocator, error) {
	for {
		cur := l.inuseBytes.Load()
		if size > l.limit-cur {
			return nil, nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
				ErrOutOfMemory, size, cur, l.limit)
		}
		if l.inuseBytes.CompareAndSwap(cur, cur+size) {
			break
		}
	}

	b, d, err := l.upstream.Allocate(size)
	if err != nil {
		l.inuseBytes.Add(-size)

		return nil, nil, err
	}
	l.inuseObjects.Add(1)

	var released atomic.Bool

	return b, ChainDeallocator(d, DeallocatorFunc(func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		l.inuseBytes.Add(-size)
		l.inuseObjects.Add(-1)
	})), nil
}

// InUse returns the bytes and regions currently outstanding.
func (l *LimitAllocator) InUse() (bytes uint64, objects int64) {
	return l.inuseBytes.Load(), l.inuseObjects.Load()
}

// Limit returns the configured budget.
func (l *LimitAllocator) Limit() uint64 { return l.limit }
