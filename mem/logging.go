// SPDX-License-Identifier: MIT

package mem

import "go.uber.org/zap"

// LoggingAllocator records every allocation and release at debug level and
// every refused request at warn level.
type LoggingAllocator struct {
	upstream Allocator
	logger   *zap.Logger
}

var _ Allocator = (*LoggingAllocator)(nil)

// NewLoggingAllocator wraps upstream. A nil logger disables output.
func NewLoggingAllocator(upstream Allocator, logger *zap.Logger) *LoggingAllocator {
	if upstream == nil {
		upstream = Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LoggingAllocator{upstream: upstream, logger: logger.Named("mem")}
}

// Allocate forwards to the upstream allocator and logs the outcome.
func (l *LoggingAllocator) Allocate(size uint64) ([]byte, Deallocator, error) {
	b, d, err := l.upstream.Allocate(size)
	if err != nil {
		l.logger.Warn("allocate failed", zap.Uint64("size", size), zap.Error(err))

		return nil, nil, err
	}
	l.logger.Debug("allocate", zap.Uint64("size", size))

	return b, ChainDeallocator(d, DeallocatorFunc(func() {
		l.logger.Debug("deallocate", zap.Uint64("size", size))
	})), nil
}
