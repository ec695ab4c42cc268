// SPDX-License-Identifier: MIT

package queue_test

import (
	"testing"

	"github.com/katalvlaran/bhlib/queue"
)

func BenchmarkPushPop_Steady(b *testing.B) {
	q, _ := queue.NewOf[uint64](queue.WithCapacity(1024))
	for i := range uint64(512) {
		_ = q.PushBack(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = q.PushBack(uint64(i))
		_, _ = q.PopFront()
	}
}

func BenchmarkPushBack_Grow(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r, _ := queue.New(32)
		for range 1 << 14 {
			_, _ = r.PushBack()
		}
		r.Free()
	}
}
