// SPDX-License-Identifier: MIT

package mem

import "github.com/prometheus/client_golang/prometheus"

// MetricsAllocator counts allocations flowing through it into prometheus
// collectors. Deallocations decrement the in-use gauges.
type MetricsAllocator struct {
	upstream Allocator

	allocateBytesCounter   prometheus.Counter
	inuseBytesGauge        prometheus.Gauge
	allocateObjectsCounter prometheus.Counter
	inuseObjectsGauge      prometheus.Gauge
}

var _ Allocator = (*MetricsAllocator)(nil)

// NewMetricsAllocator wraps upstream and registers its four collectors with
// reg. A nil reg leaves the collectors unregistered, which is handy in tests.
func NewMetricsAllocator(upstream Allocator, reg prometheus.Registerer) (*MetricsAllocator, error) {
	if upstream == nil {
		upstream = Default()
	}
	m := &MetricsAllocator{
		upstream: upstream,
		allocateBytesCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bhlib",
			Subsystem: "mem",
			Name:      "allocate_bytes_total",
			Help:      "Total bytes handed out by the allocator.",
		}),
		inuseBytesGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bhlib",
			Subsystem: "mem",
			Name:      "inuse_bytes",
			Help:      "Bytes currently allocated and not yet released.",
		}),
		allocateObjectsCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bhlib",
			Subsystem: "mem",
			Name:      "allocate_objects_total",
			Help:      "Total regions handed out by the allocator.",
		}),
		inuseObjectsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bhlib",
			Subsystem: "mem",
			Name:      "inuse_objects",
			Help:      "Regions currently allocated and not yet released.",
		}),
	}
	if reg != nil {
		for _, c := range m.Collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Collectors returns the allocator's collectors in registration order.
func (m *MetricsAllocator) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.allocateBytesCounter,
		m.inuseBytesGauge,
		m.allocateObjectsCounter,
		m.inuseObjectsGauge,
	}
}

// Allocate forwards to the upstream allocator and records the region.
func (m *MetricsAllocator) Allocate(size uint64) ([]byte, Deallocator, error) {
	b, d, err := m.upstream.Allocate(size)
	if err != nil {
		return nil, nil, err
	}
	m.allocateBytesCounter.Add(float64(size))
	m.inuseBytesGauge.Add(float64(size))
	m.allocateObjectsCounter.Inc()
	m.inuseObjectsGauge.Inc()

	return b, ChainDeallocator(d, DeallocatorFunc(func() {
		m.inuseBytesGauge.Sub(float64(size))
		m.inuseObjectsGauge.Dec()
	})), nil
}
