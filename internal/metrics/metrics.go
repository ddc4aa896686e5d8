// Package metrics is a request-scoped collector injected into the
// server rather than shared module state. Latency samples live in a
// bounded ring buffer per route, so memory stays flat regardless of
// traffic.
package metrics

import (
	"sync"
	"time"
)

const defaultRingSize = 256

type Collector struct {
	mu       sync.Mutex
	ringSize int
	routes   map[string]*routeMetrics
}

type routeMetrics struct {
	count     int64
	errors    int64
	latencies []time.Duration // ring buffer
	next      int
	filled    bool
}

func NewCollector(ringSize int) *Collector {
	if ringSize <= 0 {
		ringSize = defaultRingSize
	}
	return &Collector{
		ringSize: ringSize,
		routes:   make(map[string]*routeMetrics),
	}
}

// Record adds one observation for the route. Older samples are
// overwritten once the ring is full.
func (c *Collector) Record(route string, latency time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rm, ok := c.routes[route]
	if !ok {
		rm = &routeMetrics{latencies: make([]time.Duration, c.ringSize)}
		c.routes[route] = rm
	}

	rm.count++
	if failed {
		rm.errors++
	}
	rm.latencies[rm.next] = latency
	rm.next++
	if rm.next == c.ringSize {
		rm.next = 0
		rm.filled = true
	}
}

type RouteSnapshot struct {
	Route          string        `json:"route"`
	Count          int64         `json:"count"`
	Errors         int64         `json:"errors"`
	AverageLatency time.Duration `json:"averageLatencyNs"`
	MaxLatency     time.Duration `json:"maxLatencyNs"`
}

// Snapshot returns per-route aggregates over the buffered samples.
func (c *Collector) Snapshot() []RouteSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]RouteSnapshot, 0, len(c.routes))
	for route, rm := range c.routes {
		n := rm.next
		if rm.filled {
			n = c.ringSize
		}

		var sum, max time.Duration
		for i := 0; i < n; i++ {
			l := rm.latencies[i]
			sum += l
			if l > max {
				max = l
			}
		}

		snap := RouteSnapshot{Route: route, Count: rm.count, Errors: rm.errors, MaxLatency: max}
		if n > 0 {
			snap.AverageLatency = sum / time.Duration(n)
		}
		out = append(out, snap)
	}

	return out
}
