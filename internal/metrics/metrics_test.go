package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsAndErrors(t *testing.T) {
	c := NewCollector(8)

	c.Record("GET /api/orders", 10*time.Millisecond, false)
	c.Record("GET /api/orders", 30*time.Millisecond, true)

	snaps := c.Snapshot()
	require.Len(t, snaps, 1)

	assert.Equal(t, int64(2), snaps[0].Count)
	assert.Equal(t, int64(1), snaps[0].Errors)
	assert.Equal(t, 20*time.Millisecond, snaps[0].AverageLatency)
	assert.Equal(t, 30*time.Millisecond, snaps[0].MaxLatency)
}

func TestRingBufferStaysBounded(t *testing.T) {
	c := NewCollector(4)

	// First fill the ring with slow samples, then overwrite with fast
	// ones; the average must reflect only the surviving window.
	for i := 0; i < 4; i++ {
		c.Record("route", time.Second, false)
	}
	for i := 0; i < 4; i++ {
		c.Record("route", time.Millisecond, false)
	}

	snaps := c.Snapshot()
	require.Len(t, snaps, 1)

	assert.Equal(t, int64(8), snaps[0].Count)
	assert.Equal(t, time.Millisecond, snaps[0].AverageLatency)
	assert.Equal(t, time.Millisecond, snaps[0].MaxLatency)
}

func TestCollectorDefaultRingSize(t *testing.T) {
	c := NewCollector(0)
	c.Record("route", time.Millisecond, false)

	snaps := c.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(1), snaps[0].Count)
}
