package myaudio

import (
	"sync"

	"github.com/tphakala/pcmcast-go/internal/observability/metrics"
)

var (
	bufferMetrics      *metrics.BufferMetrics
	bufferMetricsMutex sync.RWMutex
	bufferMetricsOnce  sync.Once
)

// SetBufferMetrics sets the buffer metrics instance. It can only be set once
// per process lifetime; later calls are ignored.
func SetBufferMetrics(m *metrics.BufferMetrics) {
	bufferMetricsOnce.Do(func() {
		bufferMetricsMutex.Lock()
		defer bufferMetricsMutex.Unlock()
		bufferMetrics = m
	})
}

// getBufferMetrics returns the buffer metrics instance, nil until set.
func getBufferMetrics() *metrics.BufferMetrics {
	bufferMetricsMutex.RLock()
	defer bufferMetricsMutex.RUnlock()
	return bufferMetrics
}
