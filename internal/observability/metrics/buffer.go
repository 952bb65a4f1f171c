// Package metrics provides Prometheus metric collectors for the audio
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BufferMetrics contains Prometheus metrics for source buffer operations
type BufferMetrics struct {
	writesTotal        *prometheus.CounterVec
	writeBytesTotal    *prometheus.CounterVec
	readsTotal         *prometheus.CounterVec
	readBytesTotal     *prometheus.CounterVec
	overrunBytesTotal  *prometheus.CounterVec
	underrunBytesTotal *prometheus.CounterVec
	utilizationGauge   *prometheus.GaugeVec
	capacityGauge      *prometheus.GaugeVec
}

// NewBufferMetrics creates and registers new buffer metrics
func NewBufferMetrics(registry *prometheus.Registry) (*BufferMetrics, error) {
	m := &BufferMetrics{
		writesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_buffer_writes_total",
			Help: "Total number of writes into the source buffer",
		}, []string{"source"}),
		writeBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_buffer_write_bytes_total",
			Help: "Total bytes written into the source buffer",
		}, []string{"source"}),
		readsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_buffer_reads_total",
			Help: "Total number of device pulls from the source buffer",
		}, []string{"source"}),
		readBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_buffer_read_bytes_total",
			Help: "Total real audio bytes delivered to the device",
		}, []string{"source"}),
		overrunBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_buffer_overrun_bytes_total",
			Help: "Total unread bytes overwritten because the producer outran the consumer",
		}, []string{"source"}),
		underrunBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_buffer_underrun_bytes_total",
			Help: "Total silence bytes padded because the consumer outran the producer",
		}, []string{"source"}),
		utilizationGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pcmcast_buffer_utilization_ratio",
			Help: "Fraction of the source buffer holding unread audio",
		}, []string{"source"}),
		capacityGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pcmcast_buffer_capacity_bytes",
			Help: "Capacity of the source buffer in bytes",
		}, []string{"source"}),
	}

	collectors := []prometheus.Collector{
		m.writesTotal, m.writeBytesTotal,
		m.readsTotal, m.readBytesTotal,
		m.overrunBytesTotal, m.underrunBytesTotal,
		m.utilizationGauge, m.capacityGauge,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordWrite records a producer write of the given size
func (m *BufferMetrics) RecordWrite(source string, bytes int) {
	m.writesTotal.WithLabelValues(source).Inc()
	m.writeBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// RecordRead records the real bytes delivered by one device pull
func (m *BufferMetrics) RecordRead(source string, bytes int) {
	m.readsTotal.WithLabelValues(source).Inc()
	m.readBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// RecordOverrun records unread bytes lost to an overwriting producer
func (m *BufferMetrics) RecordOverrun(source string, bytes uint64) {
	m.overrunBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// RecordUnderrun records silence bytes padded into a device block
func (m *BufferMetrics) RecordUnderrun(source string, bytes uint64) {
	m.underrunBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// UpdateUtilization updates the fill-level and capacity gauges
func (m *BufferMetrics) UpdateUtilization(source string, used, capacity int) {
	if capacity > 0 {
		m.utilizationGauge.WithLabelValues(source).Set(float64(used) / float64(capacity))
	}
	m.capacityGauge.WithLabelValues(source).Set(float64(capacity))
}
