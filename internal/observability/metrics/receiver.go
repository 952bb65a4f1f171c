package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReceiverMetrics contains Prometheus metrics for the UDP stream receiver
type ReceiverMetrics struct {
	datagramsTotal      *prometheus.CounterVec
	payloadBytesTotal   *prometheus.CounterVec
	malformedTotal      *prometheus.CounterVec
	formatMismatchTotal *prometheus.CounterVec
	receiveErrorsTotal  *prometheus.CounterVec
}

// NewReceiverMetrics creates and registers new receiver metrics
func NewReceiverMetrics(registry *prometheus.Registry) (*ReceiverMetrics, error) {
	m := &ReceiverMetrics{
		datagramsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_receiver_datagrams_total",
			Help: "Total datagrams received",
		}, []string{"source"}),
		payloadBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_receiver_payload_bytes_total",
			Help: "Total PCM payload bytes delivered to the buffer",
		}, []string{"source"}),
		malformedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_receiver_malformed_total",
			Help: "Total datagrams dropped as malformed",
		}, []string{"source"}),
		formatMismatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_receiver_format_mismatch_total",
			Help: "Total datagrams dropped because the header format differs from the configured output format",
		}, []string{"source"}),
		receiveErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcmcast_receiver_errors_total",
			Help: "Total socket read errors",
		}, []string{"source"}),
	}

	collectors := []prometheus.Collector{
		m.datagramsTotal, m.payloadBytesTotal,
		m.malformedTotal, m.formatMismatchTotal, m.receiveErrorsTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordDatagram records one received datagram and its payload size
func (m *ReceiverMetrics) RecordDatagram(source string, payloadBytes int) {
	m.datagramsTotal.WithLabelValues(source).Inc()
	m.payloadBytesTotal.WithLabelValues(source).Add(float64(payloadBytes))
}

// RecordMalformed records a datagram dropped as malformed
func (m *ReceiverMetrics) RecordMalformed(source string) {
	m.malformedTotal.WithLabelValues(source).Inc()
}

// RecordFormatMismatch records a datagram dropped for a format mismatch
func (m *ReceiverMetrics) RecordFormatMismatch(source string) {
	m.formatMismatchTotal.WithLabelValues(source).Inc()
}

// RecordReceiveError records a socket read error
func (m *ReceiverMetrics) RecordReceiveError(source string) {
	m.receiveErrorsTotal.WithLabelValues(source).Inc()
}
