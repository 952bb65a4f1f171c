// Package observability provides Prometheus metrics and a telemetry HTTP
// endpoint for monitoring the receiver.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/pcmcast-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Buffer   *metrics.BufferMetrics
	Receiver *metrics.ReceiverMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric
// collectors. It returns an error if any collector fails to register.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	bufferMetrics, err := metrics.NewBufferMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer metrics: %w", err)
	}

	receiverMetrics, err := metrics.NewReceiverMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create receiver metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Buffer:   bufferMetrics,
		Receiver: receiverMetrics,
	}, nil
}

// Registry returns the Prometheus registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
