package syncer

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "syncer"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	BlocksSynced  metrics.Counter
	HeadersSynced metrics.Counter
	StateBatches  metrics.Counter
	SyncHeight    metrics.Gauge
}

// PrometheusMetrics returns Metrics built using the Prometheus client
// library. Optionally, labels can be provided along with their values
// ("foo", "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		BlocksSynced: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "blocks_synced",
			Help:      "The total number of blocks validated and stored.",
		}, labels).With(labelsAndValues...),
		HeadersSynced: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "headers_synced",
			Help:      "The total number of headers stored by light sync.",
		}, labels).With(labelsAndValues...),
		StateBatches: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "state_batches",
			Help:      "The total number of bulk state batches applied.",
		}, labels).With(labelsAndValues...),
		SyncHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "sync_height",
			Help:      "The height the syncer has reached.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		BlocksSynced:  discard.NewCounter(),
		HeadersSynced: discard.NewCounter(),
		StateBatches:  discard.NewCounter(),
		SyncHeight:    discard.NewGauge(),
	}
}
