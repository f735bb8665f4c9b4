package chainsync

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "chainsync"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of resource-availability deliveries, labeled by resource kind.
	ResourceDeliveries metrics.Counter
	// Number of sync launches. At most one per run.
	SyncLaunches metrics.Counter
	// Number of sync terminations, labeled by outcome.
	SyncTerminations metrics.Counter
	// Number of shutdown requests fired.
	ShutdownRequests metrics.Counter
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
		ResourceDeliveries: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "resource_deliveries",
			Help:      "Number of resource-availability deliveries received.",
		}, append(labels, "kind")).With(labelsAndValues...),
		SyncLaunches: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "sync_launches",
			Help:      "Number of sync operations launched.",
		}, labels).With(labelsAndValues...),
		SyncTerminations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "sync_terminations",
			Help:      "Number of sync operations terminated.",
		}, append(labels, "outcome")).With(labelsAndValues...),
		ShutdownRequests: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "shutdown_requests",
			Help:      "Number of node shutdown requests fired by the orchestrator.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		ResourceDeliveries: discard.NewCounter(),
		SyncLaunches:       discard.NewCounter(),
		SyncTerminations:   discard.NewCounter(),
		ShutdownRequests:   discard.NewCounter(),
	}
}
