package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeCached  = "cached"
)

// Metrics records parse statistics on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	parsesTotal   *prometheus.CounterVec
	parseDuration prometheus.Histogram
	arenaBytes    prometheus.Histogram
	treeNodes     prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		parsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexis_parses_total",
				Help: "Total number of parsed source files",
			},
			[]string{"outcome"},
		),
		parseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexis_parse_duration_seconds",
				Help:    "Parse duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		arenaBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexis_arena_bytes",
				Help:    "Arena bytes used by a successful parse",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		treeNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexis_tree_nodes",
				Help:    "Nodes in the tree of a successful parse",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
		),
	}
}

// ObserveParse records one parse. Size figures are only recorded for fresh
// successful parses.
func (m *Metrics) ObserveParse(outcome string, duration time.Duration, arenaBytes, nodes int) {
	m.parsesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCached {
		return
	}
	m.parseDuration.Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		m.arenaBytes.Observe(float64(arenaBytes))
		m.treeNodes.Observe(float64(nodes))
	}
}

// WriteTextfile writes every metric in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
