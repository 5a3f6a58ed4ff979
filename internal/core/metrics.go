package core

import (
	"limsmock/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts queries and batch artifact lookups. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	queries      *prometheus.CounterVec
	matches      *prometheus.HistogramVec
	batchLookups prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limsmock",
			Name:      "queries_total",
			Help:      "Entity queries answered by the mock client.",
		}, []string{"entity"}),
		matches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "limsmock",
			Name:      "query_matches",
			Help:      "Number of entities returned per query.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500},
		}, []string{"entity"}),
		batchLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "limsmock",
			Name:      "artifact_batch_lookups_total",
			Help:      "Batch artifact resolutions performed.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.queries, m.matches, m.batchLookups} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observeQuery(entity domain.EntityType, matched int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(string(entity)).Inc()
	m.matches.WithLabelValues(string(entity)).Observe(float64(matched))
}

func (m *Metrics) observeBatch() {
	if m == nil {
		return
	}
	m.batchLookups.Inc()
}
