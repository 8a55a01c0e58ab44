package survey

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline activity for Prometheus.
type Metrics struct {
	runs         prometheus.Counter
	rows         prometheus.Counter
	unrecognized *prometheus.CounterVec
	absent       *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with prometheus.DefaultRegisterer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates the collectors with a custom registry. A nil
// registerer leaves them unregistered.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sleepsurvey_enrich_runs_total",
			Help: "Total number of pipeline runs",
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sleepsurvey_rows_processed_total",
			Help: "Total number of respondent rows enriched",
		}),
		unrecognized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sleepsurvey_unrecognized_values_total",
			Help: "Answers that matched no accepted wording and were scored 0",
		}, []string{"field"}),
		absent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sleepsurvey_derived_absent_total",
			Help: "Derived columns skipped because an input column was missing",
		}, []string{"column"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sleepsurvey_enrich_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	if registerer != nil {
		registerer.MustRegister(m.runs, m.rows, m.unrecognized, m.absent, m.duration)
	}
	return m
}

func (m *Metrics) observe(res *Result, elapsed time.Duration) {
	if m == nil || res == nil {
		return
	}
	m.runs.Inc()
	m.rows.Add(float64(res.Table.Len()))
	for field, n := range res.Unrecognized {
		m.unrecognized.WithLabelValues(string(field)).Add(float64(n))
	}
	for _, o := range res.Outcomes {
		if o.Status == StatusAbsent {
			m.absent.WithLabelValues(o.Column).Inc()
		}
	}
	m.duration.Observe(elapsed.Seconds())
}
