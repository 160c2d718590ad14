package workflow

import (
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "relief"

type Metrics struct {
	runs        *prometheus.CounterVec
	reports     prometheus.Gauge
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Snapshot sync runs by result.",
		}, []string{"result"}),
		reports: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "reports",
			Help:      "Reports in the last synced snapshot.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of successful snapshot syncs.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot sync.",
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.reports, m.duration, m.lastSuccess} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeSuccess(state store.SyncState, took time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues("success").Inc()
	m.reports.Set(float64(state.ReportsCount))
	m.duration.Observe(took.Seconds())
	m.lastSuccess.Set(float64(state.SyncedAt.Unix()))
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.runs.WithLabelValues("failure").Inc()
}
