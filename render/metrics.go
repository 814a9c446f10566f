package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the renderer's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	iterations prometheus.Counter
	rejected   prometheus.Counter
	overflows  prometheus.Counter
	renders    prometheus.Counter
	tasks      *prometheus.GaugeVec
	plot       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		iterations: f.NewCounter(prometheus.CounterOpts{
			Name: "ifs_iterations_total",
			Help: "Chaos-game iterations performed, rejected draws included",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "ifs_rejected_draws_total",
			Help: "Iterations skipped because the weighted draw was rejected",
		}),
		overflows: f.NewCounter(prometheus.CounterOpts{
			Name: "ifs_density_overflows_total",
			Help: "Density increments skipped because the counter would overflow",
		}),
		renders: f.NewCounter(prometheus.CounterOpts{
			Name: "ifs_renders_total",
			Help: "Render generations started",
		}),
		tasks: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ifs_tasks",
			Help: "Registered render tasks by kind",
		}, []string{"kind"}),
		plot: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ifs_plot_duration_seconds",
			Help:    "Duration of one density plot",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) unitDone(iterations, rejected int) {
	if m == nil {
		return
	}
	m.iterations.Add(float64(iterations))
	m.rejected.Add(float64(rejected))
}

func (m *Metrics) overflowed(n uint64) {
	if m == nil || n == 0 {
		return
	}
	m.overflows.Add(float64(n))
}

func (m *Metrics) renderStarted() {
	if m == nil {
		return
	}
	m.renders.Inc()
}

func (m *Metrics) taskStarted(k Kind) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(k.String()).Inc()
}

func (m *Metrics) taskFinished(k Kind) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(k.String()).Dec()
}

func (m *Metrics) plotted(d time.Duration) {
	if m == nil {
		return
	}
	m.plot.Observe(d.Seconds())
}
