package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "examstats"

// Pipeline collects Prometheus metrics for one run of the pipeline. Each
// instance owns its registry, so tests and embedding programs never collide
// on the global one.
type Pipeline struct {
	registry *prometheus.Registry

	fetchAttempts *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	rows          prometheus.Gauge
	charts        *prometheus.CounterVec
}

// NewPipeline registers the pipeline collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewPipeline() *Pipeline {
	p := &Pipeline{
		registry: prometheus.NewRegistry(),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Download attempts by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_attempt_duration_seconds",
			Help:      "Duration of individual download attempts.",
			Buckets:   prometheus.DefBuckets,
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows",
			Help:      "Number of enriched records.",
		}),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_total",
			Help:      "Rendered charts by name and outcome.",
		}, []string{"chart", "outcome"}),
	}
	p.registry.MustRegister(
		p.fetchAttempts,
		p.fetchDuration,
		p.stageDuration,
		p.rows,
		p.charts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry exposes the underlying registry.
func (p *Pipeline) Registry() *prometheus.Registry { return p.registry }

// ObserveFetchAttempt records one download attempt.
func (p *Pipeline) ObserveFetchAttempt(success bool, elapsed time.Duration) {
	p.fetchAttempts.WithLabelValues(outcome(success)).Inc()
	p.fetchDuration.Observe(elapsed.Seconds())
}

// ObserveChart records one chart render.
func (p *Pipeline) ObserveChart(name string, _ time.Duration, err error) {
	p.charts.WithLabelValues(name, outcome(err == nil)).Inc()
}

// ObserveStage records the duration of a pipeline stage.
func (p *Pipeline) ObserveStage(stage string, elapsed time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// SetRows records the size of the enriched table.
func (p *Pipeline) SetRows(n int) {
	p.rows.Set(float64(n))
}

// WriteTextfile writes every metric in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func (p *Pipeline) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
