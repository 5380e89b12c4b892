package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/newthinker/riskattr/internal/core"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	windowsTotal      prometheus.Counter
	resamplesTotal    *prometheus.CounterVec
	seriesLoadedTotal *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskattr_runs_total",
				Help: "Total number of attribution runs",
			},
			[]string{"kind", "status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskattr_run_duration_seconds",
				Help:    "Attribution run duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
			},
			[]string{"kind"},
		),

		windowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "riskattr_windows_total",
				Help: "Total number of rolling windows fitted",
			},
		),

		resamplesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskattr_bootstrap_resamples_total",
				Help: "Total number of bootstrap resamples drawn",
			},
			[]string{"method"},
		),

		seriesLoadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskattr_series_loaded_total",
				Help: "Total number of series loaded from storage",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.windowsTotal)
	reg.MustRegister(r.resamplesTotal)
	reg.MustRegister(r.seriesLoadedTotal)

	return r
}

// RecordRun records a finished run; err is nil on success.
func (r *Registry) RecordRun(kind string, err error, duration float64) {
	r.runsTotal.WithLabelValues(kind, statusOf(err)).Inc()
	r.runDuration.WithLabelValues(kind).Observe(duration)
}

// RecordWindows adds fitted rolling windows.
func (r *Registry) RecordWindows(n int) {
	r.windowsTotal.Add(float64(n))
}

// RecordResamples adds bootstrap resamples drawn by method.
func (r *Registry) RecordResamples(method string, n int) {
	r.resamplesTotal.WithLabelValues(method).Add(float64(n))
}

// RecordSeriesLoaded counts a loaded series by source kind.
func (r *Registry) RecordSeriesLoaded(kind string) {
	r.seriesLoadedTotal.WithLabelValues(kind).Inc()
}

// WriteTextfile writes all metrics in the text exposition format, for
// pickup by the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(path, r.Registry)
}

// statusOf labels a run by the code of its error
func statusOf(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := core.Kind(err); kind != "" {
		return kind
	}
	return "error"
}
