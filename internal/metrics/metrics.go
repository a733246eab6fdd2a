package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/23skdu/longbow-probe/internal/logger"
)

var (
	ExamplesExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probe_examples_extracted_total",
		Help: "Examples whose target activation was extracted",
	}, []string{"task"})

	ExamplesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probe_examples_skipped_total",
		Help: "Examples skipped because the target word could not be located",
	}, []string{"task"})

	ForwardDuration = promauto.NewSummary(prometheus.SummaryOpts{
		Name: "probe_forward_duration_seconds",
		Help: "Duration of model forward passes",
	})

	ProbeRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probe_runs_total",
		Help: "Probe classifier fits completed",
	}, []string{"task", "method"})

	ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "probe_fit_duration_seconds",
		Help:    "Histogram of probe training times",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	NumericDegeneracy = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probe_numeric_degeneracy_total",
		Help: "Zero-variance features, non-convergence and similar conditions",
	}, []string{"kind"})

	TasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "probe_tasks_failed_total",
		Help: "Per-layer task processing failures",
	})
)

// ObserveForward records one forward pass duration.
func ObserveForward(start time.Time) {
	ForwardDuration.Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics and /healthz on addr for the lifetime of the run.
// It never blocks the pipeline; listen errors are only logged.
func Serve(addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	go func() {
		logger.Log.Info("metrics serving", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Log.Warn("metrics server stopped", "error", err)
		}
	}()
}
