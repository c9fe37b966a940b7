// Package metrics exposes Prometheus instrumentation for scrape runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RunsTotal counts orchestrator invocations.
	RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scraper",
		Name:      "runs_total",
		Help:      "Number of scrape runs started",
	})

	// RunDuration tracks wall-clock time of whole scrape runs.
	RunDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "scraper",
		Name:      "run_duration_seconds",
		Help:      "Time spent per scrape run",
	})

	// EventsYielded counts raw (pre-dedup) events per source.
	EventsYielded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scraper",
		Name:      "events_yielded_total",
		Help:      "Raw events yielded by each source before deduplication",
	}, []string{"source"})

	// SourceErrors counts per-source failures, including global-budget timeouts.
	SourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scraper",
		Name:      "source_errors_total",
		Help:      "Failed source extractions by source",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(RunsTotal, RunDuration, EventsYielded, SourceErrors)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
