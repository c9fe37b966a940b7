package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/norwich-event-hub/scraper/internal/event"
	"github.com/norwich-event-hub/scraper/internal/logger"
	"github.com/norwich-event-hub/scraper/internal/metrics"
)

// DefaultBudget bounds one whole scrape run. Individual fetches have their
// own tighter timeout; the budget catches a source that stalls outside its
// fetch.
const DefaultBudget = 25 * time.Second

// Extractor is one scrapeable source. Extract returns the source's raw
// events or the reason it failed; it must respect ctx cancellation.
type Extractor interface {
	Name() string
	Extract(ctx context.Context) ([]event.Event, error)
}

// SourceError records one source's failure within a run.
type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Stats describes one run's yield. BySource counts raw events before
// deduplication so a source's yield is observable even when its events lose
// the dedup race.
type Stats struct {
	Total      int            `json:"total"`
	BySource   map[string]int `json:"bySource"`
	Errors     []SourceError  `json:"errors"`
	DurationMS int64          `json:"duration"`
}

// Result is the outcome of one scrape run.
type Result struct {
	RunID     string        `json:"runId"`
	Events    []event.Event `json:"events"`
	Stats     Stats         `json:"stats"`
	Timestamp string        `json:"timestamp"`
}

// Orchestrator runs registered extractors concurrently and merges their
// output. It holds no per-run state; Run may be called concurrently.
type Orchestrator struct {
	extractors []Extractor

	// Budget is the global wall-clock limit for one run.
	Budget time.Duration
}

// New creates an Orchestrator over the given extractors. Registration order
// is significant: it decides deduplication ties.
func New(extractors ...Extractor) *Orchestrator {
	return &Orchestrator{
		extractors: extractors,
		Budget:     DefaultBudget,
	}
}

// outcome is one settled extractor, tagged with its registration index.
type outcome struct {
	index  int
	events []event.Event
	err    error
}

// Run scrapes all sources and returns the merged, deduplicated, date-sorted
// result. Partial source failures never fail the run; they are recorded in
// Stats.Errors alongside whatever the other sources produced.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	start := time.Now()
	metrics.RunsTotal.Inc()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan outcome, len(o.extractors))
	for i, ext := range o.extractors {
		go func(i int, ext Extractor) {
			evts, err := o.extractOne(runCtx, ext)
			outcomes <- outcome{index: i, events: evts, err: err}
		}(i, ext)
	}

	// Settle-all with a racing budget timer. Losing the race truncates: the
	// run context is cancelled so in-flight fetches abort, and sources that
	// have not settled are reported as timed out.
	settled := make([]*outcome, len(o.extractors))
	timer := time.NewTimer(o.Budget)
	defer timer.Stop()

	remaining := len(o.extractors)
collect:
	for remaining > 0 {
		select {
		case out := <-outcomes:
			settled[out.index] = &out
			remaining--
		case <-timer.C:
			logger.Warn("global scrape budget exceeded", logger.Fields{
				"budget":    o.Budget.String(),
				"unsettled": remaining,
			})
			break collect
		case <-ctx.Done():
			logger.Warn("scrape cancelled", logger.Fields{"unsettled": remaining})
			break collect
		}
	}
	cancel()

	result := o.merge(settled, start)
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	logger.Info("scrape run finished", logger.Fields{
		"run_id":      result.RunID,
		"events":      result.Stats.Total,
		"errors":      len(result.Stats.Errors),
		"duration_ms": result.Stats.DurationMS,
	})
	return result
}

// extractOne invokes a single extractor, converting a panic into an error so
// a broken source settles like any other failure instead of taking the
// process down.
func (o *Orchestrator) extractOne(ctx context.Context, ext Extractor) (evts []event.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			evts = nil
			err = fmt.Errorf("extractor panicked: %v", r)
		}
	}()
	return ext.Extract(ctx)
}

// merge combines settled outcomes in registration order, deduplicates,
// sorts, and finalizes stats.
func (o *Orchestrator) merge(settled []*outcome, start time.Time) *Result {
	stats := Stats{
		BySource: make(map[string]int, len(o.extractors)),
		Errors:   make([]SourceError, 0),
	}

	combined := make([]event.Event, 0)
	for i, ext := range o.extractors {
		out := settled[i]
		if out == nil {
			stats.Errors = append(stats.Errors, SourceError{
				Source:  ext.Name(),
				Message: fmt.Sprintf("did not settle within %s budget", o.Budget),
			})
			metrics.SourceErrors.WithLabelValues(ext.Name()).Inc()
			continue
		}
		if out.err != nil {
			stats.Errors = append(stats.Errors, SourceError{
				Source:  ext.Name(),
				Message: out.err.Error(),
			})
			metrics.SourceErrors.WithLabelValues(ext.Name()).Inc()
			logger.Error("source extraction failed", logger.Fields{"source": ext.Name()}, out.err)
			continue
		}

		stats.BySource[ext.Name()] = len(out.events)
		metrics.EventsYielded.WithLabelValues(ext.Name()).Add(float64(len(out.events)))
		combined = append(combined, out.events...)
	}

	deduped := dedupe(combined)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].ParsedDate().Before(deduped[j].ParsedDate())
	})

	stats.Total = len(deduped)
	stats.DurationMS = time.Since(start).Milliseconds()

	return &Result{
		RunID:     uuid.NewString(),
		Events:    deduped,
		Stats:     stats,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// dedupe drops later occurrences of the same case-insensitive (name, date)
// key, preserving input order. The seen map is local to the call, so
// concurrent runs never share dedup state.
func dedupe(events []event.Event) []event.Event {
	seen := make(map[string]bool, len(events))
	unique := make([]event.Event, 0, len(events))
	for _, evt := range events {
		key := evt.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, evt)
	}
	return unique
}
