// Package server exposes the scrape orchestrator over HTTP.
//
// The surface is deliberately small: POST /scrape triggers one run and
// returns its result, OPTIONS /scrape answers CORS preflight for the static
// frontend, /healthz answers liveness probes, and /metrics serves Prometheus
// instrumentation. Every /scrape response carries the same permissive CORS
// header set because the frontend is served from a different origin.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/norwich-event-hub/scraper/internal/event"
	"github.com/norwich-event-hub/scraper/internal/logger"
	"github.com/norwich-event-hub/scraper/internal/metrics"
	"github.com/norwich-event-hub/scraper/internal/orchestrator"
)

// Runner triggers one scrape run. Satisfied by *orchestrator.Orchestrator.
type Runner interface {
	Run(ctx context.Context) *orchestrator.Result
}

// Server is the HTTP endpoint adapter over a scrape Runner.
type Server struct {
	runner Runner
	mux    *http.ServeMux
}

// New creates a Server over the given runner.
func New(runner Runner) *Server {
	s := &Server{
		runner: runner,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/scrape", s.handleScrape)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", metrics.Handler())
	return s
}

// Handler returns the server's routing handler.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe blocks serving HTTP on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // a scrape run can take the full global budget
		IdleTimeout:  90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("http server listening", logger.Fields{"addr": addr})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// scrapeResponse is the JSON envelope for /scrape. The same shape is used on
// success and failure so the frontend always parses one structure.
type scrapeResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message,omitempty"`
	RunID     string             `json:"runId,omitempty"`
	Events    []event.Event      `json:"events"`
	Stats     orchestrator.Stats `json:"stats"`
	Timestamp string             `json:"timestamp"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		s.runScrape(w, r)
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, scrapeResponse{
			Success: false,
			Message: fmt.Sprintf("method %s not allowed", r.Method),
			Events:  []event.Event{},
			Stats:   emptyStats(nil, 0),
		})
	}
}

// runScrape triggers one run. A panic escaping the orchestration logic is a
// structural failure and maps to a 500 with the panic message; partial source
// failures are a success with a populated stats.errors.
func (s *Server) runScrape(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("scrape failed: %v", rec)
			logger.Error("structural scrape failure", nil, fmt.Errorf("%v", rec))
			writeJSON(w, http.StatusInternalServerError, scrapeResponse{
				Success:   false,
				Message:   msg,
				Events:    []event.Event{},
				Stats:     emptyStats([]orchestrator.SourceError{{Message: msg}}, time.Since(start)),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}
	}()

	result := s.runner.Run(r.Context())

	writeJSON(w, http.StatusOK, scrapeResponse{
		Success:   true,
		RunID:     result.RunID,
		Events:    result.Events,
		Stats:     result.Stats,
		Timestamp: result.Timestamp,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func emptyStats(errs []orchestrator.SourceError, elapsed time.Duration) orchestrator.Stats {
	if errs == nil {
		errs = []orchestrator.SourceError{}
	}
	return orchestrator.Stats{
		BySource:   map[string]int{},
		Errors:     errs,
		DurationMS: elapsed.Milliseconds(),
	}
}

// writeCORS sets the fixed permissive CORS header set carried by every
// /scrape response.
func writeCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
}

func writeJSON(w http.ResponseWriter, status int, body scrapeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("writing response", nil, err)
	}
}
