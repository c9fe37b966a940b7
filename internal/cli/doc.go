// Package cli wires the scraper's cobra commands: a one-shot scrape with
// text or JSON output and optional submission to the event store, and a
// long-running HTTP server exposing the scrape endpoint.
package cli
