// Package event provides the event record type shared across the Norwich
// Event Hub scraper and the date/time normalization that brings free-text
// fragments from listing sites into canonical form.
//
// Scraped pages describe dates in wildly different ways ("20th January 2026",
// "Saturday, 3 Jan", "tomorrow"); NormalizeDate folds all of them into
// YYYY-MM-DD so deduplication and ordering downstream never re-parse
// source-specific formats. Each record carries a case-insensitive (name, date)
// key used by the orchestrator to drop cross-source duplicates.
package event
