// Package store is the HTTP client for the Norwich Event Hub's external
// event store, the spreadsheet-backed service that holds submitted and
// scraped events by approval status. The scraper only writes to it; the
// read and status operations exist for the CLI and the admin workflow.
package store
