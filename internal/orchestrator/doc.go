// Package orchestrator runs all registered source extractors concurrently,
// merges their output, and reports per-run statistics.
//
// Every extractor settles independently: one source failing, hanging, or
// yielding nothing never affects another source's result. A global wall-clock
// budget bounds the whole run; when it elapses, whatever has settled so far is
// kept, in-flight fetches are cancelled, and unsettled sources are reported as
// timeout errors in the run statistics. Merged events are deduplicated by
// case-insensitive (name, date) key, first occurrence winning in source
// registration order, then stably sorted by date, so the final ordering is
// deterministic regardless of which source finished first.
package orchestrator
