// Package extract provides per-source event extraction for the Norwich Event
// Hub scraper. One generic goquery-driven extractor is parameterized by a
// declarative selector table per source, so the brittle, source-coupled part
// of scraping lives in a handful of Rules values rather than ad hoc parsing
// code. A change to one source's rules can never affect another source.
package extract
