package event

import (
	"testing"
	"time"
)

// fixed "now" so date arithmetic in tests is deterministic
var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty defaults a week out", "", "2026-06-08"},
		{"whitespace only", "   ", "2026-06-08"},
		{"today", "today", "2026-06-01"},
		{"today embedded", "Happening Today!", "2026-06-01"},
		{"tomorrow", "tomorrow", "2026-06-02"},
		{"next week", "next week", "2026-06-08"},
		{"day month year", "25th December 2026", "2026-12-25"},
		{"day month year no suffix", "3 March 2027", "2027-03-03"},
		{"first with st suffix", "1st July 2026", "2026-07-01"},
		{"month by three letter prefix", "20 Jan 2027", "2027-01-20"},
		{"mixed case month", "14 FEBRUARY 2027", "2027-02-14"},
		{"weekday day month upcoming", "Saturday, 15 Aug", "2026-08-15"},
		{"weekday day month passed rolls to next year", "Saturday, 3 Jan", "2027-01-03"},
		{"abbreviated weekday", "Fri 14 Aug", "2026-08-14"},
		{"iso passthrough", "2026-09-30", "2026-09-30"},
		{"unrecognized defaults a week out", "see website for details", "2026-06-08"},
		{"bogus month falls back", "12 Foober 2026", "2026-06-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input, testNow)
			if got != tt.expected {
				t.Errorf("NormalizeDate(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeDateYearBoundary(t *testing.T) {
	// Early-December "now": a January listing without a year is next year,
	// a late-December one is still this year.
	now := time.Date(2026, 12, 5, 9, 0, 0, 0, time.UTC)

	if got := NormalizeDate("Saturday, 3 Jan", now); got != "2027-01-03" {
		t.Errorf("expected roll to 2027-01-03, got %q", got)
	}
	if got := NormalizeDate("Friday, 18 December", now); got != "2026-12-18" {
		t.Errorf("expected 2026-12-18, got %q", got)
	}
}

func TestNormalizeDateSameDayDoesNotRoll(t *testing.T) {
	// A weekday listing for today's own date stays in the current year even
	// though midnight is earlier than "now".
	now := time.Date(2026, 6, 1, 20, 30, 0, 0, time.UTC)
	if got := NormalizeDate("Monday, 1 June", now); got != "2026-06-01" {
		t.Errorf("expected 2026-06-01, got %q", got)
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"7pm", "19:00"},
		{"7:30pm", "19:30"},
		{"7.30pm", "07:00"}, // dot separator is not recognized; hour only
		{"12pm", "12:00"},
		{"12am", "00:00"},
		{"9am", "09:00"},
		{"09:15", "09:15"},
		{"19:00", "19:00"},
		{"Doors 8PM", "20:00"},
		{"", "19:00"},
		{"late", "19:00"},
		{"99:99", "19:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeTime(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeTime(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEventKey(t *testing.T) {
	a := Event{Name: "Jazz Night", Date: "2026-02-01"}
	b := Event{Name: "JAZZ NIGHT", Date: "2026-02-01"}
	c := Event{Name: "Jazz Night", Date: "2026-02-02"}

	if a.Key() != b.Key() {
		t.Errorf("keys should be case-insensitive: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Error("different dates should give different keys")
	}
}

func TestParsedDate(t *testing.T) {
	e := Event{Date: "2026-03-15"}
	if got := e.ParsedDate(); got.IsZero() {
		t.Fatal("expected parsed date, got zero time")
	} else if got.Day() != 15 || got.Month() != time.March {
		t.Errorf("unexpected parsed date: %v", got)
	}

	bad := Event{Date: "soon"}
	if !bad.ParsedDate().IsZero() {
		t.Error("expected zero time for non-canonical date")
	}
}
