package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/norwich-event-hub/scraper/internal/fetch"
)

var fixtureNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func fixtureSource(t *testing.T, pageURL string, client *fetch.Client) *Source {
	t.Helper()
	s := NewSource(
		"norwich-arts-centre",
		pageURL,
		Rules{
			Item:  "[class*=event-listing]",
			Title: "[class*=event-title]",
			Venue: "[class*=event-venue]",
			Date:  "time",
			Time:  "[class*=event-time]",
			Link:  "a",
			Price: "[class*=event-price]",
		},
		Defaults{
			Time:     "20:00",
			Location: "Norwich Arts Centre, St Benedicts Street",
			Category: "Live Music",
			Vibe:     "Intimate and eclectic",
			Crowd:    "Music lovers",
			BestFor:  "Discovering something new",
		},
		client,
	)
	s.now = func() time.Time { return fixtureNow }
	return s
}

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/arts_centre.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return data
}

func TestParse_Fixture(t *testing.T) {
	s := fixtureSource(t, "https://norwichartscentre.co.uk/events/", nil)

	events, err := s.parse(loadFixture(t))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	// 8 entries in the fixture, one without a title, cap of 6
	if len(events) != DefaultMaxItems {
		t.Fatalf("expected %d events, got %d", DefaultMaxItems, len(events))
	}

	first := events[0]
	if first.Name != "The Haverlocks" {
		t.Errorf("expected first event 'The Haverlocks', got %q", first.Name)
	}
	if first.Date != "2026-07-18" {
		t.Errorf("expected date 2026-07-18, got %q", first.Date)
	}
	if first.Time != "20:00" {
		t.Errorf("expected time 20:00, got %q", first.Time)
	}
	if first.Location != "Norwich Arts Centre" {
		t.Errorf("expected venue from markup, got %q", first.Location)
	}
	if first.Price != "£12.50" {
		t.Errorf("expected price £12.50, got %q", first.Price)
	}
	if first.TicketLink != "https://norwichartscentre.co.uk/events/the-haverlocks" {
		t.Errorf("relative link not resolved: %q", first.TicketLink)
	}
	if first.Source != "norwich-arts-centre" {
		t.Errorf("unexpected source: %q", first.Source)
	}

	second := events[1]
	if second.Date != "2027-01-20" {
		t.Errorf("expected date 2027-01-20, got %q", second.Date)
	}
	if second.Time != "19:30" {
		t.Errorf("expected time 19:30, got %q", second.Time)
	}
	if second.TicketLink != "https://tickets.example.com/velvet-era" {
		t.Errorf("absolute link should pass through: %q", second.TicketLink)
	}

	// entry with no own time or venue picks up source defaults
	openMic := events[2]
	if openMic.Name != "Open Mic Night" {
		t.Fatalf("expected titleless entry to be skipped; got %q at index 2", openMic.Name)
	}
	if openMic.Time != "20:00" {
		t.Errorf("expected default time 20:00, got %q", openMic.Time)
	}
	if openMic.Location != "Norwich Arts Centre, St Benedicts Street" {
		t.Errorf("expected default location, got %q", openMic.Location)
	}
	if openMic.Date != "2026-06-01" {
		t.Errorf("expected 'today' to normalize to 2026-06-01, got %q", openMic.Date)
	}

	for _, evt := range events {
		if evt.Name == "" {
			t.Error("no event should have an empty name")
		}
		if evt.Vibe == "" || evt.Crowd == "" || evt.BestFor == "" {
			t.Errorf("expected descriptive defaults on %q", evt.Name)
		}
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	fixture := loadFixture(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture)
	}))
	defer server.Close()

	s := fixtureSource(t, server.URL, fetch.New(2*time.Second))
	events, err := s.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(events) != DefaultMaxItems {
		t.Fatalf("expected %d events, got %d", DefaultMaxItems, len(events))
	}
}

func TestExtract_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := fixtureSource(t, server.URL, fetch.New(2*time.Second))
	if _, err := s.Extract(context.Background()); err == nil {
		t.Fatal("expected error for 503 response, got nil")
	}
}

func TestParse_EmptyPage(t *testing.T) {
	s := fixtureSource(t, "https://norwichartscentre.co.uk/events/", nil)
	events, err := s.parse([]byte("<html><body><p>Nothing on this week.</p></body></html>"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestParse_ItemCap(t *testing.T) {
	s := fixtureSource(t, "https://norwichartscentre.co.uk/events/", nil)
	s.MaxItems = 2

	events, err := s.parse(loadFixture(t))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected cap of 2 events, got %d", len(events))
	}
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources(fetch.New(0))
	if len(sources) == 0 {
		t.Fatal("expected built-in sources")
	}

	seen := make(map[string]bool)
	for _, s := range sources {
		if s.SourceName == "" || s.URL == "" {
			t.Errorf("source missing name or URL: %+v", s)
		}
		if s.Rules.Item == "" {
			t.Errorf("source %s missing item selector", s.SourceName)
		}
		if seen[s.SourceName] {
			t.Errorf("duplicate source name %s", s.SourceName)
		}
		seen[s.SourceName] = true
	}
}
