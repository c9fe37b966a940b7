package event

import (
	"strings"
	"time"
)

// Event represents one listing scraped from an external source. All fields are
// best-effort; Name is the only field required for a record to be valid.
type Event struct {
	Name        string `json:"name"`
	Date        string `json:"date"` // canonical YYYY-MM-DD
	Time        string `json:"time"` // canonical HH:MM, 24-hour
	Location    string `json:"location"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TicketLink  string `json:"ticketLink"`
	Price       string `json:"price"`
	Source      string `json:"source"` // extractor identifier
	Vibe        string `json:"vibe"`
	Crowd       string `json:"crowd"`
	BestFor     string `json:"bestFor"`
}

// Key returns the deduplication key for the event: lowercased name joined
// with the canonical date. Two listings from different sources with the same
// key are treated as the same event.
func (e Event) Key() string {
	return strings.ToLower(strings.TrimSpace(e.Name)) + "_" + e.Date
}

// ParsedDate parses the canonical date field. Returns the zero time if the
// field is not in canonical form.
func (e Event) ParsedDate() time.Time {
	t, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
