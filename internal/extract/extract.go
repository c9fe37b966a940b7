package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/norwich-event-hub/scraper/internal/event"
	"github.com/norwich-event-hub/scraper/internal/fetch"
)

// DefaultMaxItems bounds how many candidate entries are taken from one page.
// Listing pages can run to hundreds of entries; the hub only features the
// first handful per source.
const DefaultMaxItems = 6

// Rules is the declarative selector table for one source. Item selects the
// repeated event entry; the remaining selectors are evaluated inside each
// entry. An empty selector means the source's markup does not supply that
// field; Title additionally falls back to the entry's own text, and Link to
// the entry's own href.
type Rules struct {
	Item  string
	Title string
	Venue string
	Date  string
	Time  string
	Link  string
	Price string
}

// Defaults fills record fields the source's markup does not supply.
type Defaults struct {
	Time     string
	Location string
	Category string
	Vibe     string
	Crowd    string
	BestFor  string
}

// Source fetches and parses one external event-listing page.
type Source struct {
	SourceName string
	URL        string
	MaxItems   int
	Rules      Rules
	Defaults   Defaults

	client *fetch.Client
	now    func() time.Time
}

// NewSource binds a source definition to a fetch client.
func NewSource(name, pageURL string, rules Rules, defaults Defaults, client *fetch.Client) *Source {
	return &Source{
		SourceName: name,
		URL:        pageURL,
		MaxItems:   DefaultMaxItems,
		Rules:      rules,
		Defaults:   defaults,
		client:     client,
		now:        time.Now,
	}
}

// Name returns the extractor identifier recorded on every event it yields.
func (s *Source) Name() string { return s.SourceName }

// Extract fetches the source's listing page and returns up to MaxItems
// events. Candidates without a title are skipped. Fetch and parse failures
// are returned as errors; the orchestrator records them per source and treats
// the source as zero-yield for the run.
func (s *Source) Extract(ctx context.Context) ([]event.Event, error) {
	body, err := s.client.Get(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return s.parse(body)
}

func (s *Source) parse(body []byte) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	max := s.MaxItems
	if max <= 0 {
		max = DefaultMaxItems
	}

	now := s.now()
	events := make([]event.Event, 0, max)
	doc.Find(s.Rules.Item).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(events) >= max {
			return false
		}
		if evt, ok := s.buildEvent(sel, now); ok {
			events = append(events, evt)
		}
		return true
	})

	return events, nil
}

// buildEvent turns one candidate entry into an event record, or reports false
// when the entry has no title.
func (s *Source) buildEvent(entry *goquery.Selection, now time.Time) (event.Event, bool) {
	title := fieldText(entry, s.Rules.Title)
	if s.Rules.Title == "" {
		title = collapseSpace(entry.Text())
	}
	if title == "" {
		return event.Event{}, false
	}

	venue := fieldText(entry, s.Rules.Venue)
	if venue == "" {
		venue = s.Defaults.Location
	}

	rawTime := fieldText(entry, s.Rules.Time)
	normalizedTime := event.NormalizeTime(rawTime)
	if rawTime == "" && s.Defaults.Time != "" {
		normalizedTime = s.Defaults.Time
	}

	description := title
	if venue != "" {
		description = fmt.Sprintf("%s at %s", title, venue)
	}

	return event.Event{
		Name:        title,
		Date:        event.NormalizeDate(fieldText(entry, s.Rules.Date), now),
		Time:        normalizedTime,
		Location:    venue,
		Category:    s.Defaults.Category,
		Description: description,
		TicketLink:  s.fieldLink(entry),
		Price:       fieldText(entry, s.Rules.Price),
		Source:      s.SourceName,
		Vibe:        s.Defaults.Vibe,
		Crowd:       s.Defaults.Crowd,
		BestFor:     s.Defaults.BestFor,
	}, true
}

// fieldText evaluates a field selector inside one entry. An empty selector
// yields an empty field.
func fieldText(entry *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return collapseSpace(entry.Find(selector).First().Text())
}

// fieldLink extracts the candidate's link and resolves it against the page
// URL so relative hrefs come out absolute.
func (s *Source) fieldLink(entry *goquery.Selection) string {
	sel := entry
	if s.Rules.Link != "" {
		sel = entry.Find(s.Rules.Link).First()
	}
	href, ok := sel.Attr("href")
	if !ok || href == "" {
		return ""
	}

	base, err := url.Parse(s.URL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// collapseSpace trims and folds runs of whitespace, which goquery's Text()
// output is full of on indented markup.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
