package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/norwich-event-hub/scraper/internal/orchestrator"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteResult writes a scrape result in the specified format
func WriteResult(w io.Writer, result *orchestrator.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *orchestrator.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeText(w io.Writer, result *orchestrator.Result) error {
	fmt.Fprintf(w, "Scraped %d events in %dms (run %s)\n\n",
		result.Stats.Total, result.Stats.DurationMS, result.RunID)

	for _, evt := range result.Events {
		fmt.Fprintf(w, "%s %s  %s\n", evt.Date, evt.Time, evt.Name)
		if evt.Location != "" {
			fmt.Fprintf(w, "    at %s", evt.Location)
			if evt.Price != "" {
				fmt.Fprintf(w, " (%s)", evt.Price)
			}
			fmt.Fprintln(w)
		}
		if evt.TicketLink != "" {
			fmt.Fprintf(w, "    %s\n", evt.TicketLink)
		}
	}

	if len(result.Stats.BySource) > 0 {
		fmt.Fprintln(w, "\nBy source:")
		for source, count := range result.Stats.BySource {
			fmt.Fprintf(w, "  %-22s %d\n", source, count)
		}
	}

	if len(result.Stats.Errors) > 0 {
		fmt.Fprintln(w, "\nSource errors:")
		for _, e := range result.Stats.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Source, e.Message)
		}
	}

	return nil
}
