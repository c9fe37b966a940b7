package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTime is assumed when a listing gives no usable start time. Most
// Norwich evening events start at 7pm.
const DefaultTime = "19:00"

// fallbackDays is how far ahead an event with no recognizable date is placed.
const fallbackDays = 7

var (
	// "20th January 2026", "3 Mar 2026"
	dayMonthYearRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,})\s+(\d{4})\b`)

	// "Saturday, 3 Jan", "Fri 14 February" — weekday given, year omitted
	weekdayDayMonthRe = regexp.MustCompile(`(?i)\b(?:mon|tues?|wed(?:nes)?|thur?s?|fri|sat(?:ur)?|sun)(?:day)?\b,?\s+(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,})\b`)

	// canonical passthrough
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// "7pm", "7:30 PM", "19:00", "9"
	clockRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// NormalizeDate converts a free-text date fragment into canonical YYYY-MM-DD
// relative to now. It is a total function: unrecognized or empty input maps to
// a week from now rather than an error, so a source with odd date markup still
// yields listable events.
func NormalizeDate(raw string, now time.Time) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return canonical(now.AddDate(0, 0, fallbackDays))
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "today"):
		return canonical(now)
	case strings.Contains(lower, "tomorrow"):
		return canonical(now.AddDate(0, 0, 1))
	case strings.Contains(lower, "next week"):
		return canonical(now.AddDate(0, 0, 7))
	}

	// "20th January 2026" — fully specified
	if m := dayMonthYearRe.FindStringSubmatch(text); m != nil {
		if month, ok := monthFromName(m[2]); ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			return canonical(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		}
	}

	// "Saturday, 3 Jan" — year omitted; assume this year, roll forward if the
	// day has already passed (listings spanning a year boundary omit the year)
	if m := weekdayDayMonthRe.FindStringSubmatch(text); m != nil {
		if month, ok := monthFromName(m[2]); ok {
			day, _ := strconv.Atoi(m[1])
			candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			if candidate.Before(today) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			return canonical(candidate)
		}
	}

	if isoDateRe.MatchString(text) {
		return text
	}

	return canonical(now.AddDate(0, 0, fallbackDays))
}

// NormalizeTime converts a free-text time fragment into canonical 24-hour
// HH:MM. Missing or unparseable input defaults to DefaultTime.
func NormalizeTime(raw string) string {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return DefaultTime
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return DefaultTime
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// monthFromName resolves a month name by its first three letters,
// case-insensitive, so "Jan", "january" and "JANUARY" all match.
func monthFromName(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	month, ok := monthsByPrefix[strings.ToLower(name[:3])]
	return month, ok
}

func canonical(t time.Time) string {
	return t.Format("2006-01-02")
}
