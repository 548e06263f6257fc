package dispatch

import (
	"regexp"
	"strings"
	"time"
)

// DefaultLookbackMonths bounds how stale an ISO date from the model may be
// before its year is re-anchored to the current one. Providers sometimes
// omit year context and default to a stale one.
const DefaultLookbackMonths = 6

// DatePolicy resolves the date argument of a tool call. The fallback chain:
// blank resolves to today; an ISO date is taken as-is unless it is more than
// LookbackMonths in the past, in which case its year is re-anchored; a
// month-day expression ("Oct 16th") is anchored to the current year; anything
// unparseable resolves to today.
type DatePolicy struct {
	LookbackMonths int
}

var ordinalSuffix = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)

func (p DatePolicy) Resolve(raw string, now time.Time) time.Time {
	lookback := p.LookbackMonths
	if lookback <= 0 {
		lookback = DefaultLookbackMonths
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}

	if d, err := time.Parse("2006-01-02", raw); err == nil {
		if d.Before(now.AddDate(0, -lookback, 0)) {
			return time.Date(now.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		}
		return d
	}

	cleaned := strings.TrimSpace(ordinalSuffix.ReplaceAllString(raw, "$1"))
	cleaned = titleCaseWords(cleaned)
	for _, layout := range []string{"Jan 2", "January 2", "2 Jan", "2 January"} {
		if d, err := time.Parse(layout, cleaned); err == nil {
			return time.Date(now.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	return now
}

// titleCaseWords uppercases the first letter of each word so month names
// parse case-insensitively.
func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
