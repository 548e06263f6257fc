package dispatch

import (
	"testing"
	"time"
)

func TestResolveBlankIsToday(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	p := DatePolicy{}

	if got := p.Resolve("", now); !got.Equal(now) {
		t.Fatalf("blank = %v, want %v", got, now)
	}
	if got := p.Resolve("   ", now); !got.Equal(now) {
		t.Fatalf("whitespace = %v, want %v", got, now)
	}
}

func TestResolveISODate(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	p := DatePolicy{LookbackMonths: 6}

	got := p.Resolve("2026-07-15", now)
	if got.Format("2006-01-02") != "2026-07-15" {
		t.Fatalf("recent iso date = %v", got)
	}
}

func TestResolveStaleISODateReanchored(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	p := DatePolicy{LookbackMonths: 6}

	// 2025-10-16 is more than six months before now; keep month and day,
	// re-anchor the year.
	got := p.Resolve("2025-10-16", now)
	if got.Format("2006-01-02") != "2026-10-16" {
		t.Fatalf("stale iso date = %v, want 2026-10-16", got)
	}
}

func TestResolveOrdinalMonthDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	p := DatePolicy{}

	cases := map[string]string{
		"Oct 16th":   "2026-10-16",
		"oct 1st":    "2026-10-01",
		"March 3rd":  "2026-03-03",
		"2nd Jan":    "2026-01-02",
		"22 january": "2026-01-22",
	}
	for raw, want := range cases {
		if got := p.Resolve(raw, now).Format("2006-01-02"); got != want {
			t.Fatalf("Resolve(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestResolveGarbageIsToday(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	p := DatePolicy{}

	for _, raw := range []string{"yesterday-ish", "32 Oct", "not a date"} {
		if got := p.Resolve(raw, now); !got.Equal(now) {
			t.Fatalf("Resolve(%q) = %v, want now", raw, got)
		}
	}
}

func TestResolveCustomLookback(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	// One-month lookback: a date three months back gets re-anchored even
	// though the default policy would keep it.
	p := DatePolicy{LookbackMonths: 1}
	got := p.Resolve("2026-05-20", now)
	if got.Format("2006-01-02") != "2026-05-20" {
		t.Fatalf("same-year re-anchor = %v, want 2026-05-20", got)
	}

	p = DatePolicy{LookbackMonths: 12}
	got = p.Resolve("2025-10-16", now)
	if got.Format("2006-01-02") != "2025-10-16" {
		t.Fatalf("wide lookback = %v, want 2025-10-16 unchanged", got)
	}
}
