package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/bakaevs/cs-gpt/internal/ai"
)

// AlertType identifies the alert class the investigation service expects.
type AlertType string

const (
	AlertCalving     AlertType = "CIH"
	AlertHeat        AlertType = "HEAT"
	AlertLowActivity AlertType = "LOW_ACT"
	AlertUnknown     AlertType = "UNKNOWN"
)

// alertTypeFor maps a model-issued function name onto an alert type.
// Unrecognized names fall through to UNKNOWN and are still dispatched; the
// investigation service owns the rejection.
func alertTypeFor(function string) AlertType {
	switch function {
	case "get_cow_calving_status":
		return AlertCalving
	case "get_cow_heat_status":
		return AlertHeat
	case "check_animal_low_activity":
		return AlertLowActivity
	default:
		return AlertUnknown
	}
}

// Dispatcher translates a tool call into an investigation request and a
// human-readable result. It never returns an error: every failure mode is
// rendered as answer text.
type Dispatcher struct {
	client *InvestigationClient
	dates  DatePolicy
	now    func() time.Time
}

func NewDispatcher(client *InvestigationClient, dates DatePolicy) *Dispatcher {
	return &Dispatcher{client: client, dates: dates, now: time.Now}
}

func (d *Dispatcher) Dispatch(ctx context.Context, userID string, call ai.ToolCall) string {
	farmID, err := FarmID(userID)
	if err != nil {
		log.Printf("dispatch: rejecting tool call for user %q: %v", userID, err)
		return "Error: " + err.Error()
	}

	alert := alertTypeFor(call.Function.Name)
	if alert == AlertUnknown {
		log.Printf("dispatch: unknown function %q, forwarding as %s", call.Function.Name, AlertUnknown)
	}

	args := parseArgs(call.Function.Arguments)
	date := d.dates.Resolve(args.Date, d.now()).Format("2006-01-02")

	result, err := d.client.Investigate(ctx, farmID, args.CowID, alert, date, args.Time)
	if err != nil {
		log.Printf("dispatch: investigation call failed: %v", err)
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return "Error: unable to connect to server."
		}
		return "Error: API call failed - " + err.Error()
	}
	return result
}

// FarmID derives the acting farm from the caller's user identifier. The
// investigation service's convention is "<tenant>-<farm>-..."; the second
// token must be a number.
func FarmID(userID string) (int, error) {
	parts := strings.Split(userID, "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid user identifier %q: expected <tenant>-<farm> format", userID)
	}
	farmID, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid farm identifier in user id %q", userID)
	}
	return farmID, nil
}

type callArgs struct {
	CowID int
	Date  string
	Time  string
}

// parseArgs extracts the tool-call arguments, defaulting rather than
// failing: missing cowId is -1, missing time is "unknown".
func parseArgs(raw string) callArgs {
	out := callArgs{CowID: -1, Time: "unknown"}

	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return out
	}
	if v, ok := m["cowId"].(float64); ok {
		out.CowID = int(v)
	}
	if v, ok := m["date"].(string); ok {
		out.Date = v
	}
	if v, ok := m["time"].(string); ok && v != "" {
		out.Time = v
	}
	return out
}
