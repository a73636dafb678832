// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between satwatchd and its clients. These types serve
// as documentation for the event schema; most internal code still broadcasts
// events as map[string]any for flexibility.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat     EventType = "heartbeat"
	EventState         EventType = "state"
	EventLog           EventType = "log"
	EventSurveyDone    EventType = "survey_complete"
	EventPassScheduled EventType = "pass_scheduled"
	EventCountdown     EventType = "countdown"
	EventPassWindow    EventType = "pass_window"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the planner moves between operating
// states (e.g. IDLE -> SURVEYING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// SurveyComplete summarizes a finished GEO arc survey.
type SurveyComplete struct {
	Event
	Visible  int    `json:"visible"`
	Best     string `json:"best"`
	BestTier string `json:"best_tier"`
}

// PassScheduled announces the next LEO pass the planner will wait for.
type PassScheduled struct {
	Event
	Target  string  `json:"target"`
	AOS     string  `json:"aos"`
	LOS     string  `json:"los"`
	MaxElev float64 `json:"max_elev"`
	Quality string  `json:"quality"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}
