package app

import (
	"encoding/json"
	"sync"
)

// logEntry is one captured log event from the broadcast stream.
type logEntry struct {
	TS        string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

// logRing keeps the most recent log events in a fixed-size circular buffer
// so satctl can query them without a WebSocket connection.
type logRing struct {
	mu      sync.Mutex
	entries []logEntry
	next    int
	full    bool
}

func newLogRing(size int) *logRing {
	return &logRing{entries: make([]logEntry, size)}
}

// capture inspects a broadcast message and records it if it is a log event.
// Installed as the hub tap, so it sees every event from every component.
func (r *logRing) capture(raw []byte) {
	var ev logEntry
	if err := json.Unmarshal(raw, &ev); err != nil {
		return
	}
	var typed struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &typed); err != nil || typed.Type != "log" {
		return
	}

	r.mu.Lock()
	r.entries[r.next] = ev
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// snapshot returns the buffered entries oldest-first, optionally filtered by
// level and limited to the newest n entries.
func (r *logRing) snapshot(level string, limit int) []logEntry {
	r.mu.Lock()
	var out []logEntry
	if r.full {
		out = append(out, r.entries[r.next:]...)
		out = append(out, r.entries[:r.next]...)
	} else {
		out = append(out, r.entries[:r.next]...)
	}
	r.mu.Unlock()

	if level != "" {
		filtered := out[:0]
		for _, e := range out {
			if e.Level == level {
				filtered = append(filtered, e)
			}
		}
		out = filtered
	}
	if limit > 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}
	if out == nil {
		out = []logEntry{}
	}
	return out
}
