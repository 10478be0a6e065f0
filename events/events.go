// Package events records domain events (cart cleared, session invalidated,
// quote priced, sweep results) to an append-only log.
package events

import (
	"sync"
	"time"
)

const (
	CartCleared         = "cart_cleared"
	CartMigrated        = "cart_migrated"
	SessionCreated      = "session_created"
	SessionInvalidated  = "session_invalidated"
	UserSessionsRevoked = "user_sessions_revoked"
	SessionsFlushed     = "sessions_flushed"
	SessionsCleaned     = "sessions_cleaned"
	QuotePriced         = "quote_priced"
)

// Sink accepts events. Fields are copied into the payload together with
// "event" and "timestamp" keys.
type Sink interface {
	LogEvent(event string, fields map[string]interface{}) error
}

type Nop struct{}

func (Nop) LogEvent(string, map[string]interface{}) error { return nil }

// Recorded is one event captured by a Recorder.
type Recorded struct {
	Event  string
	Fields map[string]interface{}
}

// Recorder keeps events in memory. Handy for local runs and tests.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func (r *Recorder) LogEvent(event string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Event: event, Fields: payload(event, fields)})
	return nil
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Event)
	}
	return names
}

func payload(event string, fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out["event"] = event
	out["timestamp"] = time.Now().Unix()
	return out
}
