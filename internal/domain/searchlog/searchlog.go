// Package searchlog holds the append-only record of one executed search.
package searchlog

import "time"

// Entry is immutable once created.
type Entry struct {
	ID            string        `json:"id"`
	Query         string        `json:"query"`
	Filters       string        `json:"filters,omitempty"`
	ResultsCount  int           `json:"results_count"`
	ExecutionTime time.Duration `json:"execution_time"`
	ActorID       string        `json:"actor_id,omitempty"`
	SessionID     string        `json:"session_id,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// VisitorKey identifies the searcher for unique counts: actor, else session.
// Empty when neither is known.
func (e *Entry) VisitorKey() string {
	if e.ActorID != "" {
		return "actor:" + e.ActorID
	}
	if e.SessionID != "" {
		return "session:" + e.SessionID
	}
	return ""
}
