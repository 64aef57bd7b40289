package searchlog

import (
	"context"
	"slices"
	"sync"
	"time"

	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
)

// Ring is an in-memory log store that overwrites the oldest entry once full.
type Ring struct {
	mu      sync.RWMutex
	entries []domlog.Entry
	next    int
	full    bool
}

// NewRing creates a ring holding at most capacity entries.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{entries: make([]domlog.Entry, capacity)}
}

// Append stores one entry.
func (r *Ring) Append(_ context.Context, e domlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Since returns entries with Timestamp at or after since, oldest first. A
// positive limit keeps the most recent limit entries.
func (r *Ring) Since(_ context.Context, since time.Time, limit int) ([]domlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.next
	if r.full {
		n = len(r.entries)
	}

	var out []domlog.Entry
	for i := 1; i <= n; i++ {
		e := r.entries[(r.next-i+len(r.entries))%len(r.entries)]
		if e.Timestamp.Before(since) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	slices.Reverse(out)
	return out, nil
}

// Len returns the number of stored entries.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}
