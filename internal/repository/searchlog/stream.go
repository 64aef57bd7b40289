package searchlog

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/db"
	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
)

// Stream field names.
const (
	fieldID        = "id"
	fieldQuery     = "query"
	fieldFilters   = "filters"
	fieldResults   = "results"
	fieldExecUS    = "exec_us"
	fieldActor     = "actor"
	fieldSession   = "session"
	fieldTimestamp = "ts"
)

// streamStore is the consumer interface for stream operations (ISP).
type streamStore interface {
	XAdd(ctx context.Context, key string, fields map[string]string, maxLen int64) (string, error)
	XRevRange(ctx context.Context, key, end, start string, count int64) ([]db.StreamEntry, error)
}

// Stream keeps search log entries in a Redis stream capped at roughly maxLen entries.
type Stream struct {
	store     streamStore
	key       string
	maxLen    int64
	readBatch int64
}

// NewStream creates a stream-backed log store.
func NewStream(s streamStore, prefix string, maxLen, readBatch int64) *Stream {
	if readBatch <= 0 {
		readBatch = 1000
	}
	return &Stream{store: s, key: prefix + "searchlog", maxLen: maxLen, readBatch: readBatch}
}

// Append writes one entry.
func (s *Stream) Append(ctx context.Context, e domlog.Entry) error {
	if _, err := s.store.XAdd(ctx, s.key, encode(&e), s.maxLen); err != nil {
		return fmt.Errorf("append search log: %w", err)
	}
	return nil
}

// Since returns entries logged at or after since, oldest first. A positive
// limit keeps the most recent limit entries.
func (s *Stream) Since(ctx context.Context, since time.Time, limit int) ([]domlog.Entry, error) {
	start := strconv.FormatInt(max(since.UnixMilli(), 0), 10)
	end := "+"
	var out []domlog.Entry

	for limit <= 0 || len(out) < limit {
		batch := s.readBatch
		if limit > 0 {
			batch = min(batch, int64(limit-len(out)))
		}

		raw, err := s.store.XRevRange(ctx, s.key, end, start, batch)
		if err != nil {
			return nil, fmt.Errorf("read search log: %w", err)
		}
		for _, r := range raw {
			out = append(out, decode(r))
		}
		if int64(len(raw)) < batch {
			break
		}
		// exclusive end before the oldest ID read so far
		end = "(" + raw[len(raw)-1].ID
	}

	slices.Reverse(out)
	return out, nil
}

func encode(e *domlog.Entry) map[string]string {
	m := map[string]string{
		fieldID:        e.ID,
		fieldQuery:     e.Query,
		fieldResults:   strconv.Itoa(e.ResultsCount),
		fieldExecUS:    strconv.FormatInt(e.ExecutionTime.Microseconds(), 10),
		fieldTimestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if e.Filters != "" {
		m[fieldFilters] = e.Filters
	}
	if e.ActorID != "" {
		m[fieldActor] = e.ActorID
	}
	if e.SessionID != "" {
		m[fieldSession] = e.SessionID
	}
	return m
}

func decode(r db.StreamEntry) domlog.Entry {
	f := r.Fields
	e := domlog.Entry{
		ID:        f[fieldID],
		Query:     f[fieldQuery],
		Filters:   f[fieldFilters],
		ActorID:   f[fieldActor],
		SessionID: f[fieldSession],
	}
	if n, err := strconv.Atoi(f[fieldResults]); err == nil {
		e.ResultsCount = n
	}
	if us, err := strconv.ParseInt(f[fieldExecUS], 10, 64); err == nil {
		e.ExecutionTime = time.Duration(us) * time.Microsecond
	}
	if ts, err := time.Parse(time.RFC3339Nano, f[fieldTimestamp]); err == nil {
		e.Timestamp = ts
	} else {
		e.Timestamp = idTime(r.ID)
	}
	if e.ID == "" {
		e.ID = r.ID
	}
	return e
}

// idTime extracts the millisecond timestamp from a stream ID ("<ms>-<seq>").
func idTime(id string) time.Time {
	msPart, _, _ := strings.Cut(id, "-")
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
