package db

import (
	"context"
	"time"
)

// Store is the content store facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	HashStore
	KVStore
	StreamStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based record operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
}

// KVStore provides windowed counter operations.
type KVStore interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// StreamEntry is a single stream record.
type StreamEntry struct {
	ID     string
	Fields map[string]string
}

// StreamStore provides append-only, length-capped streams.
type StreamStore interface {
	// XAdd appends fields and trims the stream to roughly maxLen entries (0 = no trim).
	XAdd(ctx context.Context, key string, fields map[string]string, maxLen int64) (string, error)
	// XRevRange returns up to count entries with IDs in [start, end], newest first.
	// "-" and "+" are open bounds; a "(" prefix makes a bound exclusive.
	XRevRange(ctx context.Context, key, end, start string, count int64) ([]StreamEntry, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, q *SearchQuery) (int, error)
}
