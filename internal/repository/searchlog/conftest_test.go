package searchlog

import (
	"context"

	"github.com/kailas-cloud/memorialdex/internal/db"
)

// mockStore implements streamStore for tests.
type mockStore struct {
	xaddFn      func(ctx context.Context, key string, fields map[string]string, maxLen int64) (string, error)
	xrevrangeFn func(ctx context.Context, key, end, start string, count int64) ([]db.StreamEntry, error)
}

func (m *mockStore) XAdd(ctx context.Context, key string, fields map[string]string, maxLen int64) (string, error) {
	if m.xaddFn != nil {
		return m.xaddFn(ctx, key, fields, maxLen)
	}
	return "0-1", nil
}

func (m *mockStore) XRevRange(ctx context.Context, key, end, start string, count int64) ([]db.StreamEntry, error) {
	if m.xrevrangeFn != nil {
		return m.xrevrangeFn(ctx, key, end, start, count)
	}
	return nil, nil
}
