package searchlog

import (
	"context"

	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
)

// Store persists search log entries.
type Store interface {
	Append(ctx context.Context, e domlog.Entry) error
}
