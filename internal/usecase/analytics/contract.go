package analytics

import (
	"context"
	"time"

	domlog "github.com/kailas-cloud/memorialdex/internal/domain/searchlog"
)

// LogReader reads search log entries recorded at or after since, oldest first.
// When more than limit match, the most recent limit are returned.
type LogReader interface {
	Since(ctx context.Context, since time.Time, limit int) ([]domlog.Entry, error)
}
