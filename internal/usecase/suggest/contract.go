package suggest

import (
	"context"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
)

// Catalog lists the public memorials suggestions are drawn from.
type Catalog interface {
	ListVisible(ctx context.Context, limit int) ([]memorial.Memorial, error)
}
