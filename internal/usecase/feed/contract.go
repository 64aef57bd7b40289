package feed

import (
	"context"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
	"github.com/kailas-cloud/memorialdex/internal/usecase/ranking"
)

// Repository lists public memorials by death date.
type Repository interface {
	DiedBetween(ctx context.Context, from, to time.Time, limit int) ([]memorial.Memorial, error)
}

// Scorer applies discovery-feed scoring.
type Scorer interface {
	Feed(in ranking.FeedInput, ms []memorial.Memorial) []obituary.Entry
}
