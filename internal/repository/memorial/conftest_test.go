package memorial

import (
	"context"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/db"
	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
)

const testPrefix = "test:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	searchFn      func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func newTestRepo() (*Repo, *mockStore) {
	ms := &mockStore{}
	return New(ms, testPrefix), ms
}

func sampleMemorial() dommem.Memorial {
	born := time.Date(1931, 4, 2, 0, 0, 0, 0, time.UTC)
	died := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
	return dommem.Memorial{
		ID:          "m-1",
		Name:        "Eleanor Hayes",
		Subtitle:    "Beloved teacher",
		Description: "Taught piano in Austin for forty years.",
		BirthDate:   &born,
		DeathDate:   &died,
		BirthLocation: dommem.Location{
			City: "Tulsa", State: "OK", Country: "US",
		},
		DeathLocation: dommem.Location{
			City: "Austin", State: "TX", Country: "US",
			Coordinates: &geo.Point{Lat: 30.2672, Lng: -97.7431},
		},
		RestingPlace:   dommem.Location{City: "Round Rock", State: "TX"},
		Tags:           []string{"teacher", "musician"},
		Media:          dommem.Media{Photos: true, Audio: true},
		CreatedAt:      time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC),
		Privacy:        dommem.Public,
		ViewCount:      120,
		GuestbookCount: 14,
		FuneralHomeID:  "fh-7",
	}
}
