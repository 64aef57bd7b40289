package memorial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/memorialdex/internal/db"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/filter"
	"github.com/kailas-cloud/memorialdex/internal/domain/search/query"
)

// store is the consumer interface for memorial operations (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// Repo reads memorial records from the FT index.
type Repo struct {
	store  store
	prefix string
}

// New creates a memorial repository. prefix namespaces keys and the index name.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// EnsureIndex creates the memorial index when it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := buildIndex(r.prefix)
	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Fetch runs a structured query and returns one page with raw text-match scores.
func (r *Repo) Fetch(ctx context.Context, q query.Query) (dommem.Page, error) {
	_, hasText := q.Text()
	sq := &db.SearchQuery{
		IndexName:  indexName(r.prefix),
		Filters:    q.Filter(),
		SortBy:     string(q.SortField()),
		Ascending:  q.Ascending(),
		Offset:     q.Offset(),
		Limit:      q.Limit(),
		WithScores: hasText,
	}

	sr, err := r.store.Search(ctx, sq)
	if err != nil {
		return dommem.Page{}, fmt.Errorf("search memorials: %w", err)
	}

	page := dommem.Page{Total: sr.Total, Items: make([]dommem.Scored, 0, len(sr.Entries))}
	for _, e := range sr.Entries {
		page.Items = append(page.Items, dommem.Scored{
			Memorial:  parseHashFields(r.idFromKey(e.Key), e.Fields),
			TextScore: e.Score,
		})
	}
	return page, nil
}

// DiedBetween returns public memorials whose death date falls in [from, to],
// newest memorial first.
func (r *Repo) DiedBetween(ctx context.Context, from, to time.Time, limit int) ([]dommem.Memorial, error) {
	lo, hi := float64(from.Unix()), float64(to.Unix())
	rng, err := filter.NewRangeFilter(nil, &lo, nil, &hi)
	if err != nil {
		return nil, fmt.Errorf("death range: %w", err)
	}
	deathCond, err := filter.NewRange(dommem.FieldDeathTS, rng)
	if err != nil {
		return nil, err
	}
	expr, err := r.publicExpression(deathCond)
	if err != nil {
		return nil, err
	}

	return r.list(ctx, expr, dommem.FieldCreatedAt, limit)
}

// ListVisible returns up to limit public memorials, most viewed first.
// It bounds the candidate scan behind suggestions.
func (r *Repo) ListVisible(ctx context.Context, limit int) ([]dommem.Memorial, error) {
	expr, err := r.publicExpression()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, expr, dommem.FieldViewCount, limit)
}

// Put writes memorial hashes in one round-trip. The index picks them up by prefix.
func (r *Repo) Put(ctx context.Context, memorials []dommem.Memorial) error {
	items := make([]db.HashSetItem, 0, len(memorials))
	for i := range memorials {
		m := &memorials[i]
		if m.ID == "" {
			return fmt.Errorf("memorial at position %d has no id", i)
		}
		items = append(items, db.HashSetItem{Key: r.key(m.ID), Fields: buildHashFields(m)})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put memorials: %w", err)
	}
	return nil
}

func (r *Repo) list(ctx context.Context, expr filter.Expression, sortBy string, limit int) ([]dommem.Memorial, error) {
	sr, err := r.store.Search(ctx, &db.SearchQuery{
		IndexName: indexName(r.prefix),
		Filters:   expr,
		SortBy:    sortBy,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list memorials: %w", err)
	}

	out := make([]dommem.Memorial, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		out = append(out, parseHashFields(r.idFromKey(e.Key), e.Fields))
	}
	return out, nil
}

func (r *Repo) publicExpression(extra ...filter.Condition) (filter.Expression, error) {
	public, err := filter.NewMatch(dommem.FieldPrivacy, string(dommem.Public))
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression(append([]filter.Condition{public}, extra...), nil, nil)
}

func (r *Repo) key(id string) string {
	return keyPrefix(r.prefix) + id
}

func (r *Repo) idFromKey(key string) string {
	return strings.TrimPrefix(key, keyPrefix(r.prefix))
}

