// Package query holds the store-facing search expression built from a request.
package query

import (
	"fmt"

	"github.com/kailas-cloud/memorialdex/internal/domain/search/filter"
)

// SortField names a sortable index field.
type SortField string

const (
	// SortNone keeps the store's native text-match ordering.
	SortNone      SortField = ""
	SortCreatedAt SortField = "created_at"
	SortName      SortField = "name"
	SortViews     SortField = "view_count"
)

// Query is a filter expression plus ordering and pagination.
type Query struct {
	filter    filter.Expression
	sortField SortField
	ascending bool
	limit     int
	offset    int
}

// New validates and creates a Query.
func New(expr filter.Expression, sortField SortField, ascending bool, limit, offset int) (Query, error) {
	if limit < 0 {
		return Query{}, fmt.Errorf("limit must be >= 0")
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("offset must be >= 0")
	}
	return Query{
		filter:    expr,
		sortField: sortField,
		ascending: ascending,
		limit:     limit,
		offset:    offset,
	}, nil
}

// Filter returns the boolean filter expression.
func (q *Query) Filter() filter.Expression { return q.filter }

// SortField returns the field the store orders by.
func (q *Query) SortField() SortField { return q.sortField }

// Ascending reports the sort direction.
func (q *Query) Ascending() bool { return q.ascending }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Offset returns the page offset.
func (q *Query) Offset() int { return q.offset }

// Text returns the full-text condition, if any.
func (q *Query) Text() (*filter.Text, bool) { return q.filter.Text() }
