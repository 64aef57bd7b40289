package memorialdex

import (
	"context"

	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	"github.com/kailas-cloud/memorialdex/internal/usecase/analytics"
	feeduc "github.com/kailas-cloud/memorialdex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/memorialdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/memorialdex/internal/usecase/search"
)

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *searchuc.Request) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *searchuc.Request) (searchuc.Response, error) {
	return m.searchFn(ctx, req)
}

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, partial string) ([]suggestion.Suggestion, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, partial string) ([]suggestion.Suggestion, error) {
	return m.suggestFn(ctx, partial)
}

type mockFeedUC struct {
	obituariesFn func(ctx context.Context, req feeduc.Request) (feeduc.Response, error)
}

func (m *mockFeedUC) Obituaries(ctx context.Context, req feeduc.Request) (feeduc.Response, error) {
	return m.obituariesFn(ctx, req)
}

type mockAnalyticsUC struct {
	reportFn func(ctx context.Context, kind analytics.Kind, period analytics.Period) analytics.Report
}

func (m *mockAnalyticsUC) Report(ctx context.Context, kind analytics.Kind, period analytics.Period) analytics.Report {
	return m.reportFn(ctx, kind, period)
}

type mockWriter struct {
	putFn func(ctx context.Context, memorials []Memorial) error
}

func (m *mockWriter) Put(ctx context.Context, memorials []Memorial) error {
	return m.putFn(ctx, memorials)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
