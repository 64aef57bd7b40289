package memorialdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memorialdex/internal/db"
	dbRedis "github.com/kailas-cloud/memorialdex/internal/db/redis"
	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	memorialrepo "github.com/kailas-cloud/memorialdex/internal/repository/memorial"
	searchlogrepo "github.com/kailas-cloud/memorialdex/internal/repository/searchlog"
	"github.com/kailas-cloud/memorialdex/internal/usecase/analytics"
	feeduc "github.com/kailas-cloud/memorialdex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/memorialdex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
	"github.com/kailas-cloud/memorialdex/internal/usecase/ranking"
	searchuc "github.com/kailas-cloud/memorialdex/internal/usecase/search"
	"github.com/kailas-cloud/memorialdex/internal/usecase/searchlog"
	"github.com/kailas-cloud/memorialdex/internal/usecase/suggest"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "memorialdex:"
	defaultLogCapacity      = 10_000
)

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *searchuc.Request) (searchuc.Response, error)
}

type suggestUseCase interface {
	Suggest(ctx context.Context, partial string) ([]suggestion.Suggestion, error)
}

type feedUseCase interface {
	Obituaries(ctx context.Context, req feeduc.Request) (feeduc.Response, error)
}

type analyticsUseCase interface {
	Report(ctx context.Context, kind analytics.Kind, period analytics.Period) analytics.Report
}

type memorialWriter interface {
	Put(ctx context.Context, memorials []Memorial) error
}

type logStore interface {
	searchlog.Store
	analytics.LogReader
}

// Client is the memorialdex SDK entry point. Safe for concurrent use.
type Client struct {
	store        db.Store
	memorials    memorialWriter
	searchSvc    searchUseCase
	suggestSvc   suggestUseCase
	feedSvc      feedUseCase
	analyticsSvc analyticsUseCase
	healthSvc    healthUseCase
	searchLog    *searchlog.Logger
	obs          *observer
}

// New creates a Client, connects to the database and ensures the memorial
// index exists. The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:   defaultKeyPrefix,
		logCapacity: defaultLogCapacity,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("memorialdex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("memorialdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("memorialdex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	repo := memorialrepo.New(store, cfg.keyPrefix)
	if err := repo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("memorialdex: ensure index: %w", err)
	}

	var logs logStore
	if cfg.streamLog {
		logs = searchlogrepo.NewStream(store, cfg.keyPrefix, cfg.logMaxLength, 0)
	} else {
		logs = searchlogrepo.NewRing(cfg.logCapacity)
	}
	// The SDK reports through observer; the queue itself stays quiet.
	searchLog := searchlog.New(logs, searchlog.Config{}, zap.NewNop())
	searchLog.Start(ctx)

	scorer := ranking.New(ranking.Config{
		PrefixBoost:      cfg.prefixBoost,
		MaxDistanceMiles: cfg.maxDistanceMiles,
	})

	return &Client{
		store:        store,
		memorials:    repo,
		searchSvc:    searchuc.New(repo, queryuc.New(), scorer, searchLog),
		suggestSvc:   suggest.New(repo, cfg.scanLimit),
		feedSvc:      feeduc.New(repo, scorer, cfg.scanLimit),
		analyticsSvc: analytics.New(logs, 0),
		healthSvc:    healthuc.New(store, map[string]healthuc.Checker{"search_log": searchLog}),
		searchLog:    searchLog,
		obs:          obs,
	}, nil
}

// Close flushes pending search log writes and releases all resources.
func (c *Client) Close() {
	if c.searchLog != nil {
		c.searchLog.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Put stores or replaces memorials.
func (c *Client) Put(ctx context.Context, memorials []Memorial) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("memorial.put", start, err) }()

	if err = c.memorials.Put(ctx, memorials); err != nil {
		return fmt.Errorf("put memorials: %w", err)
	}
	return nil
}

// Search runs a ranked search. Results are ordered by score, ties broken by
// most recent creation.
func (c *Client) Search(ctx context.Context, req SearchRequest) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.searchSvc.Search(ctx, &searchuc.Request{
		Query:     req.Query,
		Filters:   req.Filters,
		Advanced:  req.Advanced,
		Options:   req.Options,
		ActorID:   req.ActorID,
		SessionID: req.SessionID,
	})
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		hits[i] = Hit{Memorial: r.Memorial(), Score: r.Score(), Highlights: r.Highlights()}
	}
	return SearchPage{Hits: hits, Total: resp.Total, Filters: resp.Filters}, nil
}

// Suggest completes a partial query. Fewer than two characters yield none.
func (c *Client) Suggest(ctx context.Context, partial string) (_ []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	list, err := c.suggestSvc.Suggest(ctx, partial)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return list, nil
}

// Obituaries returns recent public deaths ranked for the given position.
func (c *Client) Obituaries(ctx context.Context, req FeedRequest) (_ []FeedEntry, err error) {
	start := time.Now()
	defer func() { c.obs.observe("obituaries", start, err) }()

	resp, err := c.feedSvc.Obituaries(ctx, feeduc.Request{
		Origin: geo.Point{Lat: req.Lat, Lng: req.Lng},
		Radius: req.RadiusMiles,
		Period: obituary.Period(req.Period),
		SortBy: obituary.SortBy(req.SortBy),
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("obituaries: %w", err)
	}

	out := make([]FeedEntry, len(resp.Entries))
	for i := range resp.Entries {
		e := &resp.Entries[i]
		out[i] = FeedEntry{
			Memorial:      e.Memorial,
			DistanceMiles: e.Distance,
			DaysAgo:       e.DaysAgo,
			Engagement:    e.Engagement,
			Relevance:     e.Relevance,
		}
	}
	return out, nil
}

// Analytics aggregates the search log over period (24h, 7d, 30d, 90d).
// Empty kind and period mean overview and 7d.
func (c *Client) Analytics(ctx context.Context, kind ReportKind, period string) (_ Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analytics", start, err) }()

	k, err := analytics.ParseKind(string(kind))
	if err != nil {
		return Report{}, err
	}
	p, err := analytics.ParsePeriod(period)
	if err != nil {
		return Report{}, err
	}

	r := c.analyticsSvc.Report(ctx, k, p)
	return Report{
		Kind:        r.Kind,
		Since:       r.Since,
		Overview:    r.Overview,
		Popular:     r.Popular,
		Trends:      r.Trends,
		Performance: r.Performance,
	}, nil
}
