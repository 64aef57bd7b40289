package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/memorialdex/internal/config"
	dbRedis "github.com/kailas-cloud/memorialdex/internal/db/redis"
	dommem "github.com/kailas-cloud/memorialdex/internal/domain/memorial"
	logpkg "github.com/kailas-cloud/memorialdex/internal/logger"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
	memorialrepo "github.com/kailas-cloud/memorialdex/internal/repository/memorial"
	ratelimitrepo "github.com/kailas-cloud/memorialdex/internal/repository/ratelimit"
	searchlogrepo "github.com/kailas-cloud/memorialdex/internal/repository/searchlog"
	chiTransport "github.com/kailas-cloud/memorialdex/internal/transport/chi"
	"github.com/kailas-cloud/memorialdex/internal/usecase/analytics"
	feeduc "github.com/kailas-cloud/memorialdex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/memorialdex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/memorialdex/internal/usecase/query"
	"github.com/kailas-cloud/memorialdex/internal/usecase/ranking"
	"github.com/kailas-cloud/memorialdex/internal/usecase/ratelimit"
	searchuc "github.com/kailas-cloud/memorialdex/internal/usecase/search"
	"github.com/kailas-cloud/memorialdex/internal/usecase/searchlog"
	"github.com/kailas-cloud/memorialdex/internal/usecase/suggest"
	"github.com/kailas-cloud/memorialdex/internal/version"
)

// logStore is what both search log backends provide.
type logStore interface {
	searchlog.Store
	analytics.LogReader
}

func main() {
	seedPath := flag.String("seed", "", "path to a JSON array of memorials to load before serving")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting memorialdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("search_log", cfg.SearchLog.Backend),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	prefix := cfg.Storage.KeyPrefix
	memorials := memorialrepo.New(store, prefix)
	if err := memorials.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure memorial index", zap.Error(err))
	}
	if *seedPath != "" {
		n, err := seed(ctx, memorials, *seedPath)
		if err != nil {
			logger.Fatal("Failed to load seed data", zap.String("path", *seedPath), zap.Error(err))
		}
		logger.Info("Seed data loaded", zap.Int("memorials", n))
	}

	var logs logStore
	switch cfg.SearchLog.Backend {
	case config.SearchLogRing:
		logs = searchlogrepo.NewRing(cfg.SearchLog.RingCapacity)
	default:
		logs = searchlogrepo.NewStream(store, prefix, cfg.SearchLog.StreamMaxLen, cfg.SearchLog.ReadBatch)
	}

	searchLogger := searchlog.New(logs, searchlog.Config{
		QueueSize:    cfg.SearchLog.QueueSize,
		Workers:      cfg.SearchLog.Workers,
		Attempts:     cfg.SearchLog.Attempts,
		RetryDelay:   time.Duration(cfg.SearchLog.RetryDelayMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.SearchLog.WriteTimeoutMs) * time.Millisecond,
	}, logger.Named("searchlog"))
	searchLogger.Start(ctx)

	scorer := ranking.New(ranking.Config{
		PrefixBoost:      cfg.Search.PrefixBoost,
		SnippetRadius:    cfg.Search.SnippetRadius,
		MaxDistanceMiles: cfg.Feed.MaxDistanceMiles,
	})

	searchSvc := searchuc.New(memorials, queryuc.New(), scorer, searchLogger)
	suggestSvc := suggest.New(memorials, cfg.Suggest.ScanLimit)
	feedSvc := feeduc.New(memorials, scorer, cfg.Feed.ScanLimit)
	analyticsSvc := analytics.New(logs, cfg.Analytics.MaxEntries)
	healthSvc := healthuc.New(store, map[string]healthuc.Checker{"search_log": searchLogger})

	// Pass a nil interface (not a typed nil pointer) when rate limiting is off.
	var limiter chiTransport.Limiter
	if cfg.RateLimit.Enabled && len(cfg.RateLimit.Groups) > 0 {
		rules := make(map[string]ratelimit.Rule, len(cfg.RateLimit.Groups))
		for group, r := range cfg.RateLimit.Groups {
			rules[group] = ratelimit.Rule{Requests: r.Requests, Window: r.Window()}
		}
		limiter = ratelimit.New(
			ratelimitrepo.New(store, prefix),
			rules,
			ratelimit.Action(cfg.RateLimit.Action),
			logger.Named("ratelimit"),
		)
	}

	server := chiTransport.NewServer(searchSvc, suggestSvc, feedSvc, analyticsSvc, healthSvc, logger)
	handler := server.Router(chiTransport.RouterOptions{
		APIKeys: cfg.Auth.APIKeys,
		Limiter: limiter,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Drain pending search log writes after the last request finished.
	searchLogger.Close()

	logger.Info("Server stopped gracefully")
}

// seed loads a JSON array of memorials into the content store.
func seed(ctx context.Context, repo *memorialrepo.Repo, path string) (int, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var ms []dommem.Memorial
	if err := json.Unmarshal(data, &ms); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}
	if err := repo.Put(ctx, ms); err != nil {
		return 0, fmt.Errorf("store memorials: %w", err)
	}
	return len(ms), nil
}
