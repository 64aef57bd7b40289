// Package chi is the HTTP transport: routes, request binding and error mapping.
package chi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/memorialdex/internal/domain"
	"github.com/kailas-cloud/memorialdex/internal/domain/geo"
	"github.com/kailas-cloud/memorialdex/internal/domain/obituary"
	"github.com/kailas-cloud/memorialdex/internal/domain/suggestion"
	"github.com/kailas-cloud/memorialdex/internal/metrics"
	analyticsuc "github.com/kailas-cloud/memorialdex/internal/usecase/analytics"
	feeduc "github.com/kailas-cloud/memorialdex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/memorialdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/memorialdex/internal/usecase/search"
)

// Rate-limit route groups.
const (
	GroupSearch      = "search"
	GroupSuggestions = "suggestions"
	GroupObituaries  = "obituaries"
	GroupAnalytics   = "analytics"
)

// Caller identity headers.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderSessionID = "X-Session-ID"
)

// maxBodyBytes caps the POST /search body.
const maxBodyBytes = 64 << 10

// Server serves the memorial discovery API.
type Server struct {
	search        Searcher
	suggest       Suggester
	feed          FeedProvider
	analytics     AnalyticsReporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	suggest Suggester,
	feed FeedProvider,
	analytics AnalyticsReporter,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:        search,
		suggest:       suggest,
		feed:          feed,
		analytics:     analytics,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// RouterOptions configures the cross-cutting middleware of Router.
type RouterOptions struct {
	// APIKeys protect the analytics routes. Empty disables authentication.
	APIKeys []string
	// Limiter throttles each route group. Nil disables rate limiting.
	Limiter Limiter
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(metrics.Middleware("/metrics"))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	limit := func(group string) func(http.Handler) http.Handler {
		return RateLimitMiddleware(opts.Limiter, group)
	}

	r.Group(func(r chi.Router) {
		r.Use(limit(GroupSearch))
		r.Get("/search", s.SearchGet)
		r.Post("/search", s.SearchPost)
	})
	r.With(limit(GroupSuggestions)).Get("/search/suggestions", s.Suggestions)
	r.With(limit(GroupObituaries)).Get("/obituaries", s.Obituaries)
	r.Route("/analytics", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIKeys))
		r.Use(limit(GroupAnalytics))
		r.Get("/search", s.SearchAnalytics)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// SearchGet handles GET /search.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	p, err := bindSearchParams(r.URL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runSearch(w, r, &searchuc.Request{
		Query:    p.Query,
		Filters:  p.Filters,
		Advanced: p.Advanced,
		Options:  p.Options,
	})
}

// SearchPost handles POST /search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.runSearch(w, r, &searchuc.Request{
		Query:    body.Query,
		Filters:  body.Filters,
		Advanced: body.Advanced,
		Options:  body.Options,
	})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req *searchuc.Request) {
	req.ActorID = strings.TrimSpace(r.Header.Get(HeaderActorID))
	req.SessionID = strings.TrimSpace(r.Header.Get(HeaderSessionID))

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := SearchResponse{Results: searchResultsToDTO(resp.Results), Total: resp.Total}
	if req.Advanced {
		out.Filters = &resp.Filters
	}
	writeJSON(w, http.StatusOK, out)
}

// Suggestions handles GET /search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	b := newQueryBinder(r.URL)
	var q string
	b.bind("q", &q)
	if b.err != nil {
		s.handleDomainError(w, r, b.err)
		return
	}

	list, err := s.suggest.Suggest(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []suggestion.Suggestion{}
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: list})
}

// Obituaries handles GET /obituaries.
func (s *Server) Obituaries(w http.ResponseWriter, r *http.Request) {
	p, err := bindObituaryParams(r.URL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	unit := geo.Miles
	if p.Unit != "" {
		unit = geo.Unit(strings.ToLower(p.Unit))
	}
	if !unit.IsValid() {
		s.handleDomainError(w, r, domain.NewValidationError("unit", "must be mi or km"))
		return
	}

	req := feeduc.Request{
		Origin: geo.Point{Lat: *p.Lat, Lng: *p.Lng},
		Period: obituary.Period(strings.ToLower(p.Period)),
		SortBy: obituary.SortBy(strings.ToLower(p.SortBy)),
		Limit:  p.Limit,
	}
	if p.Radius != nil {
		req.Radius = unit.ToMiles(*p.Radius)
	}

	resp, err := s.feed.Obituaries(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	entries := make([]ObituaryEntry, len(resp.Entries))
	for i := range resp.Entries {
		entries[i] = obituaryToDTO(&resp.Entries[i], unit)
	}
	writeJSON(w, http.StatusOK, ObituariesResponse{
		Obituaries: entries,
		Count:      len(entries),
		Location:   resp.Origin,
		Filters: ObituaryFilters{
			Radius: p.Radius,
			Unit:   unit,
			Period: resp.Period,
			SortBy: resp.SortBy,
			Limit:  resp.Limit,
		},
	})
}

// SearchAnalytics handles GET /analytics/search.
func (s *Server) SearchAnalytics(w http.ResponseWriter, r *http.Request) {
	p, err := bindAnalyticsParams(r.URL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	kind, err := analyticsuc.ParseKind(p.Type)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	period, err := analyticsuc.ParsePeriod(p.Period)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report := s.analytics.Report(r.Context(), kind, period)

	var data any
	switch report.Kind {
	case analyticsuc.KindPopular:
		popular := report.Popular
		if popular == nil {
			popular = []analyticsuc.PopularQuery{}
		}
		data = popular
	case analyticsuc.KindTrends:
		data = report.Trends
	case analyticsuc.KindPerformance:
		data = report.Performance
	default:
		data = report.Overview
	}

	writeJSON(w, http.StatusOK, AnalyticsResponse{
		Type:   string(kind),
		Period: string(period),
		Since:  report.Since,
		Data:   data,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
