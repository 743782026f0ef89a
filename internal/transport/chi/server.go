package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	"github.com/kailas-cloud/docsearch/internal/logger"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

// TimestampFormat is the ISO-8601 UTC layout with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

const searchFailedMessage = "Search failed"

type searcher interface {
	Search(ctx context.Context, query, rawLimit string) (searchuc.Response, error)
}

type healthReporter interface {
	Readiness() healthuc.Readiness
	Check(ctx context.Context) healthuc.Report
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SearchResponse is the JSON body of a successful search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// SearchResult is one presentable hit.
type SearchResult struct {
	Title       string  `json:"title"`
	Subtitle    *string `json:"subtitle,omitempty"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Heading     *string `json:"heading,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Score       float64 `json:"score"`
}

// ReadinessResponse is the JSON body of GET /search/health.
type ReadinessResponse struct {
	Status     string `json:"status"`
	ModelReady bool   `json:"modelReady"`
	Timestamp  string `json:"timestamp"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server serves the search HTTP API.
type Server struct {
	search searcher
	health healthReporter
	logger *zap.Logger
}

// NewServer creates a Server.
func NewServer(search searcher, health healthReporter, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/search/health", s.SearchHealth)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})
	s.logger.Debug("Routes registered", zap.Strings("routes", []string{"/search", "/search/health", "/health", "/metrics"}))
}

// --- Error handling ---

// errorHandler maps an error to an HTTP response. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	validationHandler,
	sentinelHandler(domain.ErrModelNotReady, http.StatusInternalServerError, searchFailedMessage),
	sentinelHandler(domain.ErrEmbeddingFailed, http.StatusInternalServerError, searchFailedMessage),
	sentinelHandler(domain.ErrVectorSearchFailed, http.StatusInternalServerError, searchFailedMessage),
}

func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Message, "")
		return true
	}
	if domain.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return true
	}
	return false
}

func sentinelHandler(target error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if errors.Is(err, target) {
			writeError(w, status, msg, err.Error())
			return true
		}
		return false
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range errorHandlers {
		if h(w, err) {
			return
		}
	}
	logger.FromContext(r.Context()).Error("unhandled search error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, searchFailedMessage, err.Error())
}

// --- Handlers ---

// Search handles GET /search?q=&limit=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	resp, err := s.search.Search(r.Context(), params.Get("q"), params.Get("limit"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for i := range resp.Results {
		results = append(results, toSearchResult(&resp.Results[i]))
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   resp.Query,
		Count:   len(results),
		Results: results,
	})
}

// SearchHealth handles GET /search/health. It never touches collaborators.
func (s *Server) SearchHealth(w http.ResponseWriter, _ *http.Request) {
	rd := s.health.Readiness()
	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:     string(rd.Status),
		ModelReady: rd.ModelReady,
		Timestamp:  rd.Timestamp.UTC().Format(TimestampFormat),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// --- Helpers ---

func toSearchResult(r *result.Result) SearchResult {
	return SearchResult{
		Title:       r.Title(),
		Subtitle:    r.Subtitle(),
		Description: r.Description(),
		URL:         r.URL(),
		Heading:     r.Heading(),
		Slug:        r.Slug(),
		Score:       r.Score(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}
