package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config names the index a Repo queries.
type Config struct {
	// Driver labels metrics ("qdrant", "valkey").
	Driver string
	// Index is the collection (qdrant) or FT index name (valkey).
	Index string
	// KeyPrefix is stripped from entry keys to obtain document ids.
	KeyPrefix string
	// ReturnFields limits fetched payload keys. Empty fetches the whole payload.
	ReturnFields []string
}

// Repo implements usecase/search.Index over a vector store driver.
type Repo struct {
	store store
	cfg   Config
}

// New creates a search repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Query returns up to limit nearest candidates with payloads, in the order the index ranked them.
// Driver failures are wrapped with domain.ErrVectorSearchFailed.
func (r *Repo) Query(ctx context.Context, vector []float32, limit int) ([]candidate.Candidate, error) {
	start := time.Now()
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.Index,
		Vector:       vector,
		K:            limit,
		ReturnFields: r.cfg.ReturnFields,
	})
	r.observe(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", domain.ErrVectorSearchFailed, r.cfg.Index, err)
	}

	return r.toCandidates(sr), nil
}

func (r *Repo) toCandidates(sr *db.SearchResult) []candidate.Candidate {
	if sr == nil || len(sr.Entries) == 0 {
		metrics.VectorSearchResults.WithLabelValues(r.driver()).Observe(0)
		return []candidate.Candidate{}
	}

	out := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := strings.TrimPrefix(e.Key, r.cfg.KeyPrefix)
		out = append(out, candidate.New(id, e.Score, e.Fields))
	}
	metrics.VectorSearchResults.WithLabelValues(r.driver()).Observe(float64(len(out)))
	return out
}

func (r *Repo) observe(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.VectorSearchRequestsTotal.WithLabelValues(r.driver(), status).Inc()
	metrics.VectorSearchDuration.WithLabelValues(r.driver()).Observe(d.Seconds())
}

func (r *Repo) driver() string {
	if r.cfg.Driver == "" {
		return "unknown"
	}
	return r.cfg.Driver
}
