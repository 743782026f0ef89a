package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	"github.com/kailas-cloud/docsearch/internal/logger"
)

// Response is the outcome of one search: the validated query and its ranked results.
type Response struct {
	Query   string
	Results []result.Result
}

// Service runs the read path: validate, embed, query the index, map candidates.
// It never retries and never reorders what the index returned.
type Service struct {
	index Index
	embed Embedder
}

// New creates a search service.
func New(index Index, embed Embedder) *Service {
	return &Service{index: index, embed: embed}
}

// Search validates the raw query and limit, then returns presentable results.
// rawLimit is the unparsed limit parameter; empty means the default.
// Validation errors are *domain.ValidationError; embedding and index errors propagate unchanged.
func (s *Service) Search(ctx context.Context, query, rawLimit string) (Response, error) {
	log := logger.FromContext(ctx)

	req, err := request.New(query, rawLimit)
	if err != nil {
		log.Warn("Search request rejected", zap.Error(err))
		return Response{}, err
	}
	ctx = logger.With(ctx, zap.Int("limit", req.Limit()))
	log = logger.FromContext(ctx)

	start := time.Now()
	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		log.Error("Query embedding failed", zap.Error(err))
		return Response{}, err
	}
	embedDur := time.Since(start)

	candidates, err := s.index.Query(ctx, emb.Embedding, req.Limit())
	if err != nil {
		log.Error("Vector search failed", zap.Error(err))
		return Response{}, err
	}

	if len(candidates) > req.Limit() {
		candidates = candidates[:req.Limit()]
	}

	results := make([]result.Result, 0, len(candidates))
	for i := range candidates {
		results = append(results, toResult(&candidates[i]))
	}

	log.Debug("Search completed",
		zap.Int("count", len(results)),
		zap.Duration("embed_duration", embedDur),
		zap.Duration("total_duration", time.Since(start)),
	)

	return Response{Query: req.Query(), Results: results}, nil
}
