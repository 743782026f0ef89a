package search

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/candidate"
)

// Index retrieves nearest-neighbor candidates in relevance order.
type Index interface {
	Query(ctx context.Context, vector []float32, limit int) ([]candidate.Candidate, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
