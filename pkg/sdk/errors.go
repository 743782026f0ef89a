package docsearch

import "github.com/kailas-cloud/docsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrInvalidLimit       = domain.ErrInvalidLimit
	ErrModelNotReady      = domain.ErrModelNotReady
	ErrEmbeddingFailed    = domain.ErrEmbeddingFailed
	ErrVectorSearchFailed = domain.ErrVectorSearchFailed
)
