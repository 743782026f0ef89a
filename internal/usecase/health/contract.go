package health

import "context"

// IndexPinger checks vector index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelState reports embedding model readiness.
type ModelState interface {
	IsReady() bool
	LoadFailed() bool
}
