package db

import "context"

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher provides nearest-neighbor search over a vector index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
