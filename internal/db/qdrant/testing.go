package qdrant

// NewStoreForTest creates a Store over the provided points API (test-only).
func NewStoreForTest(api pointsAPI) *Store {
	return &Store{api: api}
}
