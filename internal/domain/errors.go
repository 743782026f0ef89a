package domain

import (
	"errors"
)

var (
	// ErrInvalidQuery signals a missing or blank search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidLimit signals a non-numeric or out-of-range result limit.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrModelNotReady signals that the embedding model has not finished loading.
	ErrModelNotReady = errors.New("embedding model not ready")
	// ErrModelAlreadyLoaded signals a second load attempt on the model lifecycle.
	ErrModelAlreadyLoaded = errors.New("embedding model already loaded")
	// ErrEmbeddingFailed signals a failure of the underlying embedding call.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrVectorSearchFailed signals a failure of the vector index query.
	ErrVectorSearchFailed = errors.New("vector search failed")
)

// ValidationError carries a client-facing message for a rejected request.
// It unwraps to ErrInvalidQuery or ErrInvalidLimit.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a validation error for the given sentinel.
func NewValidationError(sentinel error, message string) error {
	return &ValidationError{Err: sentinel, Message: message}
}

// IsValidation reports whether err is a caller error (invalid query or limit).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuery) || errors.Is(err, ErrInvalidLimit)
}
