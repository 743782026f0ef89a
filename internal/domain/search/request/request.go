package request

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Result limit bounds.
const (
	DefaultLimit = 5
	MinLimit     = 1
	MaxLimit     = 20
)

// Client-facing validation messages.
const (
	MsgQueryRequired = `Query parameter "q" is required`
	MsgLimitRange    = "Limit must be between 1 and 20"
)

// Request is a validated search query.
type Request struct {
	query string
	limit int
}

// New validates raw search parameters. rawLimit == "" means the caller omitted
// the limit and DefaultLimit applies. Validation runs before any embedding work.
func New(query, rawLimit string) (Request, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Request{}, domain.NewValidationError(domain.ErrInvalidQuery, MsgQueryRequired)
	}

	limit, err := ParseLimit(rawLimit)
	if err != nil {
		return Request{}, err
	}

	return Request{query: q, limit: limit}, nil
}

// ParseLimit parses a caller-supplied limit. Empty input yields DefaultLimit.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinLimit || n > MaxLimit {
		return 0, domain.NewValidationError(domain.ErrInvalidLimit, MsgLimitRange)
	}
	return n, nil
}

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum number of results to return.
func (r *Request) Limit() int { return r.limit }
