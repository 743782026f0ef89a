package candidate

import (
	"fmt"
	"strconv"
)

// Candidate is a raw nearest-neighbor hit returned by the vector index.
// Score is an opaque ranking signal: higher is more relevant, no fixed bound.
type Candidate struct {
	id      string
	score   float64
	payload map[string]any
}

// New creates a candidate.
func New(id string, score float64, payload map[string]any) Candidate {
	return Candidate{id: id, score: score, payload: payload}
}

// ID returns the point identifier in the index.
func (c *Candidate) ID() string { return c.id }

// Score returns the relevance score as reported by the index.
func (c *Candidate) Score() float64 { return c.score }

// Payload returns the metadata stored alongside the vector.
func (c *Candidate) Payload() map[string]any { return c.payload }

// Field returns a payload value rendered as text.
// Missing keys, nil values, empty strings and nested values count as absent.
func (c *Candidate) Field(key string) (string, bool) {
	v, ok := c.payload[key]
	if !ok || v == nil {
		return "", false
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case bool:
		s = strconv.FormatBool(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case int:
		s = strconv.Itoa(val)
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []any, map[string]any:
		return "", false
	default:
		s = fmt.Sprint(val)
	}

	if s == "" {
		return "", false
	}
	return s, true
}

// FieldOr returns the payload value for key, or def when absent.
func (c *Candidate) FieldOr(key, def string) string {
	if s, ok := c.Field(key); ok {
		return s
	}
	return def
}
