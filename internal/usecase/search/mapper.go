package search

import (
	"github.com/kailas-cloud/docsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	"github.com/kailas-cloud/docsearch/internal/domain/text"
)

// Payload keys read from index candidates.
const (
	FieldTitle       = "title"
	FieldSubtitle    = "subtitle"
	FieldDescription = "description"
	FieldText        = "text"
	FieldURL         = "url"
	FieldHeading     = "heading"
	FieldSlug        = "slug"
)

// PayloadFields lists every payload key the mapper reads.
var PayloadFields = []string{
	FieldTitle, FieldSubtitle, FieldDescription, FieldText, FieldURL, FieldHeading, FieldSlug,
}

const (
	// UntitledTitle is used when a candidate has no title.
	UntitledTitle = "Untitled"
	// DescriptionMaxLength bounds descriptions derived from the full text.
	DescriptionMaxLength = 200
)

func toResult(c *candidate.Candidate) result.Result {
	return result.New(
		c.FieldOr(FieldTitle, UntitledTitle),
		description(c),
		c.FieldOr(FieldURL, ""),
		c.Score(),
		result.Optional{
			Subtitle: optional(c, FieldSubtitle),
			Heading:  optional(c, FieldHeading),
			Slug:     optional(c, FieldSlug),
		},
	)
}

func description(c *candidate.Candidate) string {
	if d, ok := c.Field(FieldDescription); ok {
		return d
	}
	raw, _ := c.Field(FieldText)
	return text.Truncate(text.Normalize(raw), DescriptionMaxLength)
}

func optional(c *candidate.Candidate, key string) *string {
	if v, ok := c.Field(key); ok {
		return &v
	}
	return nil
}
