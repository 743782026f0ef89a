package docsearch

import searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"

// SearchResponse is the outcome of one search.
type SearchResponse struct {
	Query   string // trimmed query as validated
	Results []Result
}

// Result is a single presentable hit. Optional fields are nil when absent.
type Result struct {
	Title       string
	Subtitle    *string
	Description string
	URL         string
	Heading     *string
	Slug        *string
	Score       float64
}

func toSearchResponse(r *searchuc.Response) *SearchResponse {
	results := make([]Result, 0, len(r.Results))
	for i := range r.Results {
		res := &r.Results[i]
		results = append(results, Result{
			Title:       res.Title(),
			Subtitle:    res.Subtitle(),
			Description: res.Description(),
			URL:         res.URL(),
			Heading:     res.Heading(),
			Slug:        res.Slug(),
			Score:       res.Score(),
		})
	}
	return &SearchResponse{Query: r.Query, Results: results}
}
