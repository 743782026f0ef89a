package result

// Result is a single presentable search hit.
type Result struct {
	title       string
	subtitle    *string
	description string
	url         string
	heading     *string
	slug        *string
	score       float64
}

// Optional holds the fields that may be absent from a result.
type Optional struct {
	Subtitle *string
	Heading  *string
	Slug     *string
}

// New creates a search result.
func New(title, description, url string, score float64, opt Optional) Result {
	return Result{
		title:       title,
		subtitle:    opt.Subtitle,
		description: description,
		url:         url,
		heading:     opt.Heading,
		slug:        opt.Slug,
		score:       score,
	}
}

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// Subtitle returns the subtitle, nil when absent.
func (r *Result) Subtitle() *string { return r.subtitle }

// Description returns the summary or derived excerpt.
func (r *Result) Description() string { return r.description }

// URL returns the document link.
func (r *Result) URL() string { return r.url }

// Heading returns the section heading, nil when absent.
func (r *Result) Heading() *string { return r.heading }

// Slug returns the section slug, nil when absent.
func (r *Result) Slug() *string { return r.slug }

// Score returns the relevance score, unchanged from the index.
func (r *Result) Score() float64 { return r.score }
