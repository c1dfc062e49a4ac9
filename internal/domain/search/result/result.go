package result

import "github.com/kailas-cloud/rex/internal/domain/rex"

// Result is the outcome of a search: the resolved keywords and the matching rex.
type Result struct {
	query    string
	keywords []string
	items    []rex.Rex
}

// New creates a search result.
func New(query string, keywords []string, items []rex.Rex) Result {
	if keywords == nil {
		keywords = []string{}
	}
	if items == nil {
		items = []rex.Rex{}
	}
	return Result{query: query, keywords: keywords, items: items}
}

// Query returns the raw query as received.
func (r *Result) Query() string { return r.query }

// Keywords returns the keywords used for matching, empty for match-all queries.
func (r *Result) Keywords() []string { return r.keywords }

// Items returns the matching rex in store insertion order.
func (r *Result) Items() []rex.Rex { return r.items }

// Len returns the number of matching rex.
func (r *Result) Len() int { return len(r.items) }
