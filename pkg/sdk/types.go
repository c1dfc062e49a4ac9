package rex

import (
	"context"
	"time"
)

// KeywordModel turns a free-text query into search keywords.
// Errors and empty answers make the search fall back to the tokenizer.
type KeywordModel interface {
	ExtractKeywords(ctx context.Context, query string) ([]string, error)
}

// Order is the listing direction over insertion order.
type Order string

// Order constants.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// AmazonMeta holds product metadata resolved from an Amazon listing.
type AmazonMeta struct {
	Title       string
	Image       string
	Description string
}

// Rex is a stored recommendation.
type Rex struct {
	ID          string
	UserID      string
	Title       string
	Category    string
	Description string
	MediaURL    string
	Tags        []string
	AmazonURL   string
	AmazonMeta  *AmazonMeta
	CreatedAt   time.Time
}

// Draft is a rex to create. UserID, Title and Category are required.
type Draft struct {
	UserID      string
	Title       string
	Category    string
	Description string
	MediaURL    string
	Tags        []string
}

// ListOptions selects a page of rex. Zero Page and Limit use the defaults.
type ListOptions struct {
	UserID string
	Page   int
	Limit  int
	Order  Order
}

// Page is one slice of a listing.
type Page struct {
	Items   []Rex
	Page    int
	Limit   int
	Total   int
	HasMore bool
}

// SearchOptions narrows a search. UseLLM asks for model-assisted keywords.
type SearchOptions struct {
	UserID string
	UseLLM bool
}

// SearchResult carries the keywords used and the matches in insertion order.
type SearchResult struct {
	Query    string
	Keywords []string
	Results  []Rex
}

// LoadOptions filters a review dataset load.
type LoadOptions struct {
	Categories   []string
	Limit        int // 0 uses the default of 200
	FiveStarOnly bool
}

// LoadResult summarizes a review dataset load.
type LoadResult struct {
	Added      int
	Duplicates int
	Total      int
	Files      []string
}
