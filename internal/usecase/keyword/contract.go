package keyword

import (
	"context"

	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

// Model returns raw keyword candidates for a query from an external language model.
type Model interface {
	ExtractKeywords(ctx context.Context, query string) ([]string, error)
}

// Extractor turns a free-text query into an ordered, deduplicated set of lowercase
// keywords. The returned mode names the strategy that actually produced them.
type Extractor interface {
	Extract(ctx context.Context, query string) ([]string, mode.Mode)
}
