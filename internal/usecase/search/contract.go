package search

import (
	"context"

	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

// Repository reads the rex collection in insertion order.
type Repository interface {
	Filter(ctx context.Context, userID string, match func(*domrex.Rex) bool) ([]domrex.Rex, error)
}

// KeywordExtractor turns a query into keywords using the requested mode, degrading as needed.
type KeywordExtractor interface {
	Extract(ctx context.Context, query string, requested mode.Mode) ([]string, mode.Mode)
}
