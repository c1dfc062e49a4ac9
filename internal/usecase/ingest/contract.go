package ingest

import (
	"context"

	domingest "github.com/kailas-cloud/rex/internal/domain/ingest"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
)

// Repository appends drafts with deduplication.
type Repository interface {
	BulkInsert(ctx context.Context, drafts []domrex.Draft, key domrex.KeyFunc) (domrex.BulkResult, error)
}

// Source lists review files and streams their contents.
type Source interface {
	Files() ([]string, error)
	Each(ctx context.Context, path string, yield func(r *domingest.Review) bool) error
}
