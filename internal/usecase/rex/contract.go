package rex

import (
	"context"

	"github.com/kailas-cloud/rex/internal/domain/listing"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
)

// Repository persists rex.
type Repository interface {
	Create(ctx context.Context, d domrex.Draft) (domrex.Rex, error)
	Get(ctx context.Context, id string) (domrex.Rex, error)
	List(ctx context.Context, q listing.Query) (listing.Page[domrex.Rex], error)
	All(ctx context.Context, userID string, order listing.Order) ([]domrex.Rex, error)
	BulkInsert(ctx context.Context, drafts []domrex.Draft, key domrex.KeyFunc) (domrex.BulkResult, error)
}

// MetaFetcher resolves product metadata for an Amazon link.
type MetaFetcher interface {
	Fetch(ctx context.Context, url string) (domrex.AmazonMeta, error)
}
