package chi

import (
	"context"

	domingest "github.com/kailas-cloud/rex/internal/domain/ingest"
	"github.com/kailas-cloud/rex/internal/domain/listing"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/domain/search/request"
	"github.com/kailas-cloud/rex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/rex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/rex/internal/usecase/ingest"
)

// RexService covers record CRUD and seeding.
type RexService interface {
	Create(ctx context.Context, d domrex.Draft) (domrex.Rex, error)
	Get(ctx context.Context, id string) (domrex.Rex, error)
	List(ctx context.Context, q listing.Query) (listing.Page[domrex.Rex], error)
	All(ctx context.Context, userID string, order listing.Order) ([]domrex.Rex, error)
	Seed(ctx context.Context, userID string) (int, error)
}

// SearchService answers free-text queries.
type SearchService interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// IngestService loads review datasets from the data directory.
type IngestService interface {
	Load(ctx context.Context, opts domingest.Options) (ingestuc.Result, error)
}

// HealthService aggregates component checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
