package rex

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

// --- KeywordModel mock ---

type mockKeywordModel struct {
	keywords []string
	err      error
	calls    int
}

func (m *mockKeywordModel) ExtractKeywords(_ context.Context, _ string) ([]string, error) {
	m.calls++
	return m.keywords, m.err
}

// --- rexUseCase mock ---

type mockRexUC struct {
	createFn func(ctx context.Context, d domrex.Draft) (domrex.Rex, error)
	getFn    func(ctx context.Context, id string) (domrex.Rex, error)
	listFn   func(ctx context.Context, q listing.Query) (listing.Page[domrex.Rex], error)
	allFn    func(ctx context.Context, userID string, order listing.Order) ([]domrex.Rex, error)
	seedFn   func(ctx context.Context, userID string) (int, error)
}

func (m *mockRexUC) Create(ctx context.Context, d domrex.Draft) (domrex.Rex, error) {
	return m.createFn(ctx, d)
}

func (m *mockRexUC) Get(ctx context.Context, id string) (domrex.Rex, error) {
	return m.getFn(ctx, id)
}

func (m *mockRexUC) List(ctx context.Context, q listing.Query) (listing.Page[domrex.Rex], error) {
	return m.listFn(ctx, q)
}

func (m *mockRexUC) All(ctx context.Context, userID string, order listing.Order) ([]domrex.Rex, error) {
	return m.allFn(ctx, userID, order)
}

func (m *mockRexUC) Seed(ctx context.Context, userID string) (int, error) {
	return m.seedFn(ctx, userID)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	return m.searchFn(ctx, req)
}

// --- ingestUseCase mock ---

type mockIngestUC struct {
	loadFn func(ctx context.Context, opts domingest.Options) (ingestuc.Result, error)
}

func (m *mockIngestUC) Load(ctx context.Context, opts domingest.Options) (ingestuc.Result, error) {
	return m.loadFn(ctx, opts)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
