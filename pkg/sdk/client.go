package rex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/rex/internal/db/file"
	"github.com/kailas-cloud/rex/internal/domain"
	domingest "github.com/kailas-cloud/rex/internal/domain/ingest"
	"github.com/kailas-cloud/rex/internal/domain/listing"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/domain/search/request"
	"github.com/kailas-cloud/rex/internal/domain/search/result"
	"github.com/kailas-cloud/rex/internal/repository/reviews"
	rexrepo "github.com/kailas-cloud/rex/internal/repository/rex"
	"github.com/kailas-cloud/rex/internal/transport/amazon"
	healthuc "github.com/kailas-cloud/rex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/rex/internal/usecase/ingest"
	"github.com/kailas-cloud/rex/internal/usecase/keyword"
	rexuc "github.com/kailas-cloud/rex/internal/usecase/rex"
	searchuc "github.com/kailas-cloud/rex/internal/usecase/search"
)

// Internal interfaces, swapped for mocks in tests.
type rexUseCase interface {
	Create(ctx context.Context, d domrex.Draft) (domrex.Rex, error)
	Get(ctx context.Context, id string) (domrex.Rex, error)
	List(ctx context.Context, q listing.Query) (listing.Page[domrex.Rex], error)
	All(ctx context.Context, userID string, order listing.Order) ([]domrex.Rex, error)
	Seed(ctx context.Context, userID string) (int, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

type ingestUseCase interface {
	Load(ctx context.Context, opts domingest.Options) (ingestuc.Result, error)
}

// Client is the rex SDK entry point.
type Client struct {
	store     *rexrepo.Repo
	rexSvc    rexUseCase
	searchSvc searchUseCase
	ingestSvc ingestUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New opens the store document and wires the search engine.
// The provided context is used for the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.storePath == "" {
		return nil, errors.New("rex: store path required (use WithStorePath)")
	}

	doc, err := file.New(cfg.storePath)
	if err != nil {
		return nil, fmt.Errorf("rex: open store: %w", err)
	}
	store, err := rexrepo.Open(ctx, doc, rexrepo.WithDefaultLimit(cfg.defaultLimit))
	if err != nil {
		return nil, fmt.Errorf("rex: load store: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store *rexrepo.Repo, cfg *clientConfig, obs *observer) *Client {
	naive := keyword.NewNaive(cfg.minTokenLength)

	// Pass nil interface (not typed nil pointer!) when no model is configured.
	var assisted keyword.Extractor
	var modelChecker healthuc.Checker
	if cfg.model != nil {
		assisted = keyword.NewAssisted(cfg.model, naive, keyword.AssistedConfig{
			Provider:    "sdk",
			Model:       cfg.modelName,
			Timeout:     cfg.modelTimeout,
			MaxKeywords: cfg.maxKeywords,
		}, nil)
		if hc, ok := cfg.model.(domain.HealthChecker); ok {
			modelChecker = hc
		}
	}

	var fetcher rexuc.MetaFetcher
	if cfg.metadata {
		fetcher = amazon.NewFetcher(nil, cfg.metadataTimeout)
	}

	var ingestSvc ingestUseCase
	if cfg.dataDir != "" {
		ingestSvc = ingestuc.New(store, reviews.NewSource(cfg.dataDir))
	}

	return &Client{
		store:     store,
		rexSvc:    rexuc.New(store, fetcher, cfg.maxLimit),
		searchSvc: searchuc.New(store, keyword.NewService(naive, assisted)),
		ingestSvc: ingestSvc,
		healthSvc: healthuc.New(store, modelChecker, nil),
		obs:       obs,
	}
}

// Ping checks that the store document is reachable.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
