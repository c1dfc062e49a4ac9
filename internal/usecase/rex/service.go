package rex

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/domain"
	"github.com/kailas-cloud/rex/internal/domain/listing"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/logger"
)

// DefaultMaxLimit caps the page size a caller may request.
const DefaultMaxLimit = 100

// Service implements rex use cases.
type Service struct {
	repo     Repository
	meta     MetaFetcher
	maxLimit int
}

// New creates a rex service. meta may be nil to disable Amazon metadata lookups.
func New(repo Repository, meta MetaFetcher, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return &Service{repo: repo, meta: meta, maxLimit: maxLimit}
}

// Create stores a new rex. Amazon product links are enriched with page metadata when
// a fetcher is configured; enrichment failures never fail the create.
func (s *Service) Create(ctx context.Context, d domrex.Draft) (domrex.Rex, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domrex.Rex{}, err
	}
	s.enrich(ctx, &d)

	rx, err := s.repo.Create(ctx, d)
	if err != nil {
		return domrex.Rex{}, fmt.Errorf("create rex: %w", err)
	}
	return rx, nil
}

func (s *Service) enrich(ctx context.Context, d *domrex.Draft) {
	if s.meta == nil || d.MediaURL == "" || !domrex.IsAmazonURL(d.MediaURL) {
		return
	}
	meta, err := s.meta.Fetch(ctx, d.MediaURL)
	if err != nil {
		logger.FromContext(ctx).Debug("Amazon metadata lookup failed",
			zap.String("url", d.MediaURL), zap.Error(err))
		return
	}
	if meta.IsZero() {
		return
	}
	d.AmazonURL = d.MediaURL
	d.AmazonMeta = &meta
	if strings.TrimSpace(d.Description) == "" && meta.Description != "" {
		d.Description = meta.Description
	}
}

// Get returns a rex by id.
func (s *Service) Get(ctx context.Context, id string) (domrex.Rex, error) {
	rx, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrex.Rex{}, fmt.Errorf("get rex %s: %w", id, err)
	}
	return rx, nil
}

// List returns a page of rex. The limit is clamped to the configured maximum.
func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[domrex.Rex], error) {
	if q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[domrex.Rex]{}, fmt.Errorf("list rex: %w", err)
	}
	return page, nil
}

// All returns every rex of a user, or of everyone when userID is empty.
func (s *Service) All(ctx context.Context, userID string, order listing.Order) ([]domrex.Rex, error) {
	items, err := s.repo.All(ctx, userID, order)
	if err != nil {
		return nil, fmt.Errorf("list rex: %w", err)
	}
	return items, nil
}

// Seed adds the sample rex for userID, skipping titles the user already has.
// It returns how many were added.
func (s *Service) Seed(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.NewValidationError("userId", "is required")
	}
	res, err := s.repo.BulkInsert(ctx, SeedDrafts(userID), domrex.ByUserTitle)
	if err != nil {
		return 0, fmt.Errorf("seed rex: %w", err)
	}
	logger.FromContext(ctx).Info("User seeded",
		zap.String("user_id", userID),
		zap.Int("added", res.Inserted),
		zap.Int("skipped", res.Duplicates),
	)
	return res.Inserted, nil
}
