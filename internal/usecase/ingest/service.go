package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	domingest "github.com/kailas-cloud/rex/internal/domain/ingest"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/logger"
	"github.com/kailas-cloud/rex/internal/metrics"
)

// Fallbacks for reviews missing an author or headline.
const (
	DefaultUserID = "amazon-user"
	DefaultTitle  = "Amazon Review"
)

// Result summarizes an ingestion run.
type Result struct {
	Added      int
	Duplicates int
	Filtered   int
	Rejected   int
	Total      int
	Files      []string
}

// Service maps external product reviews into rex.
type Service struct {
	repo         Repository
	source       Source
	defaultLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultLimit sets the review cap used when a request carries none.
func WithDefaultLimit(n int) Option {
	return func(s *Service) { s.defaultLimit = n }
}

// New creates an ingestion service. source may be nil when only Ingest is used.
func New(repo Repository, source Source, opts ...Option) *Service {
	s := &Service{repo: repo, source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest filters reviews by opts, maps them to drafts and bulk-inserts them keyed by
// product, so re-running with overlapping input never duplicates a product.
// The limit counts accepted candidates before dedup, not inserted records.
func (s *Service) Ingest(ctx context.Context, reviews []domingest.Review, opts domingest.Options) (Result, error) {
	var drafts []domrex.Draft
	filtered := 0
	limit := s.limit(&opts)
	for i := range reviews {
		if len(drafts) == limit {
			break
		}
		if !opts.Accepts(&reviews[i]) {
			filtered++
			continue
		}
		drafts = append(drafts, ToDraft(&reviews[i]))
	}
	return s.insert(ctx, drafts, filtered, nil)
}

// Load reads the review files of the source and ingests them. Reading stops as soon
// as opts' limit of accepted reviews is reached; reviews already stored still count.
func (s *Service) Load(ctx context.Context, opts domingest.Options) (Result, error) {
	if s.source == nil {
		return Result{}, fmt.Errorf("no review source configured")
	}
	files, err := s.source.Files()
	if err != nil {
		return Result{}, fmt.Errorf("list review files: %w", err)
	}

	limit := s.limit(&opts)
	var drafts []domrex.Draft
	filtered := 0
	names := make([]string, 0, len(files))
	for _, path := range files {
		if len(drafts) >= limit {
			break
		}
		names = append(names, filepath.Base(path))
		err := s.source.Each(ctx, path, func(r *domingest.Review) bool {
			if !opts.Accepts(r) {
				filtered++
				return true
			}
			drafts = append(drafts, ToDraft(r))
			return len(drafts) < limit
		})
		if err != nil {
			return Result{}, fmt.Errorf("read reviews: %w", err)
		}
	}

	logger.FromContext(ctx).Info("Review files read",
		zap.Strings("files", names),
		zap.Int("accepted", len(drafts)),
		zap.Int("filtered", filtered),
	)
	return s.insert(ctx, drafts, filtered, names)
}

func (s *Service) insert(ctx context.Context, drafts []domrex.Draft, filtered int, files []string) (Result, error) {
	res, err := s.repo.BulkInsert(ctx, drafts, domrex.ByReview)
	if err != nil {
		return Result{}, fmt.Errorf("bulk insert: %w", err)
	}

	metrics.IngestRecordsTotal.WithLabelValues("inserted").Add(float64(res.Inserted))
	metrics.IngestRecordsTotal.WithLabelValues("duplicate").Add(float64(res.Duplicates))
	metrics.IngestRecordsTotal.WithLabelValues("filtered").Add(float64(filtered))
	metrics.IngestRecordsTotal.WithLabelValues("rejected").Add(float64(res.Rejected))

	if files == nil {
		files = []string{}
	}
	return Result{
		Added:      res.Inserted,
		Duplicates: res.Duplicates,
		Filtered:   filtered,
		Rejected:   res.Rejected,
		Total:      res.Total,
		Files:      files,
	}, nil
}

// ToDraft maps a review into the rex shape. The product link doubles as media URL.
func ToDraft(r *domingest.Review) domrex.Draft {
	userID := strings.TrimSpace(r.UserID)
	if userID == "" {
		userID = DefaultUserID
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = DefaultTitle
	}
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = domrex.DefaultCategory
	}
	link := domrex.AmazonProductURL(r.ProductID())

	d := domrex.Draft{
		UserID:      userID,
		Title:       title,
		Category:    category,
		Description: strings.TrimSpace(r.Text),
		MediaURL:    link,
		Tags:        []string{},
		AmazonURL:   link,
	}
	meta := &domrex.AmazonMeta{Title: strings.TrimSpace(r.ProductTitle), Image: r.ImageURL}
	if !meta.IsZero() {
		d.AmazonMeta = meta
	}
	return d
}

func (s *Service) limit(opts *domingest.Options) int {
	if opts.Limit <= 0 && s.defaultLimit > 0 {
		return s.defaultLimit
	}
	return opts.EffectiveLimit()
}
