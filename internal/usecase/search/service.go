package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/domain/search/request"
	"github.com/kailas-cloud/rex/internal/domain/search/result"
	"github.com/kailas-cloud/rex/internal/logger"
	"github.com/kailas-cloud/rex/internal/metrics"
)

const matchAllLabel = "match_all"

// Service matches free-text queries against the rex collection.
type Service struct {
	repo     Repository
	keywords KeywordExtractor
}

// New creates a search service.
func New(repo Repository, keywords KeywordExtractor) *Service {
	return &Service{repo: repo, keywords: keywords}
}

// Search returns every rex containing at least one keyword in its title, category,
// description or tags, in store order. A blank query returns everything with no
// keywords. When extraction finds nothing, the lowercased query is the only keyword.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	if req.MatchAll() {
		items, err := s.repo.Filter(ctx, req.UserID(), nil)
		if err != nil {
			return result.Result{}, fmt.Errorf("list rex: %w", err)
		}
		metrics.SearchRequestsTotal.WithLabelValues(matchAllLabel).Inc()
		return result.New(req.Query(), []string{}, items), nil
	}

	keywords, used := s.keywords.Extract(ctx, req.Query(), req.Mode())
	if len(keywords) == 0 {
		keywords = []string{strings.ToLower(req.Query())}
	}

	items, err := s.repo.Filter(ctx, req.UserID(), func(rx *domrex.Rex) bool {
		return Matches(rx, keywords)
	})
	if err != nil {
		return result.Result{}, fmt.Errorf("filter rex: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(used)).Inc()
	logger.FromContext(ctx).Debug("Search completed",
		zap.String("requested_mode", string(req.Mode())),
		zap.String("mode", string(used)),
		zap.Strings("keywords", keywords),
		zap.Int("results", len(items)),
	)

	return result.New(req.Query(), keywords, items), nil
}

// Matches reports whether any keyword is a case-insensitive substring of the
// title, category, description or any tag. keywords must be lowercase.
func Matches(rx *domrex.Rex, keywords []string) bool {
	if containsAny(rx.Title, keywords) || containsAny(rx.Category, keywords) ||
		containsAny(rx.Description, keywords) {
		return true
	}
	for _, tag := range rx.Tags {
		if containsAny(tag, keywords) {
			return true
		}
	}
	return false
}

func containsAny(field string, keywords []string) bool {
	if field == "" {
		return false
	}
	field = strings.ToLower(field)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(field, kw) {
			return true
		}
	}
	return false
}
