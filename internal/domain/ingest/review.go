// Package ingest holds the normalized shape of externally sourced product reviews.
package ingest

import "strings"

// DefaultLimit caps how many reviews one ingestion run accepts when the caller sets no limit.
const DefaultLimit = 200

// Review is one already-parsed product review from an external dataset.
type Review struct {
	ASIN         string
	ParentASIN   string
	UserID       string
	Title        string // review headline
	Text         string
	ProductTitle string
	Category     string
	Rating       *float64
	ImageURL     string
}

// ProductID returns the external product identifier used for deduplication.
func (r *Review) ProductID() string {
	if s := strings.TrimSpace(r.ASIN); s != "" {
		return s
	}
	return strings.TrimSpace(r.ParentASIN)
}

// Options filter an ingestion run.
type Options struct {
	Categories []string // case-insensitive allow-list; empty accepts all
	Limit      int      // max reviews accepted; <= 0 means DefaultLimit
	MinRating  float64  // 0 disables; reviews without a rating pass
}

// FiveStarOnly is the quality filter used by the HTTP load endpoint.
const FiveStarOnly = 5.0

// Accepts reports whether r passes the category allow-list and quality filter.
func (o *Options) Accepts(r *Review) bool {
	if len(o.Categories) > 0 {
		ok := false
		for _, c := range o.Categories {
			if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(r.Category)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if o.MinRating > 0 && r.Rating != nil && *r.Rating < o.MinRating {
		return false
	}
	return true
}

// EffectiveLimit returns the configured limit or the default.
func (o *Options) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}
