package rex

import (
	"context"
	"errors"
	"fmt"
	"time"

	domingest "github.com/kailas-cloud/rex/internal/domain/ingest"
	"github.com/kailas-cloud/rex/internal/domain/listing"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/domain/search/request"
)

// Create validates and stores a new rex.
func (c *Client) Create(ctx context.Context, d Draft) (_ Rex, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opCreate, start, err) }()

	rx, err := c.rexSvc.Create(ctx, draftToDomain(&d))
	if err != nil {
		return Rex{}, fmt.Errorf("create: %w", err)
	}
	return rexFromDomain(&rx), nil
}

// Get returns a rex by id.
func (c *Client) Get(ctx context.Context, id string) (_ Rex, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opGet, start, err) }()

	rx, err := c.rexSvc.Get(ctx, id)
	if err != nil {
		return Rex{}, fmt.Errorf("get: %w", err)
	}
	return rexFromDomain(&rx), nil
}

// List returns one page of rex.
func (c *Client) List(ctx context.Context, opts ListOptions) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opList, start, err) }()

	page, err := c.rexSvc.List(ctx, listing.Query{
		UserID: opts.UserID,
		Page:   opts.Page,
		Limit:  opts.Limit,
		Order:  listing.ParseOrder(string(opts.Order)),
	})
	if err != nil {
		return Page{}, fmt.Errorf("list: %w", err)
	}
	return Page{
		Items:   rexListFromDomain(page.Items),
		Page:    page.Page,
		Limit:   page.Limit,
		Total:   page.Total,
		HasMore: page.HasMore,
	}, nil
}

// All returns every rex of userID, or of everyone when userID is empty.
func (c *Client) All(ctx context.Context, userID string, order Order) (_ []Rex, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opAll, start, err) }()

	items, err := c.rexSvc.All(ctx, userID, listing.ParseOrder(string(order)))
	if err != nil {
		return nil, fmt.Errorf("all: %w", err)
	}
	return rexListFromDomain(items), nil
}

// Search matches query against the collection.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, err) }()

	req, err := request.New(query, opts.UserID, opts.UseLLM)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	res, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return SearchResult{
		Query:    res.Query(),
		Keywords: append([]string{}, res.Keywords()...),
		Results:  rexListFromDomain(res.Items()),
	}, nil
}

// Seed adds the sample rex for userID and returns how many were new.
func (c *Client) Seed(ctx context.Context, userID string) (_ int, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSeed, start, err) }()

	n, err := c.rexSvc.Seed(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return n, nil
}

// LoadReviews ingests review exports from the data directory set by WithDataDir.
func (c *Client) LoadReviews(ctx context.Context, opts LoadOptions) (_ LoadResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opLoadReviews, start, err) }()

	if c.ingestSvc == nil {
		return LoadResult{}, errors.New("load reviews: no data directory (use WithDataDir)")
	}
	o := domingest.Options{Categories: opts.Categories, Limit: opts.Limit}
	if opts.FiveStarOnly {
		o.MinRating = domingest.FiveStarOnly
	}
	res, err := c.ingestSvc.Load(ctx, o)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load reviews: %w", err)
	}
	return LoadResult{Added: res.Added, Duplicates: res.Duplicates, Total: res.Total, Files: res.Files}, nil
}

func draftToDomain(d *Draft) domrex.Draft {
	return domrex.Draft{
		UserID:      d.UserID,
		Title:       d.Title,
		Category:    d.Category,
		Description: d.Description,
		MediaURL:    d.MediaURL,
		Tags:        append([]string{}, d.Tags...),
	}
}

func rexFromDomain(rx *domrex.Rex) Rex {
	out := Rex{
		ID:          rx.ID,
		UserID:      rx.UserID,
		Title:       rx.Title,
		Category:    rx.Category,
		Description: rx.Description,
		MediaURL:    rx.MediaURL,
		Tags:        append([]string{}, rx.Tags...),
		AmazonURL:   rx.AmazonURL,
		CreatedAt:   rx.CreatedAt,
	}
	if rx.AmazonMeta != nil {
		out.AmazonMeta = &AmazonMeta{
			Title:       rx.AmazonMeta.Title,
			Image:       rx.AmazonMeta.Image,
			Description: rx.AmazonMeta.Description,
		}
	}
	return out
}

func rexListFromDomain(items []domrex.Rex) []Rex {
	out := make([]Rex, len(items))
	for i := range items {
		out[i] = rexFromDomain(&items[i])
	}
	return out
}
