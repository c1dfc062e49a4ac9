package rex

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/db"
	"github.com/kailas-cloud/rex/internal/domain"
	"github.com/kailas-cloud/rex/internal/domain/listing"
	domrex "github.com/kailas-cloud/rex/internal/domain/rex"
	"github.com/kailas-cloud/rex/internal/metrics"
)

// maxIDAttempts bounds id regeneration when the generator collides with a stored id.
const maxIDAttempts = 8

// document is the consumer interface for the durable store file (ISP).
type document interface {
	Ping(ctx context.Context) error
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Backup(ctx context.Context) (string, error)
}

// Repo is the in-memory rex collection mirrored to a single document.
// Writers hold the lock across append and persist, so the document always
// equals the in-memory state once a mutation returns.
type Repo struct {
	doc    document
	logger *zap.Logger
	newID  func() string
	now    func() time.Time

	defaultLimit int

	mu    sync.RWMutex
	items []domrex.Rex
	index map[string]int // id -> position in items
}

// Option configures a Repo.
type Option func(*Repo)

// WithLogger sets the logger used for load and persist diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repo) { r.logger = l }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repo) { r.newID = fn }
}

// WithDefaultLimit sets the page size used when a listing query has none.
func WithDefaultLimit(n int) Option {
	return func(r *Repo) { r.defaultLimit = n }
}

// Open loads the collection from doc. An absent document is initialized empty;
// an unparseable one is backed up and replaced with an empty collection.
func Open(ctx context.Context, doc document, opts ...Option) (*Repo, error) {
	r := &Repo{
		doc:          doc,
		logger:       zap.NewNop(),
		newID:        uuid.NewString,
		now:          time.Now,
		defaultLimit: listing.DefaultLimit,
		index:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loadLocked(ctx); err != nil {
		return nil, err
	}
	metrics.StoreRecords.Set(float64(len(r.items)))
	return r, nil
}

func (r *Repo) loadLocked(ctx context.Context) error {
	raw, err := r.doc.Read(ctx)
	if errors.Is(err, db.ErrNoDocument) {
		r.logger.Info("store document absent, initializing empty collection")
		return r.persistLocked(ctx)
	}
	if err != nil {
		return fmt.Errorf("read store: %w: %w", domain.ErrStorage, err)
	}

	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		backup, berr := r.doc.Backup(ctx)
		if berr != nil {
			return fmt.Errorf("back up corrupt store: %w: %w", domain.ErrStorage, berr)
		}
		r.logger.Warn("store document unreadable, starting with empty collection",
			zap.String("backup", backup), zap.Error(err))
		return r.persistLocked(ctx)
	}

	for i := range recs {
		rx := fromRecord(&recs[i])
		if rx.ID == "" {
			rx.ID = r.newID()
		}
		if _, dup := r.index[rx.ID]; dup {
			r.logger.Warn("skipping stored rex with duplicate id", zap.String("id", rx.ID))
			continue
		}
		r.appendLocked(rx)
	}
	r.logger.Info("store loaded", zap.Int("records", len(r.items)))
	return nil
}

// Create validates the draft, assigns id and timestamp, appends and persists.
func (r *Repo) Create(ctx context.Context, d domrex.Draft) (domrex.Rex, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domrex.Rex{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.uniqueIDLocked()
	if err != nil {
		return domrex.Rex{}, err
	}
	rx, err := domrex.New(d, id, r.now())
	if err != nil {
		return domrex.Rex{}, err
	}

	n := len(r.items)
	r.appendLocked(rx)
	if err := r.persistLocked(ctx); err != nil {
		r.truncateLocked(n)
		return domrex.Rex{}, err
	}
	return rx.Clone(), nil
}

// Get returns the rex with the given id.
func (r *Repo) Get(_ context.Context, id string) (domrex.Rex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domrex.Rex{}, domain.ErrNotFound
	}
	return r.items[i].Clone(), nil
}

// List returns one page of the collection, optionally restricted to a user.
func (r *Repo) List(_ context.Context, q listing.Query) (listing.Page[domrex.Rex], error) {
	q = q.Normalize(r.defaultLimit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := r.selectLocked(q.UserID, q.Order, nil)
	page := listing.Slice(refs, q)
	items := make([]domrex.Rex, len(page.Items))
	for i, ref := range page.Items {
		items[i] = ref.Clone()
	}
	return listing.Page[domrex.Rex]{
		Items:   items,
		Page:    page.Page,
		Limit:   page.Limit,
		Total:   page.Total,
		HasMore: page.HasMore,
	}, nil
}

// All returns every rex of a user (or of everyone when userID is empty).
func (r *Repo) All(_ context.Context, userID string, order listing.Order) ([]domrex.Rex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.selectLocked(userID, order, nil)), nil
}

// Filter returns, in insertion order, copies of the rex accepted by match.
// A nil match accepts everything. match runs under the read lock and must not block.
func (r *Repo) Filter(_ context.Context, userID string, match func(*domrex.Rex) bool) ([]domrex.Rex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.selectLocked(userID, listing.Asc, match)), nil
}

// Count returns the collection size.
func (r *Repo) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// BulkInsert appends every valid draft whose dedup key is not already present in the
// store or earlier in the batch, persisting all accepted records in one write.
func (r *Repo) BulkInsert(ctx context.Context, drafts []domrex.Draft, key domrex.KeyFunc) (domrex.BulkResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(r.items)+len(drafts))
	if key != nil {
		for i := range r.items {
			if k := key(&r.items[i]); k != "" {
				seen[k] = struct{}{}
			}
		}
	}

	var res domrex.BulkResult
	n := len(r.items)
	now := r.now()
	for _, d := range drafts {
		id, err := r.uniqueIDLocked()
		if err != nil {
			r.truncateLocked(n)
			return domrex.BulkResult{}, err
		}
		rx, err := domrex.New(d, id, now)
		if err != nil {
			res.Rejected++
			continue
		}
		if key != nil {
			if k := key(&rx); k != "" {
				if _, dup := seen[k]; dup {
					res.Duplicates++
					continue
				}
				seen[k] = struct{}{}
			}
		}
		r.appendLocked(rx)
		res.Inserted++
	}

	if res.Inserted > 0 {
		if err := r.persistLocked(ctx); err != nil {
			r.truncateLocked(n)
			return domrex.BulkResult{}, err
		}
	}
	res.Total = len(r.items)
	return res, nil
}

// Ping checks the durable store.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.doc.Ping(ctx); err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	return nil
}

// selectLocked returns pointers into r.items; callers clone before releasing the lock.
func (r *Repo) selectLocked(userID string, order listing.Order, match func(*domrex.Rex) bool) []*domrex.Rex {
	out := make([]*domrex.Rex, 0, len(r.items))
	for i := range r.items {
		rx := &r.items[i]
		if userID != "" && rx.UserID != userID {
			continue
		}
		if match != nil && !match(rx) {
			continue
		}
		out = append(out, rx)
	}
	if order == listing.Desc {
		slices.Reverse(out)
	}
	return out
}

func (r *Repo) appendLocked(rx domrex.Rex) {
	r.index[rx.ID] = len(r.items)
	r.items = append(r.items, rx)
}

// truncateLocked rolls the collection back to its first n records.
func (r *Repo) truncateLocked(n int) {
	for i := n; i < len(r.items); i++ {
		delete(r.index, r.items[i].ID)
		r.items[i] = domrex.Rex{}
	}
	r.items = r.items[:n]
}

func (r *Repo) uniqueIDLocked() (string, error) {
	for range maxIDAttempts {
		id := r.newID()
		if _, taken := r.index[id]; id != "" && !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("allocate rex id: %w", domain.ErrStorage)
}

func (r *Repo) persistLocked(ctx context.Context) error {
	start := time.Now()
	recs := make([]record, len(r.items))
	for i := range r.items {
		recs[i] = toRecord(&r.items[i])
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		metrics.StorePersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("encode store: %w: %w", domain.ErrStorage, err)
	}
	if err := r.doc.Write(ctx, data); err != nil {
		metrics.StorePersistTotal.WithLabelValues("error").Inc()
		r.logger.Error("store persist failed", zap.Int("records", len(r.items)), zap.Error(err))
		return fmt.Errorf("persist store: %w: %w", domain.ErrStorage, err)
	}
	metrics.StorePersistTotal.WithLabelValues("ok").Inc()
	metrics.StorePersistDuration.Observe(time.Since(start).Seconds())
	metrics.StoreRecords.Set(float64(len(r.items)))
	return nil
}

func cloneAll(refs []*domrex.Rex) []domrex.Rex {
	out := make([]domrex.Rex, len(refs))
	for i, ref := range refs {
		out[i] = ref.Clone()
	}
	return out
}
