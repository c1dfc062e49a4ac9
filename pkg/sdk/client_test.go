package rex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/rex/internal/domain"
)

func TestNew_NoStorePath(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no store path provided")
	}
}

func TestNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rex.json")

	c, err := New(ctx, WithStorePath(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	created, err := c.Create(ctx, Draft{UserID: "u1", Title: "Joe's Diner", Category: "Restaurant", Tags: []string{"italian"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := c.Create(ctx, Draft{UserID: "u1", Title: "Yoga Mat", Category: "Fitness"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := c.Search(ctx, "Italian food", SearchOptions{UseLLM: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].ID != created.ID {
		t.Errorf("expected Joe's Diner only, got %+v", res.Results)
	}

	// A second client over the same file sees the persisted state.
	reopened, err := New(ctx, WithStorePath(path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Title != "Joe's Diner" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("unexpected record after reopen %+v", got)
	}

	if h := reopened.Health(ctx); h.Status != HealthOK || !h.Serving() || h.Checks[CheckKeywordModel] != "disabled" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestNew_Validation(t *testing.T) {
	c, err := New(context.Background(), WithStorePath(filepath.Join(t.TempDir(), "rex.json")))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Create(context.Background(), Draft{UserID: "u1", Category: "c"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestNew_KeywordModel(t *testing.T) {
	ctx := context.Background()
	model := &mockKeywordModel{keywords: []string{"Audio"}}
	c, err := New(ctx,
		WithStorePath(filepath.Join(t.TempDir(), "rex.json")),
		WithKeywordModel(model, "test-model"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Seed(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	res, err := c.Search(ctx, "something to listen to music", SearchOptions{UseLLM: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Keywords) != 1 || res.Keywords[0] != "audio" {
		t.Errorf("expected model keywords, got %v", res.Keywords)
	}
	if len(res.Results) != 1 || res.Results[0].Title != "Noise-Canceling Headphones" {
		t.Errorf("unexpected results %+v", res.Results)
	}

	if _, err := c.Search(ctx, "coffee", SearchOptions{UseLLM: false}); err != nil {
		t.Fatal(err)
	}
	if model.calls != 1 {
		t.Errorf("expected the model to be skipped without UseLLM, got %d calls", model.calls)
	}
}

func TestLoadReviews_NoDataDir(t *testing.T) {
	c, err := New(context.Background(), WithStorePath(filepath.Join(t.TempDir(), "rex.json")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoadReviews(context.Background(), LoadOptions{}); err == nil {
		t.Fatal("expected error without a data directory")
	}
}

func TestLoadReviews_EmptyDataDir(t *testing.T) {
	dir := t.TempDir()
	c, err := New(context.Background(), WithStorePath(filepath.Join(dir, "rex.json")), WithDataDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.LoadReviews(context.Background(), LoadOptions{FiveStarOnly: true})
	if !errors.Is(err, ErrNoSourceData) {
		t.Fatalf("expected ErrNoSourceData, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithStorePath("/tmp/rex.json").apply(cfg)
	if cfg.storePath != "/tmp/rex.json" {
		t.Errorf("storePath = %q, want /tmp/rex.json", cfg.storePath)
	}

	WithDataDir("/data").apply(cfg)
	if cfg.dataDir != "/data" {
		t.Errorf("dataDir = %q, want /data", cfg.dataDir)
	}

	WithKeywordTimeout(3 * time.Second).apply(cfg)
	WithMaxKeywords(7).apply(cfg)
	WithMinTokenLength(3).apply(cfg)
	if cfg.modelTimeout != 3*time.Second || cfg.maxKeywords != 7 || cfg.minTokenLength != 3 {
		t.Errorf("unexpected keyword options %+v", cfg)
	}

	WithAmazonMetadata(0).apply(cfg)
	if !cfg.metadata {
		t.Error("expected metadata lookups enabled")
	}

	WithPageLimits(10, 50).apply(cfg)
	if cfg.defaultLimit != 10 || cfg.maxLimit != 50 {
		t.Errorf("limits = (%d, %d), want (10, 50)", cfg.defaultLimit, cfg.maxLimit)
	}

	cfg2 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg2)
	if cfg2.logger != logger {
		t.Error("expected logger to be set")
	}

	cfg3 := &clientConfig{}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg3)
	if cfg3.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	// nil observer should not panic.
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe(opGet, time.Now().Add(-10*time.Millisecond), nil)
	obs.observe(opGet, time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "rex_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("rex_sdk_operations_total not found")
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatal(err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("expected second observer to reuse collectors, got %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}

func TestObserver_StatusByError(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatal(err)
	}

	obs.observe(opCreate, time.Now(), domain.NewValidationError("title", "is required"))
	obs.observe(opGet, time.Now(), fmt.Errorf("get: %w", domain.ErrNotFound))
	obs.observe(opLoadReviews, time.Now(), domain.ErrNoSourceData)
	obs.observe(opSearch, time.Now(), domain.ErrStorage)

	tests := []struct{ op, status string }{
		{opCreate, statusInvalid},
		{opGet, statusNotFound},
		{opLoadReviews, statusNoSource},
		{opSearch, statusError},
	}
	for _, tc := range tests {
		if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues(tc.op, tc.status)); got != 1 {
			t.Errorf("%s/%s = %v, want 1", tc.op, tc.status, got)
		}
	}
}

func TestList_HugePage(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, WithStorePath(filepath.Join(t.TempDir(), "rex.json")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Seed(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	page, err := c.List(ctx, ListOptions{Page: math.MaxInt, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 0 || page.HasMore || page.Total != 10 {
		t.Errorf("expected an empty last page over 10 records, got %+v", page)
	}
}
