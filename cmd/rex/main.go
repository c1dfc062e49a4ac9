package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/config"
	"github.com/kailas-cloud/rex/internal/db"
	"github.com/kailas-cloud/rex/internal/db/file"
	"github.com/kailas-cloud/rex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/rex/internal/db/redis"
	"github.com/kailas-cloud/rex/internal/domain"
	logpkg "github.com/kailas-cloud/rex/internal/logger"
	"github.com/kailas-cloud/rex/internal/metrics"
	"github.com/kailas-cloud/rex/internal/repository/kwcache"
	"github.com/kailas-cloud/rex/internal/repository/reviews"
	rexrepo "github.com/kailas-cloud/rex/internal/repository/rex"
	"github.com/kailas-cloud/rex/internal/transport/amazon"
	chiTransport "github.com/kailas-cloud/rex/internal/transport/chi"
	openaiKw "github.com/kailas-cloud/rex/internal/transport/openai"
	healthuc "github.com/kailas-cloud/rex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/rex/internal/usecase/ingest"
	"github.com/kailas-cloud/rex/internal/usecase/keyword"
	rexuc "github.com/kailas-cloud/rex/internal/usecase/rex"
	searchuc "github.com/kailas-cloud/rex/internal/usecase/search"
	"github.com/kailas-cloud/rex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting rex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_path", cfg.Storage.Path),
		zap.Bool("llm_configured", cfg.Keywords.LLM.Configured()),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register rex metrics explicitly (no init())
	metrics.RegisterRexMetrics()

	ctx := context.Background()

	doc, err := file.New(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to open store document", zap.Error(err))
	}
	repo, err := rexrepo.Open(ctx, doc,
		rexrepo.WithLogger(logger),
		rexrepo.WithDefaultLimit(cfg.Listing.DefaultPageSize),
	)
	if err != nil {
		logger.Fatal("Failed to load store", zap.Error(err))
	}
	logger.Info("Store ready", zap.Int("records", repo.Count(ctx)))

	cache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create keyword cache", zap.Error(err))
	}
	if cache != nil {
		defer cache.Close()
	}

	// Keyword extraction chain: OpenAI -> Cached -> Assisted (breaker + naive fallback)
	naive := keyword.NewNaive(cfg.Keywords.MinTokenLength)
	var (
		assisted     keyword.Extractor
		modelChecker healthuc.Checker
	)
	if cfg.Keywords.LLM.Configured() {
		model := buildKeywordModel(cfg.Keywords.LLM, cache, time.Duration(cfg.Cache.TTLSec)*time.Second, logger)
		assisted = keyword.NewAssisted(model, naive, keyword.AssistedConfig{
			Provider:    cfg.Keywords.LLM.Provider,
			Model:       cfg.Keywords.LLM.Model,
			Timeout:     time.Duration(cfg.Keywords.LLM.TimeoutSec) * time.Second,
			MaxKeywords: cfg.Keywords.LLM.MaxKeywords,
			Breaker: keyword.BreakerConfig{
				MinRequests:  cfg.Keywords.LLM.Breaker.MinRequests,
				FailureRatio: cfg.Keywords.LLM.Breaker.FailureRatio,
				Interval:     time.Duration(cfg.Keywords.LLM.Breaker.IntervalSec) * time.Second,
				OpenTimeout:  time.Duration(cfg.Keywords.LLM.Breaker.OpenTimeoutSec) * time.Second,
			},
		}, logger)
		if hc, ok := model.(domain.HealthChecker); ok {
			modelChecker = hc
		}
		logger.Info("Keyword model configured",
			zap.String("provider", cfg.Keywords.LLM.Provider),
			zap.String("model", cfg.Keywords.LLM.Model),
		)
	} else {
		logger.Info("No keyword model configured, search uses naive extraction")
	}
	keywords := keyword.NewService(naive, assisted)

	// Pass nil interface (not typed nil pointer!) when metadata lookups are disabled.
	var fetcher rexuc.MetaFetcher
	if cfg.Metadata.Enabled {
		fetcher = amazon.NewFetcher(nil, time.Duration(cfg.Metadata.TimeoutSec)*time.Second)
	}

	rexSvc := rexuc.New(repo, fetcher, cfg.Listing.MaxPageSize)
	searchSvc := searchuc.New(repo, keywords)
	ingestSvc := ingestuc.New(repo, reviews.NewSource(cfg.Ingest.DataDir),
		ingestuc.WithDefaultLimit(cfg.Ingest.DefaultLimit),
	)

	var cacheChecker healthuc.Checker
	if cache != nil {
		cacheChecker = pingChecker{cache}
	}
	healthSvc := healthuc.New(repo, modelChecker, cacheChecker)

	server := chiTransport.NewServer(rexSvc, searchSvc, ingestSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:         cfg.Auth.APIKeys,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		SearchPerMinute: cfg.RateLimit.SearchPerMinute,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCache returns the keyword cache backend, or nil for driver "none".
func buildCache(ctx context.Context, cfg config.CacheConfig) (db.Cache, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "memory":
		c, err := memory.New(cfg.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("memory cache: %w", err)
		}
		return c, nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if err := s.WaitForReady(ctx, 10*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// buildKeywordModel assembles the decorator chain: OpenAI -> Cached.
func buildKeywordModel(
	llm config.LLMConfig,
	cache db.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) domain.KeywordModel {
	base := openaiKw.NewKeywordModel(&openaiKw.Config{
		APIKey:      llm.APIKey,
		BaseURL:     llm.BaseURL,
		Model:       llm.Model,
		MaxKeywords: llm.MaxKeywords,
		Provider:    llm.Provider,
		Logger:      logger,
	})
	if cache == nil {
		return base
	}
	return kwcache.New(base, cache, llm.Model, ttl, metrics.KeywordCacheTotal, logger)
}

// pingChecker adapts a cache backend to health.Checker.
type pingChecker struct {
	p db.Pinger
}

func (c pingChecker) HealthCheck(ctx context.Context) error {
	if err := c.p.Ping(ctx); err != nil {
		return fmt.Errorf("keyword cache health check: %w", err)
	}
	return nil
}
