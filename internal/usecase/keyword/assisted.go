package keyword

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/domain/search/mode"
	"github.com/kailas-cloud/rex/internal/metrics"
)

// Defaults for the model-backed path.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxKeywords = 5
)

// Fallback reasons recorded in metrics and logs.
const (
	reasonError       = "error"
	reasonTimeout     = "timeout"
	reasonCircuitOpen = "circuit_open"
	reasonEmpty       = "empty"
)

// BreakerConfig tunes the circuit breaker around the model.
type BreakerConfig struct {
	MinRequests  uint32        // requests in the interval before the breaker may trip
	FailureRatio float64       // trip when failures/requests reaches this
	Interval     time.Duration // closed-state counter reset period
	OpenTimeout  time.Duration // time spent open before probing again
	MaxRequests  uint32        // probes allowed while half-open
}

// AssistedConfig configures an Assisted extractor.
type AssistedConfig struct {
	Provider    string
	Model       string
	Timeout     time.Duration
	MaxKeywords int
	Breaker     BreakerConfig
}

func (c *AssistedConfig) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = DefaultMaxKeywords
	}
	if c.Breaker.MinRequests == 0 {
		c.Breaker.MinRequests = 5
	}
	if c.Breaker.FailureRatio <= 0 {
		c.Breaker.FailureRatio = 0.6
	}
	if c.Breaker.Interval <= 0 {
		c.Breaker.Interval = time.Minute
	}
	if c.Breaker.OpenTimeout <= 0 {
		c.Breaker.OpenTimeout = 30 * time.Second
	}
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 1
	}
}

// Assisted asks a language model for keywords and answers with the naive
// tokenization whenever the model fails, times out, is tripped open, or
// returns nothing usable. Model errors never reach the caller.
type Assisted struct {
	model    Model
	fallback *Naive
	breaker  *gobreaker.CircuitBreaker[[]string]
	cfg      AssistedConfig
	logger   *zap.Logger
}

// NewAssisted wraps model with a timeout, a circuit breaker and the naive fallback.
func NewAssisted(model Model, fallback *Naive, cfg AssistedConfig, logger *zap.Logger) *Assisted {
	cfg.applyDefaults()
	if fallback == nil {
		fallback = NewNaive(DefaultMinTokenLength)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "keyword-model",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.Breaker.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.Breaker.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A caller that went away says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Assisted{
		model:    model,
		fallback: fallback,
		breaker:  gobreaker.NewCircuitBreaker[[]string](settings),
		cfg:      cfg,
		logger:   logger,
	}
}

// Extract returns the model's keywords, or the naive ones on any failure.
func (a *Assisted) Extract(ctx context.Context, query string) ([]string, mode.Mode) {
	start := time.Now()

	raw, err := a.breaker.Execute(func() ([]string, error) {
		callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
		return a.model.ExtractKeywords(callCtx, query)
	})
	if err != nil {
		reason := classify(err)
		metrics.KeywordFallbacksTotal.WithLabelValues(reason).Inc()
		a.logger.Warn("Keyword model failed, using naive extraction",
			zap.String("provider", a.cfg.Provider),
			zap.String("model", a.cfg.Model),
			zap.String("reason", reason),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return a.fallback.Extract(ctx, query)
	}

	keywords := Normalize(raw, a.cfg.MaxKeywords)
	if len(keywords) == 0 {
		metrics.KeywordFallbacksTotal.WithLabelValues(reasonEmpty).Inc()
		a.logger.Debug("Keyword model returned no keywords, using naive extraction",
			zap.String("model", a.cfg.Model),
		)
		return a.fallback.Extract(ctx, query)
	}

	a.logger.Debug("Keyword extraction completed",
		zap.String("provider", a.cfg.Provider),
		zap.String("model", a.cfg.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("keywords", len(keywords)),
	)
	return keywords, mode.Assisted
}

// State reports the breaker state, used by health checks.
func (a *Assisted) State() gobreaker.State {
	return a.breaker.State()
}

// Normalize trims, lowercases and dedupes model output, caps it at max entries
// (max <= 0 means no cap) and drops entries that are empty or quoted noise.
func Normalize(raw []string, maxKeywords int) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, kw := range raw {
		kw = strings.ToLower(strings.Trim(strings.TrimSpace(kw), "\"'`.*-•"))
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
		if maxKeywords > 0 && len(out) == maxKeywords {
			break
		}
	}
	return out
}

func classify(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return reasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	default:
		return reasonError
	}
}
