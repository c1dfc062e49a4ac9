package rex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	storePath string
	dataDir   string

	model          KeywordModel
	modelName      string
	modelTimeout   time.Duration
	maxKeywords    int
	minTokenLength int

	metadata        bool
	metadataTimeout time.Duration

	defaultLimit int
	maxLimit     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithStorePath sets the JSON document holding the collection. Required.
func WithStorePath(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.storePath = path
	})
}

// WithDataDir sets the directory scanned by LoadReviews.
func WithDataDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dataDir = dir
	})
}

// WithKeywordModel enables model-assisted keyword extraction.
// name labels the model in logs and metrics.
func WithKeywordModel(m KeywordModel, name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = m
		c.modelName = name
	})
}

// WithKeywordTimeout bounds each model call. Default: 10s.
func WithKeywordTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelTimeout = d
	})
}

// WithMaxKeywords caps how many model keywords a search uses. Default: 5.
func WithMaxKeywords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxKeywords = n
	})
}

// WithMinTokenLength sets the shortest token the tokenizer keeps. Default: 2.
func WithMinTokenLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minTokenLength = n
	})
}

// WithAmazonMetadata fetches product page metadata for Amazon media links on create.
// A zero timeout uses the default of 12s.
func WithAmazonMetadata(timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.metadata = true
		c.metadataTimeout = timeout
	})
}

// WithPageLimits sets the default and maximum page size of List.
// Defaults: 20 and 100.
func WithPageLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
