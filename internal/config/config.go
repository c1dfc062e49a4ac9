package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the rex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Listing   ListingConfig   `yaml:"listing"`
	Keywords  KeywordsConfig  `yaml:"keywords"`
	Cache     CacheConfig     `yaml:"cache"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StorageConfig holds the durable store location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ListingConfig holds pagination settings.
type ListingConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// KeywordsConfig holds keyword extraction settings.
type KeywordsConfig struct {
	MinTokenLength int       `yaml:"min_token_length"`
	LLM            LLMConfig `yaml:"llm"`
}

// LLMConfig holds the assisted keyword model settings.
// The model is considered configured iff APIKey is non-empty.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	TimeoutSec  int           `yaml:"timeout_sec"`
	MaxKeywords int           `yaml:"max_keywords"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// Configured reports whether an API credential is present.
func (c LLMConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// BreakerConfig holds circuit breaker settings around the model.
type BreakerConfig struct {
	MinRequests    uint32  `yaml:"min_requests"`
	FailureRatio   float64 `yaml:"failure_ratio"`
	IntervalSec    int     `yaml:"interval_sec"`
	OpenTimeoutSec int     `yaml:"open_timeout_sec"`
}

// CacheConfig holds keyword cache settings.
type CacheConfig struct {
	Driver   string   `yaml:"driver"` // none, memory, redis (default: memory)
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	MaxBytes int64    `yaml:"max_bytes"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// IngestConfig holds review dataset settings.
type IngestConfig struct {
	DataDir      string `yaml:"data_dir"`
	DefaultLimit int    `yaml:"default_limit"`
}

// MetadataConfig holds Amazon page metadata lookup settings.
type MetadataConfig struct {
	Enabled    bool `yaml:"enabled"`
	TimeoutSec int  `yaml:"timeout_sec"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig holds the search endpoint rate limit. Zero disables it.
type RateLimitConfig struct {
	SearchPerMinute int `yaml:"search_per_minute"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/rex.json"
	}
	if c.Listing.DefaultPageSize <= 0 {
		c.Listing.DefaultPageSize = 20
	}
	if c.Listing.MaxPageSize <= 0 {
		c.Listing.MaxPageSize = 100
	}
	if c.Keywords.MinTokenLength <= 0 {
		c.Keywords.MinTokenLength = 2
	}
	if c.Keywords.LLM.Provider == "" {
		c.Keywords.LLM.Provider = "openai"
	}
	if c.Keywords.LLM.Model == "" {
		c.Keywords.LLM.Model = "gpt-4o-mini"
	}
	if c.Keywords.LLM.TimeoutSec <= 0 {
		c.Keywords.LLM.TimeoutSec = 10
	}
	if c.Keywords.LLM.MaxKeywords <= 0 {
		c.Keywords.LLM.MaxKeywords = 5
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.MaxBytes <= 0 {
		c.Cache.MaxBytes = 16 << 20
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 60 * 60
	}
	if c.Ingest.DataDir == "" {
		c.Ingest.DataDir = "data"
	}
	if c.Ingest.DefaultLimit <= 0 {
		c.Ingest.DefaultLimit = 200
	}
	if c.Metadata.TimeoutSec <= 0 {
		c.Metadata.TimeoutSec = 12
	}
	c.Auth.APIKeys = nonBlank(c.Auth.APIKeys)
	c.Cache.Addrs = nonBlank(c.Cache.Addrs)
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// nonBlank drops entries left empty by unset ${VAR:-} substitutions.
func nonBlank(in []string) []string {
	out := in[:0]
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case "none", "memory":
	case "redis", "valkey":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"memory\", \"redis\" or \"valkey\", got %q", c.Cache.Driver)
	}
	if r := c.Keywords.LLM.Breaker.FailureRatio; r < 0 || r > 1 {
		return fmt.Errorf("keywords.llm.breaker.failure_ratio must be within [0, 1], got %v", r)
	}
	if c.Listing.DefaultPageSize > c.Listing.MaxPageSize {
		return fmt.Errorf("listing.default_page_size %d exceeds max_page_size %d",
			c.Listing.DefaultPageSize, c.Listing.MaxPageSize)
	}
	if c.RateLimit.SearchPerMinute < 0 {
		return fmt.Errorf("rate_limit.search_per_minute must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
