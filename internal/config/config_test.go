package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_CacheDriver(t *testing.T) {
	tests := []struct {
		driver  string
		addrs   []string
		wantErr string
	}{
		{driver: "none"},
		{driver: "memory"},
		{driver: "redis", addrs: []string{"localhost:6379"}},
		{driver: "valkey", wantErr: "cache.addrs is required"},
		{driver: "memcached", wantErr: "cache.driver must be"},
	}
	for _, tc := range tests {
		t.Run(tc.driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cache.Driver = tc.driver
			cfg.Cache.Addrs = tc.addrs

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidate_FailureRatio(t *testing.T) {
	cfg := validConfig()
	cfg.Keywords.LLM.Breaker.FailureRatio = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for failure ratio above 1")
	}
}

func TestValidate_PageSizes(t *testing.T) {
	cfg := validConfig()
	cfg.Listing.DefaultPageSize = 500

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Storage.Path != "data/rex.json" {
		t.Errorf("expected Storage.Path='data/rex.json', got %q", cfg.Storage.Path)
	}
	if cfg.Listing.DefaultPageSize != 20 || cfg.Listing.MaxPageSize != 100 {
		t.Errorf("unexpected listing defaults %+v", cfg.Listing)
	}
	if cfg.Keywords.MinTokenLength != 2 {
		t.Errorf("expected MinTokenLength=2, got %d", cfg.Keywords.MinTokenLength)
	}
	if cfg.Keywords.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected default model, got %q", cfg.Keywords.LLM.Model)
	}
	if cfg.Keywords.LLM.TimeoutSec != 10 {
		t.Errorf("expected TimeoutSec=10, got %d", cfg.Keywords.LLM.TimeoutSec)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("expected cache driver memory, got %q", cfg.Cache.Driver)
	}
	if cfg.Ingest.DefaultLimit != 200 {
		t.Errorf("expected ingest DefaultLimit=200, got %d", cfg.Ingest.DefaultLimit)
	}
	if cfg.Metadata.TimeoutSec != 12 {
		t.Errorf("expected metadata TimeoutSec=12, got %d", cfg.Metadata.TimeoutSec)
	}
	if cfg.Keywords.LLM.Configured() {
		t.Error("expected LLM unconfigured without an api key")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Storage:  StorageConfig{Path: "/var/lib/rex/rex.json"},
		Keywords: KeywordsConfig{MinTokenLength: 3, LLM: LLMConfig{Model: "llama3", APIKey: "k"}},
		Cache:    CacheConfig{Driver: "none"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Storage.Path != "/var/lib/rex/rex.json" {
		t.Errorf("expected custom path, got %q", cfg.Storage.Path)
	}
	if cfg.Keywords.MinTokenLength != 3 || cfg.Keywords.LLM.Model != "llama3" {
		t.Errorf("unexpected keywords %+v", cfg.Keywords)
	}
	if cfg.Cache.Driver != "none" {
		t.Errorf("expected cache driver none, got %q", cfg.Cache.Driver)
	}
	if !cfg.Keywords.LLM.Configured() {
		t.Error("expected LLM configured with an api key")
	}
}

func TestApplyDefaults_DropsBlankKeys(t *testing.T) {
	cfg := Config{Auth: AuthConfig{APIKeys: []string{"", " secret "}}}
	cfg.ApplyDefaults()

	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "secret" {
		t.Errorf("expected only the non-blank key, got %q", cfg.Auth.APIKeys)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REX_TEST_SET", "value")

	tests := []struct {
		in, want string
	}{
		{"a: ${REX_TEST_SET}", "a: value"},
		{"a: ${REX_TEST_UNSET:-fallback}", "a: fallback"},
		{"a: ${REX_TEST_SET:-fallback}", "a: value"},
		{"a: ${REX_TEST_UNSET}", "a: "},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8181 {
		t.Errorf("expected port from env, got %d", cfg.HTTP.Port)
	}
	if cfg.Keywords.LLM.Configured() {
		t.Error("expected LLM unconfigured when OPENAI_API_KEY is empty")
	}
	if cfg.Keywords.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected default model, got %q", cfg.Keywords.LLM.Model)
	}
}

func TestLoad_UnknownEnv(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
