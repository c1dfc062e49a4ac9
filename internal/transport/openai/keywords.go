package openai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/domain"
	"github.com/kailas-cloud/rex/internal/metrics"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

const promptTemplate = "Extract up to %d short search keywords from the user's question for product recommendations.\n" +
	"Return as a comma-separated list only. If none, return an empty line."

// KeywordModel extracts search keywords through an OpenAI-compatible chat completion API.
type KeywordModel struct {
	client      *openai.Client
	model       string
	maxKeywords int
	provider    string
	logger      *zap.Logger
}

// Config holds the keyword model settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxKeywords int
	Provider    string
	Logger      *zap.Logger
}

// NewKeywordModel creates an OpenAI-compatible keyword model client.
func NewKeywordModel(cfg *Config) *KeywordModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxKeywords := cfg.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = 5
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &KeywordModel{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxKeywords: maxKeywords,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Model returns the configured model name.
func (k *KeywordModel) Model() string { return k.model }

// ExtractKeywords asks the model for a comma-separated keyword list and splits it.
// An empty answer is not an error: it yields no keywords.
func (k *KeywordModel) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	req := openai.ChatCompletionRequest{
		Model: k.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(promptTemplate, k.maxKeywords)},
			{Role: openai.ChatMessageRoleUser, Content: "Question: " + query},
		},
		Temperature: 0,
		MaxTokens:   64,
	}

	start := time.Now()

	resp, err := k.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.KeywordRequestsTotal.WithLabelValues(k.provider, k.model, "error").Inc()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("keyword request: %w", ctx.Err())
		}
		return nil, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.KeywordRequestsTotal.WithLabelValues(k.provider, k.model, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrExternalService)
	}

	metrics.KeywordRequestsTotal.WithLabelValues(k.provider, k.model, "success").Inc()
	metrics.KeywordRequestDuration.WithLabelValues(k.provider, k.model).Observe(duration.Seconds())

	k.logger.Debug("Keyword completion received",
		zap.String("model", k.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return splitKeywords(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (k *KeywordModel) HealthCheck(ctx context.Context) error {
	if _, err := k.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// splitKeywords splits a completion on commas, semicolons and newlines and strips
// list numbering such as "1." or "2)".
func splitKeywords(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = stripNumbering(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stripNumbering(s string) string {
	i := strings.IndexAny(s, ".)")
	if i <= 0 {
		return s
	}
	if _, err := strconv.Atoi(s[:i]); err != nil {
		return s
	}
	return strings.TrimSpace(s[i+1:])
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrExternalService.
func parseAPIError(err error) error {
	wrap := domain.ErrExternalService

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("keyword API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("keyword API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("keyword API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("keyword request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (proxy error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
