package domain

import "context"

// KeywordModel extracts search keywords from a free-text query with a language model.
type KeywordModel interface {
	ExtractKeywords(ctx context.Context, query string) ([]string, error)
}

// HealthChecker verifies external dependency availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// KeyPrefix namespaces keys written to shared key-value stores.
const KeyPrefix = "rex:"
