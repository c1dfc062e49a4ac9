package rex

import (
	"context"

	healthuc "github.com/kailas-cloud/rex/internal/usecase/health"
)

// Aggregate health states.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// Component names reported in HealthStatus.Checks.
const (
	CheckStore        = "store"
	CheckKeywordModel = "keyword_model"
	CheckKeywordCache = "keyword_cache"
)

// HealthStatus is the store and keyword model health. A degraded client still
// serves every operation; searches fall back to the tokenizer.
type HealthStatus struct {
	Status string            // HealthOK, HealthDegraded or HealthError
	Checks map[string]string // component -> "ok", "error" or "disabled"
}

// Serving reports whether the store is usable.
func (h HealthStatus) Serving() bool {
	return h.Status != HealthError
}

// Health checks the store document and, when configured, the keyword model.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
