package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component failed; search still answers naively.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates the component is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store StorePinger
	model Checker
	cache Checker
}

// New creates a Service. model and cache can be nil.
func New(store StorePinger, model, cache Checker) *Service {
	return &Service{store: store, model: model, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	status := Healthy
	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		status = Unhealthy
	} else {
		checks["store"] = CheckOK
	}

	for name, c := range map[string]Checker{"keyword_model": s.model, "keyword_cache": s.cache} {
		switch {
		case c == nil:
			checks[name] = CheckDisabled
		case c.HealthCheck(ctx) != nil:
			checks[name] = CheckError
			if status == Healthy {
				status = Degraded
			}
		default:
			checks[name] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
