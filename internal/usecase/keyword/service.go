package keyword

import (
	"context"

	"github.com/kailas-cloud/rex/internal/domain/search/mode"
)

// Service picks the extraction strategy per call.
type Service struct {
	naive    *Naive
	assisted Extractor // nil when no model is configured
}

// NewService creates the selector. A nil assisted extractor means every request is
// served naively, including those asking for the model.
func NewService(naive *Naive, assisted Extractor) *Service {
	if naive == nil {
		naive = NewNaive(DefaultMinTokenLength)
	}
	return &Service{naive: naive, assisted: assisted}
}

// AssistedAvailable reports whether a model is configured.
func (s *Service) AssistedAvailable() bool {
	return s.assisted != nil
}

// Resolve maps the caller's useLLM flag to the mode that will be attempted.
func (s *Service) Resolve(useLLM bool) mode.Mode {
	if useLLM && s.assisted != nil {
		return mode.Assisted
	}
	return mode.Naive
}

// Extract runs the requested mode, downgrading silently when assisted is unavailable.
func (s *Service) Extract(ctx context.Context, query string, requested mode.Mode) ([]string, mode.Mode) {
	if requested == mode.Assisted && s.assisted != nil {
		return s.assisted.Extract(ctx, query)
	}
	return s.naive.Extract(ctx, query)
}
