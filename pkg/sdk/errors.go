package rex

import "github.com/kailas-cloud/rex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation   = domain.ErrValidation
	ErrNotFound     = domain.ErrNotFound
	ErrStorage      = domain.ErrStorage
	ErrNoSourceData = domain.ErrNoSourceData
)

// ValidationError names the field that made a draft invalid.
type ValidationError = domain.ValidationError
