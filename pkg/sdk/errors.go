package predict

import "github.com/medreserve/predict/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrModelsNotLoaded    = domain.ErrModelsNotLoaded
	ErrNoUsableSymptoms   = domain.ErrNoUsableSymptoms
	ErrBothModelsFailed   = domain.ErrBothModelsFailed
	ErrUnknownMethod      = domain.ErrUnknownMethod
	ErrValidation         = domain.ErrValidation
	ErrExplainUnavailable = domain.ErrExplainUnavailable
)
