package health

import (
	"context"

	"github.com/medreserve/predict/internal/predictor/ensemble"
)

// ModelChecker reports which prediction models are loaded.
type ModelChecker interface {
	Status() ensemble.LoadStatus
}

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
