package ensemble

import (
	"context"

	"github.com/medreserve/predict/internal/domain/prediction"
)

// Model is the surface the ensemble needs from an underlying predictor.
// Both the machine-learning and deep-learning predictors satisfy it.
type Model interface {
	Load() error
	Loaded() bool
	PredictSingle(ctx context.Context, text string) (prediction.Prediction, error)
	Info() (prediction.ModelInfo, error)
}
