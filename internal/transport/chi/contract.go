package chi

import (
	"context"

	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/predictor/dl"
	"github.com/medreserve/predict/internal/predictor/ensemble"
	"github.com/medreserve/predict/internal/predictor/ml"
	"github.com/medreserve/predict/internal/usecase/analyze"
	"github.com/medreserve/predict/internal/usecase/explain"
	healthuc "github.com/medreserve/predict/internal/usecase/health"
)

// Ensembler is the combined-prediction surface, optionally wrapped by the
// prediction cache.
type Ensembler interface {
	PredictSingle(ctx context.Context, text string) (*ensemble.Result, error)
	PredictBatch(ctx context.Context, texts []string) []ensemble.Outcome
	Compare(ctx context.Context, text string) *ensemble.Comparison
	Status() ensemble.LoadStatus
	Info() ensemble.InfoReport
}

// ModelPredictor is a single model's prediction surface.
type ModelPredictor interface {
	PredictSingle(ctx context.Context, text string) (prediction.Prediction, error)
	PredictBatch(ctx context.Context, texts []string) []prediction.Outcome
}

// FeatureAnalyzer explains machine-learning predictions.
type FeatureAnalyzer interface {
	FeatureImportance(ctx context.Context, text string, topN int) (*ml.FeatureAnalysis, error)
}

// WordAnalyzer explains deep-learning predictions.
type WordAnalyzer interface {
	WordImportance(ctx context.Context, text string, topN int) (*dl.WordAnalysis, error)
}

// SymptomAnalyzer is the rule-based triage surface.
type SymptomAnalyzer interface {
	Analyze(symptoms string) (*analyze.Report, error)
}

// ConditionExplainer answers condition lookups.
type ConditionExplainer interface {
	Explain(ctx context.Context, condition string, detailed bool) (*explain.Info, error)
	Available() []string
	Search(term string) []explain.Info
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
