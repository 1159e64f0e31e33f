package predict

import (
	"context"

	"github.com/medreserve/predict/internal/predictor/dl"
	"github.com/medreserve/predict/internal/predictor/ensemble"
	"github.com/medreserve/predict/internal/predictor/ml"
	"github.com/medreserve/predict/internal/usecase/analyze"
	"github.com/medreserve/predict/internal/usecase/explain"
)

// --- predictorUseCase mock ---

type mockPredictorUC struct {
	singleFn  func(ctx context.Context, text string) (*ensemble.Result, error)
	batchFn   func(ctx context.Context, texts []string) []ensemble.Outcome
	compareFn func(ctx context.Context, text string) *ensemble.Comparison
	statusFn  func() ensemble.LoadStatus
	infoFn    func() ensemble.InfoReport
}

func (m *mockPredictorUC) PredictSingle(ctx context.Context, text string) (*ensemble.Result, error) {
	return m.singleFn(ctx, text)
}

func (m *mockPredictorUC) PredictBatch(ctx context.Context, texts []string) []ensemble.Outcome {
	return m.batchFn(ctx, texts)
}

func (m *mockPredictorUC) Compare(ctx context.Context, text string) *ensemble.Comparison {
	return m.compareFn(ctx, text)
}

func (m *mockPredictorUC) Status() ensemble.LoadStatus { return m.statusFn() }

func (m *mockPredictorUC) Info() ensemble.InfoReport { return m.infoFn() }

// --- featureUseCase / wordUseCase mocks ---

type mockFeatureUC struct {
	fn func(ctx context.Context, text string, topN int) (*ml.FeatureAnalysis, error)
}

func (m *mockFeatureUC) FeatureImportance(
	ctx context.Context, text string, topN int,
) (*ml.FeatureAnalysis, error) {
	return m.fn(ctx, text, topN)
}

type mockWordUC struct {
	fn func(ctx context.Context, text string, topN int) (*dl.WordAnalysis, error)
}

func (m *mockWordUC) WordImportance(
	ctx context.Context, text string, topN int,
) (*dl.WordAnalysis, error) {
	return m.fn(ctx, text, topN)
}

// --- triageUseCase mock ---

type mockTriageUC struct {
	fn func(symptoms string) (*analyze.Report, error)
}

func (m *mockTriageUC) Analyze(symptoms string) (*analyze.Report, error) {
	return m.fn(symptoms)
}

// --- explainUseCase mock ---

type mockExplainUC struct {
	explainFn   func(ctx context.Context, condition string, detailed bool) (*explain.Info, error)
	availableFn func() []string
	searchFn    func(term string) []explain.Info
}

func (m *mockExplainUC) Explain(
	ctx context.Context, condition string, detailed bool,
) (*explain.Info, error) {
	return m.explainFn(ctx, condition, detailed)
}

func (m *mockExplainUC) Available() []string { return m.availableFn() }

func (m *mockExplainUC) Search(term string) []explain.Info { return m.searchFn(term) }
