// Package ml predicts diseases from symptom text with a TF-IDF vectorizer
// and a classical classifier (random forest or multinomial naive bayes),
// both restored from JSON artifacts exported at training time.
package ml

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/artifact"
	"github.com/medreserve/predict/internal/domain"
	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/preprocess"
)

const (
	vectorizerFile   = "tfidf_vectorizer.json"
	modelFile        = "ml_model.json"
	labelsFile       = "label_encoder.json"
	featureNamesFile = "feature_names.json"

	topPredictions = 3
)

type labelArtifact struct {
	Classes []string `json:"classes"`
}

// Predictor serves machine-learning predictions. Artifacts load lazily on
// first use and loading is idempotent, so concurrent callers share one
// model instance.
type Predictor struct {
	dir    string
	pre    *preprocess.Preprocessor
	logger *zap.Logger

	mu           sync.RWMutex
	loaded       bool
	vec          *vectorizer
	clf          classifier
	labels       []string
	featureNames []string
	meta         modelArtifact
}

func New(dir string, pre *preprocess.Preprocessor, logger *zap.Logger) *Predictor {
	return &Predictor{dir: dir, pre: pre, logger: logger}
}

// Load reads all model artifacts from the predictor's directory. Calling
// it again after a successful load is a no-op.
func (p *Predictor) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return nil
	}

	var vec vectorizer
	if err := artifact.Load(p.dir, vectorizerFile, &vec); err != nil {
		return fmt.Errorf("load vectorizer: %w", err)
	}
	if err := vec.validate(); err != nil {
		return fmt.Errorf("load vectorizer: %w", err)
	}

	var art modelArtifact
	if err := artifact.Load(p.dir, modelFile, &art); err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	clf, err := buildClassifier(&art)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	var labels labelArtifact
	if err := artifact.Load(p.dir, labelsFile, &labels); err != nil {
		return fmt.Errorf("load label encoder: %w", err)
	}
	if len(labels.Classes) != clf.numClasses() {
		return fmt.Errorf("label encoder has %d classes, model expects %d",
			len(labels.Classes), clf.numClasses())
	}

	var names []string
	if artifact.Exists(p.dir, featureNamesFile) {
		if err := artifact.Load(p.dir, featureNamesFile, &names); err != nil {
			return fmt.Errorf("load feature names: %w", err)
		}
	}

	p.vec = &vec
	p.clf = clf
	p.labels = labels.Classes
	p.featureNames = names
	p.meta = art
	p.loaded = true

	p.logger.Info("ml model loaded",
		zap.String("model_type", art.Type),
		zap.Int("classes", len(labels.Classes)),
		zap.Int("vocabulary", len(vec.Vocabulary)))
	return nil
}

func (p *Predictor) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

func (p *Predictor) ensureLoaded() error {
	if p.Loaded() {
		return nil
	}
	if err := p.Load(); err != nil {
		p.logger.Warn("ml model load failed", zap.Error(err))
		return fmt.Errorf("%w: %s", domain.ErrModelsNotLoaded, err)
	}
	return nil
}

// PredictSingle classifies one free-text symptom description and returns
// the winning disease together with the top candidate distribution.
func (p *Predictor) PredictSingle(ctx context.Context, text string) (prediction.Prediction, error) {
	if err := p.ensureLoaded(); err != nil {
		return prediction.Prediction{}, err
	}
	if err := ctx.Err(); err != nil {
		return prediction.Prediction{}, err
	}

	p.mu.RLock()
	vec, clf, labels := p.vec, p.clf, p.labels
	p.mu.RUnlock()

	cleaned := p.pre.Clean(text)
	if cleaned == "" {
		return prediction.Prediction{}, domain.NewEmptyInput(text, cleaned)
	}

	probs := clf.proba(vec.transform(cleaned))
	top := prediction.TopK(probs, labels, topPredictions)

	return prediction.Prediction{
		Disease:      top[0].Disease,
		Confidence:   top[0].Confidence,
		Top:          top,
		OriginalText: text,
		CleanedText:  cleaned,
		Model:        prediction.ModelML,
	}, nil
}

// PredictBatch classifies each input independently. The result slice is
// always the same length as the input, with per-item failures recorded in
// place rather than aborting the batch.
func (p *Predictor) PredictBatch(ctx context.Context, texts []string) []prediction.Outcome {
	out := make([]prediction.Outcome, len(texts))
	for i, text := range texts {
		pred, err := p.PredictSingle(ctx, text)
		if err != nil {
			out[i] = prediction.Fail(err)
			continue
		}
		out[i] = prediction.OK(pred)
	}
	return out
}

func (p *Predictor) Info() (prediction.ModelInfo, error) {
	if err := p.ensureLoaded(); err != nil {
		return prediction.ModelInfo{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	return prediction.ModelInfo{
		ModelType:      p.meta.Type,
		Classes:        append([]string(nil), p.labels...),
		NumClasses:     len(p.labels),
		NumEstimators:  p.meta.NEstimators,
		MaxDepth:       p.meta.MaxDepth,
		NumFeatures:    len(p.vec.IDF),
		VectorizerType: "tfidf",
		MaxFeatures:    p.vec.MaxFeatures,
	}, nil
}

// FeatureContribution is one vocabulary term's share of a prediction:
// its global importance in the trained forest and its TF-IDF weight in
// this particular input.
type FeatureContribution struct {
	Feature      string  `json:"feature"`
	Importance   float64 `json:"importance"`
	TFIDF        float64 `json:"tfidf_score"`
	Contribution float64 `json:"contribution"`
}

type FeatureAnalysis struct {
	Prediction          prediction.Prediction `json:"prediction"`
	TopFeatures         []FeatureContribution `json:"top_features"`
	TotalActiveFeatures int                   `json:"total_active_features"`
}

// FeatureImportance explains a prediction by ranking the input's active
// vocabulary terms by importance-weighted TF-IDF. Only forest models carry
// feature importances.
func (p *Predictor) FeatureImportance(ctx context.Context, text string, topN int) (*FeatureAnalysis, error) {
	pred, err := p.PredictSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	vec, names, importances := p.vec, p.featureNames, p.meta.FeatureImportances
	p.mu.RUnlock()

	if len(importances) == 0 {
		return nil, fmt.Errorf("model type %q does not expose feature importances", p.meta.Type)
	}

	x := vec.transform(pred.CleanedText)
	contribs := make([]FeatureContribution, 0, len(x))
	for col, tfidf := range x {
		if col >= len(importances) {
			continue
		}
		name := fmt.Sprintf("feature_%d", col)
		if col < len(names) {
			name = names[col]
		}
		contribs = append(contribs, FeatureContribution{
			Feature:      name,
			Importance:   importances[col],
			TFIDF:        tfidf,
			Contribution: importances[col] * tfidf,
		})
	}
	sort.SliceStable(contribs, func(a, b int) bool {
		return contribs[a].Contribution > contribs[b].Contribution
	})
	total := len(contribs)
	if topN > 0 && topN < len(contribs) {
		contribs = contribs[:topN]
	}

	return &FeatureAnalysis{
		Prediction:          pred,
		TopFeatures:         contribs,
		TotalActiveFeatures: total,
	}, nil
}
