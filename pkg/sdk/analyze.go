package predict

import (
	"context"
	"fmt"
	"time"
)

// FeatureWeight is one input term with its contribution to an ML prediction.
type FeatureWeight struct {
	Feature      string
	Importance   float64
	TFIDF        float64
	Contribution float64
}

// FeatureAnalysis explains an ML prediction through its top contributing
// TF-IDF features.
type FeatureAnalysis struct {
	Prediction     *Prediction
	TopFeatures    []FeatureWeight
	ActiveFeatures int
}

// WordWeight is one input word with its leave-one-out importance.
type WordWeight struct {
	Word       string
	Importance float64
}

// WordAnalysis explains a DL prediction through per-word occlusion scores.
type WordAnalysis struct {
	Prediction  *Prediction
	WordScores  []WordWeight
	TotalTokens int
}

// AnalyzeFeatures explains an ML prediction by ranking the input's active
// features. topN bounds the returned feature count.
func (c *Client) AnalyzeFeatures(ctx context.Context, symptoms string, topN int) (_ *FeatureAnalysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze_features", start, err) }()

	a, err := c.features.FeatureImportance(ctx, symptoms, topN)
	if err != nil {
		return nil, fmt.Errorf("analyze features: %w", err)
	}

	out := &FeatureAnalysis{
		Prediction:     predictionFromDomain(a.Prediction),
		TopFeatures:    make([]FeatureWeight, len(a.TopFeatures)),
		ActiveFeatures: a.TotalActiveFeatures,
	}
	for i, f := range a.TopFeatures {
		out.TopFeatures[i] = FeatureWeight{
			Feature:      f.Feature,
			Importance:   f.Importance,
			TFIDF:        f.TFIDF,
			Contribution: f.Contribution,
		}
	}
	return out, nil
}

// AnalyzeWords explains a DL prediction by re-scoring the input with each
// word removed in turn.
func (c *Client) AnalyzeWords(ctx context.Context, symptoms string, topN int) (_ *WordAnalysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze_words", start, err) }()

	a, err := c.words.WordImportance(ctx, symptoms, topN)
	if err != nil {
		return nil, fmt.Errorf("analyze words: %w", err)
	}

	out := &WordAnalysis{
		Prediction:  predictionFromDomain(a.Prediction),
		WordScores:  make([]WordWeight, len(a.WordScores)),
		TotalTokens: a.TotalTokens,
	}
	for i, w := range a.WordScores {
		out.WordScores[i] = WordWeight{Word: w.Word, Importance: w.Importance}
	}
	return out, nil
}

// Triage runs the rule-based symptom analysis. It needs no loaded models
// and serves as the last-resort fallback.
func (c *Client) Triage(symptoms string) (_ *TriageReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("triage", start, err) }()

	r, err := c.triage.Analyze(symptoms)
	if err != nil {
		return nil, fmt.Errorf("triage: %w", err)
	}
	return triageFromDomain(r), nil
}
