package predict

import (
	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/predictor/ensemble"
	"github.com/medreserve/predict/internal/usecase/analyze"
	"github.com/medreserve/predict/internal/usecase/explain"
)

// Method selects which model answers a prediction request.
type Method string

// Prediction method constants.
const (
	MethodML       Method = "ml"
	MethodDL       Method = "dl"
	MethodEnsemble Method = "ensemble"
)

// Candidate is one ranked disease with its confidence. The per-model
// confidences are set only on ensemble-combined results.
type Candidate struct {
	Disease      string
	Confidence   float64
	MLConfidence *float64
	DLConfidence *float64
}

// Prediction is the answer for one symptom text.
type Prediction struct {
	Disease     string
	Confidence  float64
	Top         []Candidate
	Model       string
	Method      string
	MLWeight    float64
	DLWeight    float64
	CleanedText string
}

// BatchItem is one batch result: a prediction or the error that took its
// place. Items stay positionally aligned with the inputs.
type BatchItem struct {
	Prediction *Prediction
	Err        error
}

// Consensus is the shared verdict of two agreeing models.
type Consensus struct {
	Disease       string
	AvgConfidence float64
}

// Comparison sets both models' answers for one input side by side.
type Comparison struct {
	ML                   *Prediction
	MLErr                error
	DL                   *Prediction
	DLErr                error
	Agreement            *bool
	ConfidenceDifference *float64
	Consensus            *Consensus
}

// Status reports which models are loaded. Ready means at least one model
// can serve predictions.
type Status struct {
	MLLoaded bool
	DLLoaded bool
	Ready    bool
}

// TriageCondition is one rule-based triage candidate. Probability is a
// coarse textual grade ("High", "Medium"), not a score.
type TriageCondition struct {
	Name        string
	Probability string
	Description string
}

// TriageReport is the rule-based fallback analysis. It works without any
// loaded model; Fallback stays true so callers never mistake it for a
// trained-model prediction.
type TriageReport struct {
	Conditions      []TriageCondition
	Recommendations []string
	UrgencyLevel    string
	Disclaimer      string
	Fallback        bool
}

// ConditionInfo describes a medical condition from the knowledge base or
// the AI explainer.
type ConditionInfo struct {
	Name                 string
	Description          string
	Explanation          string
	Symptoms             []string
	Complications        []string
	Management           []string
	RecommendedSpecialty string
	Source               string
}

func predictionFromDomain(p prediction.Prediction) *Prediction {
	out := &Prediction{
		Disease:     p.Disease,
		Confidence:  p.Confidence,
		Model:       string(p.Model),
		CleanedText: p.CleanedText,
		Top:         make([]Candidate, len(p.Top)),
	}
	for i, e := range p.Top {
		out.Top[i] = Candidate{
			Disease:      e.Disease,
			Confidence:   e.Confidence,
			MLConfidence: e.MLConfidence,
			DLConfidence: e.DLConfidence,
		}
	}
	return out
}

func predictionFromResult(r *ensemble.Result) *Prediction {
	out := predictionFromDomain(r.Prediction)
	out.Method = r.Method
	out.MLWeight = r.MLWeight
	out.DLWeight = r.DLWeight
	return out
}

func comparisonFromDomain(c *ensemble.Comparison) *Comparison {
	out := &Comparison{
		Agreement:            c.Agreement,
		ConfidenceDifference: c.ConfidenceDifference,
	}
	if c.ML.Failed() {
		out.MLErr = c.ML.Err
	} else {
		out.ML = predictionFromDomain(c.ML.Prediction)
	}
	if c.DL.Failed() {
		out.DLErr = c.DL.Err
	} else {
		out.DL = predictionFromDomain(c.DL.Prediction)
	}
	if c.Consensus != nil {
		out.Consensus = &Consensus{
			Disease:       c.Consensus.Disease,
			AvgConfidence: c.Consensus.AvgConfidence,
		}
	}
	return out
}

func triageFromDomain(r *analyze.Report) *TriageReport {
	out := &TriageReport{
		Conditions:      make([]TriageCondition, len(r.Conditions)),
		Recommendations: r.Recommendations,
		UrgencyLevel:    r.UrgencyLevel,
		Disclaimer:      r.Disclaimer,
		Fallback:        r.Fallback,
	}
	for i, c := range r.Conditions {
		out.Conditions[i] = TriageCondition{
			Name:        c.Name,
			Probability: c.Probability,
			Description: c.Description,
		}
	}
	return out
}

func conditionFromDomain(info *explain.Info) *ConditionInfo {
	return &ConditionInfo{
		Name:                 info.Name,
		Description:          info.Description,
		Explanation:          info.Explanation,
		Symptoms:             info.Symptoms,
		Complications:        info.Complications,
		Management:           info.Management,
		RecommendedSpecialty: info.RecommendedSpecialty,
		Source:               info.Source,
	}
}
