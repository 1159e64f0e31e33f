package ensemble

import (
	"encoding/json"
	"errors"

	"github.com/medreserve/predict/internal/domain"
	"github.com/medreserve/predict/internal/domain/prediction"
)

const (
	methodWeighted = "weighted_average"
	methodMLOnly   = "ml_only"
	methodDLOnly   = "dl_only"
)

// Individual keeps the per-model outcomes that fed an ensemble decision,
// including the failures the ensemble degraded around.
type Individual struct {
	ML *prediction.Outcome `json:"machine_learning,omitempty"`
	DL *prediction.Outcome `json:"deep_learning,omitempty"`
}

// Result is an ensemble prediction. When both models contribute, Method
// is weighted_average and the weights are set; when one model carried the
// result alone, Method records which.
type Result struct {
	prediction.Prediction

	Method     string      `json:"ensemble_method,omitempty"`
	Individual *Individual `json:"individual_predictions,omitempty"`
	MLWeight   float64     `json:"ml_weight,omitempty"`
	DLWeight   float64     `json:"dl_weight,omitempty"`
}

// LoadStatus reports which underlying models are usable. Ready means at
// least one model can serve predictions.
type LoadStatus struct {
	MLLoaded bool `json:"ml_loaded"`
	DLLoaded bool `json:"dl_loaded"`
	Ready    bool `json:"ensemble_ready"`
}

// Consensus is the shared verdict of two agreeing models.
type Consensus struct {
	Disease       string  `json:"disease"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Comparison sets both models' outcomes for one input side by side.
// Agreement fields are only present when both models produced a
// prediction, and Consensus only when they named the same disease.
type Comparison struct {
	SymptomText          string             `json:"symptom_text"`
	ML                   prediction.Outcome `json:"machine_learning"`
	DL                   prediction.Outcome `json:"deep_learning"`
	Agreement            *bool              `json:"agreement,omitempty"`
	ConfidenceDifference *float64           `json:"confidence_difference,omitempty"`
	Consensus            *Consensus         `json:"consensus,omitempty"`
}

// InfoReport describes the ensemble and whichever underlying models could
// be loaded.
type InfoReport struct {
	Method   string                `json:"ensemble_method"`
	MLWeight float64               `json:"ml_weight"`
	DLWeight float64               `json:"dl_weight"`
	ML       *prediction.ModelInfo `json:"machine_learning,omitempty"`
	DL       *prediction.ModelInfo `json:"deep_learning,omitempty"`
}

// Outcome is one batch item: either an ensemble result or the error that
// took its place. It serializes the same way prediction.Outcome does so
// batch responses stay positionally aligned with their inputs.
type Outcome struct {
	Result *Result
	Err    error
}

func (o Outcome) Failed() bool { return o.Err != nil }

type outcomeError struct {
	Error        string `json:"error"`
	OriginalText string `json:"original_text,omitempty"`
	CleanedText  string `json:"cleaned_text,omitempty"`
	MLError      string `json:"ml_error,omitempty"`
	DLError      string `json:"dl_error,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		oe := outcomeError{Error: o.Err.Error()}
		var empty *domain.EmptyInputError
		if errors.As(o.Err, &empty) {
			oe.OriginalText = empty.OriginalText
			oe.CleanedText = empty.CleanedText
		}
		var both *domain.BothFailedError
		if errors.As(o.Err, &both) {
			oe.Error = domain.ErrBothModelsFailed.Error()
			oe.MLError = both.MLCause
			oe.DLError = both.DLCause
		}
		return json.Marshal(oe)
	}
	return json.Marshal(o.Result)
}
