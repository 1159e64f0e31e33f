// Package prediction defines the result types shared by all predictors.
package prediction

// Method selects which model answers a prediction request.
type Method string

// Prediction methods.
const (
	MethodML       Method = "ml"
	MethodDL       Method = "dl"
	MethodEnsemble Method = "ensemble"
)

// ParseMethod validates a raw method string, defaulting empty to ensemble.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodML, MethodDL, MethodEnsemble:
		return Method(s), true
	case "":
		return MethodEnsemble, true
	default:
		return "", false
	}
}

// ModelType identifies which model family produced a prediction.
type ModelType string

// Model type values, as reported in prediction results.
const (
	ModelML       ModelType = "machine_learning"
	ModelDL       ModelType = "deep_learning"
	ModelEnsemble ModelType = "ensemble"
)

// Entry is one ranked disease candidate with its confidence.
// MLConfidence/DLConfidence are set only on ensemble-combined entries.
type Entry struct {
	Disease      string   `json:"disease"`
	Confidence   float64  `json:"confidence"`
	MLConfidence *float64 `json:"ml_confidence,omitempty"`
	DLConfidence *float64 `json:"dl_confidence,omitempty"`
}

// Prediction is a successful model answer for one symptom text.
// Top is ranked by non-increasing confidence.
type Prediction struct {
	Disease        string    `json:"predicted_disease"`
	Confidence     float64   `json:"confidence"`
	Top            []Entry   `json:"top_predictions"`
	OriginalText   string    `json:"original_text"`
	CleanedText    string    `json:"cleaned_text"`
	Model          ModelType `json:"model_type"`
	SequenceLength int       `json:"sequence_length,omitempty"`
}

// ModelInfo describes a loaded model for observability. ML-only and DL-only
// fields are zero for the other family.
type ModelInfo struct {
	ModelType  string   `json:"model_type"`
	NumClasses int      `json:"n_classes"`
	Classes    []string `json:"classes"`

	NumEstimators  int    `json:"n_estimators,omitempty"`
	MaxDepth       int    `json:"max_depth,omitempty"`
	NumFeatures    int    `json:"n_features,omitempty"`
	VectorizerType string `json:"vectorizer_type,omitempty"`
	MaxFeatures    int    `json:"max_features,omitempty"`

	VocabSize         int `json:"vocab_size,omitempty"`
	MaxSequenceLength int `json:"max_sequence_length,omitempty"`
	EmbeddingDim      int `json:"embedding_dim,omitempty"`
	LSTMUnits         int `json:"lstm_units,omitempty"`
}

// Outcome is the success-or-error union for one prediction.
// Exactly one of Prediction or Err is meaningful.
type Outcome struct {
	Prediction Prediction
	Err        error
}

// OK creates a successful outcome.
func OK(p Prediction) Outcome { return Outcome{Prediction: p} }

// Fail creates a failed outcome.
func Fail(err error) Outcome { return Outcome{Err: err} }

// Failed reports whether the outcome carries an error.
func (o Outcome) Failed() bool { return o.Err != nil }
