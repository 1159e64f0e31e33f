package chi

import (
	"time"

	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/predictor/ensemble"
)

type symptomRequest struct {
	Symptoms string `json:"symptoms"`
	Method   string `json:"method,omitempty"`
}

type batchRequest struct {
	SymptomsList []string `json:"symptoms_list"`
	Method       string   `json:"method,omitempty"`
}

type analysisRequest struct {
	Symptoms    string `json:"symptoms"`
	TopFeatures int    `json:"top_features,omitempty"`
}

type analyzeSymptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

type explainRequest struct {
	Condition string `json:"condition"`
	Detailed  bool   `json:"detailed,omitempty"`
}

type ensembleResponse struct {
	*ensemble.Result
	Timestamp time.Time `json:"timestamp"`
}

type predictionResponse struct {
	prediction.Prediction
	Timestamp time.Time `json:"timestamp"`
}

type batchResponse struct {
	Predictions    any       `json:"predictions"`
	TotalProcessed int       `json:"total_processed"`
	Method         string    `json:"method"`
	Timestamp      time.Time `json:"timestamp"`
}

type compareResponse struct {
	*ensemble.Comparison
	Timestamp time.Time `json:"timestamp"`
}

type infoResponse struct {
	ensemble.InfoReport
	Timestamp time.Time `json:"timestamp"`
}

type conditionListResponse struct {
	Conditions []string `json:"conditions"`
	Total      int      `json:"total"`
}

type errorResponse struct {
	Error        string `json:"error"`
	OriginalText string `json:"original_text,omitempty"`
	CleanedText  string `json:"cleaned_text,omitempty"`
	MLError      string `json:"ml_error,omitempty"`
	DLError      string `json:"dl_error,omitempty"`
}

type rootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}
