package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/config"
	"github.com/medreserve/predict/internal/domain"
	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/metrics"
	healthuc "github.com/medreserve/predict/internal/usecase/health"
	"github.com/medreserve/predict/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes prediction API requests to the underlying services.
type Server struct {
	ensemble      Ensembler
	ml            ModelPredictor
	dl            ModelPredictor
	features      FeatureAnalyzer
	words         WordAnalyzer
	analyzer      SymptomAnalyzer
	explainer     ConditionExplainer
	health        HealthChecker
	limits        limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	ens Ensembler,
	ml ModelPredictor,
	dl ModelPredictor,
	features FeatureAnalyzer,
	words WordAnalyzer,
	analyzer SymptomAnalyzer,
	explainer ConditionExplainer,
	health HealthChecker,
	lim config.LimitsConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ensemble:  ens,
		ml:        ml,
		dl:        dl,
		features:  features,
		words:     words,
		analyzer:  analyzer,
		explainer: explainer,
		health:    health,
		limits: limits{
			minSymptomChars: lim.MinSymptomChars,
			maxSymptomChars: lim.MaxSymptomChars,
			maxBatchSize:    lim.MaxBatchSize,
			maxTopFeatures:  lim.MaxTopFeatures,
		},
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		emptyInputHandler,
		bothFailedHandler,
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest),
		sentinelHandler(domain.ErrUnknownMethod, http.StatusBadRequest),
		sentinelHandler(domain.ErrModelsNotLoaded, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrExplainUnavailable, http.StatusServiceUnavailable),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/models/info", s.ModelsInfo)
	r.Get("/conditions", s.ListConditions)

	r.Post("/predict", s.Predict)
	r.Post("/predict/ml", s.PredictML)
	r.Post("/predict/dl", s.PredictDL)
	r.Post("/predict/batch", s.PredictBatch)
	r.Post("/compare", s.Compare)
	r.Post("/analyze/ml", s.AnalyzeML)
	r.Post("/analyze/dl", s.AnalyzeDL)
	r.Post("/analyze-symptoms", s.AnalyzeSymptoms)
	r.Post("/explain", s.Explain)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "Disease Prediction API",
		Version: version.Version,
		Status:  "running",
		Endpoints: map[string]string{
			"predict":          "POST /predict",
			"predict_ml":       "POST /predict/ml",
			"predict_dl":       "POST /predict/dl",
			"predict_batch":    "POST /predict/batch",
			"compare":          "POST /compare",
			"analyze_ml":       "POST /analyze/ml",
			"analyze_dl":       "POST /analyze/dl",
			"analyze_symptoms": "POST /analyze-symptoms",
			"explain":          "POST /explain",
			"conditions":       "GET /conditions",
			"models_info":      "GET /models/info",
			"health":           "GET /health",
			"metrics":          "GET /metrics",
		},
	})
}

// HealthCheck handles GET /health. Degraded operation still answers 200:
// as long as one model predicts, the service is usable.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, struct {
		healthuc.Report
		Version   string    `json:"version"`
		Timestamp time.Time `json:"timestamp"`
	}{
		Report:    report,
		Version:   version.Version,
		Timestamp: time.Now().UTC(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ModelsInfo handles GET /models/info.
func (s *Server) ModelsInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		InfoReport: s.ensemble.Info(),
		Timestamp:  time.Now().UTC(),
	})
}

// Predict handles POST /predict. The method field selects the model:
// ml, dl, or ensemble (the default).
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	var req symptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	method, ok := prediction.ParseMethod(req.Method)
	if !ok {
		s.handleDomainError(w, domain.ErrUnknownMethod)
		return
	}

	symptoms, err := s.limits.validateSymptoms(req.Symptoms)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	switch method {
	case prediction.MethodML:
		s.predictModel(w, r, s.ml, "ml", symptoms)
	case prediction.MethodDL:
		s.predictModel(w, r, s.dl, "dl", symptoms)
	default:
		s.predictEnsemble(w, r, symptoms)
	}
}

// PredictML handles POST /predict/ml.
func (s *Server) PredictML(w http.ResponseWriter, r *http.Request) {
	s.predictSingleModel(w, r, s.ml, "ml")
}

// PredictDL handles POST /predict/dl.
func (s *Server) PredictDL(w http.ResponseWriter, r *http.Request) {
	s.predictSingleModel(w, r, s.dl, "dl")
}

func (s *Server) predictSingleModel(w http.ResponseWriter, r *http.Request, m ModelPredictor, label string) {
	var req symptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	symptoms, err := s.limits.validateSymptoms(req.Symptoms)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.predictModel(w, r, m, label, symptoms)
}

func (s *Server) predictModel(w http.ResponseWriter, r *http.Request, m ModelPredictor, label, symptoms string) {
	start := time.Now()
	pred, err := m.PredictSingle(r.Context(), symptoms)
	metrics.PredictionDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionRequestsTotal.WithLabelValues(label, "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.PredictionRequestsTotal.WithLabelValues(label, "success").Inc()

	writeJSON(w, http.StatusOK, predictionResponse{
		Prediction: pred,
		Timestamp:  time.Now().UTC(),
	})
}

func (s *Server) predictEnsemble(w http.ResponseWriter, r *http.Request, symptoms string) {
	start := time.Now()
	result, err := s.ensemble.PredictSingle(r.Context(), symptoms)
	metrics.PredictionDuration.WithLabelValues("ensemble").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionRequestsTotal.WithLabelValues("ensemble", "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.PredictionRequestsTotal.WithLabelValues("ensemble", "success").Inc()

	writeJSON(w, http.StatusOK, ensembleResponse{
		Result:    result,
		Timestamp: time.Now().UTC(),
	})
}

// PredictBatch handles POST /predict/batch. Per-item failures stay in the
// predictions array so results remain positionally aligned with inputs.
func (s *Server) PredictBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	method, ok := prediction.ParseMethod(req.Method)
	if !ok {
		s.handleDomainError(w, domain.ErrUnknownMethod)
		return
	}

	symptomsList, err := s.limits.validateBatch(req.SymptomsList)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.PredictionBatchSize.Observe(float64(len(symptomsList)))

	var predictions any
	switch method {
	case prediction.MethodML:
		predictions = s.ml.PredictBatch(r.Context(), symptomsList)
	case prediction.MethodDL:
		predictions = s.dl.PredictBatch(r.Context(), symptomsList)
	default:
		predictions = s.ensemble.PredictBatch(r.Context(), symptomsList)
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Predictions:    predictions,
		TotalProcessed: len(symptomsList),
		Method:         string(method),
		Timestamp:      time.Now().UTC(),
	})
}

// Compare handles POST /compare, running both models side by side.
func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	var req symptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	symptoms, err := s.limits.validateSymptoms(req.Symptoms)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Comparison: s.ensemble.Compare(r.Context(), symptoms),
		Timestamp:  time.Now().UTC(),
	})
}

// AnalyzeML handles POST /analyze/ml, explaining an ML prediction through
// its top contributing features.
func (s *Server) AnalyzeML(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	symptoms, topN, err := s.validateAnalysis(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	analysis, err := s.features.FeatureImportance(r.Context(), symptoms, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Analysis  any       `json:"analysis"`
		Timestamp time.Time `json:"timestamp"`
	}{Analysis: analysis, Timestamp: time.Now().UTC()})
}

// AnalyzeDL handles POST /analyze/dl, explaining a DL prediction through
// per-word importance.
func (s *Server) AnalyzeDL(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	symptoms, topN, err := s.validateAnalysis(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	analysis, err := s.words.WordImportance(r.Context(), symptoms, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Analysis  any       `json:"analysis"`
		Timestamp time.Time `json:"timestamp"`
	}{Analysis: analysis, Timestamp: time.Now().UTC()})
}

func (s *Server) validateAnalysis(req analysisRequest) (string, int, error) {
	symptoms, err := s.limits.validateSymptoms(req.Symptoms)
	if err != nil {
		return "", 0, err
	}
	topN, err := s.limits.validateTopFeatures(req.TopFeatures)
	if err != nil {
		return "", 0, err
	}
	return symptoms, topN, nil
}

// AnalyzeSymptoms handles POST /analyze-symptoms, the rule-based triage
// that works without any loaded model.
func (s *Server) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req analyzeSymptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	report, err := s.analyzer.Analyze(req.Symptoms)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Explain handles POST /explain.
func (s *Server) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	info, err := s.explainer.Explain(r.Context(), req.Condition, req.Detailed)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// ListConditions handles GET /conditions. The q parameter searches the
// knowledge base; without it, all known condition names are listed.
func (s *Server) ListConditions(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		matches := s.explainer.Search(q)
		writeJSON(w, http.StatusOK, struct {
			Conditions any `json:"conditions"`
			Total      int `json:"total"`
		}{Conditions: matches, Total: len(matches)})
		return
	}

	names := s.explainer.Available()
	writeJSON(w, http.StatusOK, conditionListResponse{
		Conditions: names,
		Total:      len(names),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage keeps the full message for recognized sentinels and
// hides everything else from the client.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrUnknownMethod,
		domain.ErrNoUsableSymptoms,
		domain.ErrBothModelsFailed,
		domain.ErrModelsNotLoaded,
		domain.ErrExplainUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// emptyInputHandler reports unintelligible input with the offending texts.
func emptyInputHandler(w http.ResponseWriter, err error, msg string) bool {
	var empty *domain.EmptyInputError
	if !errors.As(err, &empty) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:        msg,
		OriginalText: empty.OriginalText,
		CleanedText:  empty.CleanedText,
	})
	return true
}

// bothFailedHandler reports a total prediction failure with per-model causes.
func bothFailedHandler(w http.ResponseWriter, err error, msg string) bool {
	var both *domain.BothFailedError
	if !errors.As(err, &both) {
		return false
	}
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{
		Error:   domain.ErrBothModelsFailed.Error(),
		MLError: both.MLCause,
		DLError: both.DLCause,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
