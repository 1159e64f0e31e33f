package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/config"
	"github.com/medreserve/predict/internal/domain"
	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/predictor/dl"
	"github.com/medreserve/predict/internal/predictor/ensemble"
	"github.com/medreserve/predict/internal/predictor/ml"
	"github.com/medreserve/predict/internal/usecase/analyze"
	"github.com/medreserve/predict/internal/usecase/explain"
	healthuc "github.com/medreserve/predict/internal/usecase/health"
)

type fakeEnsembler struct {
	result      *ensemble.Result
	err         error
	batch       []ensemble.Outcome
	comparison  *ensemble.Comparison
	status      ensemble.LoadStatus
	info        ensemble.InfoReport
	lastText    string
	lastTexts   []string
	predictCall int
}

func (f *fakeEnsembler) PredictSingle(ctx context.Context, text string) (*ensemble.Result, error) {
	f.predictCall++
	f.lastText = text
	return f.result, f.err
}

func (f *fakeEnsembler) PredictBatch(ctx context.Context, texts []string) []ensemble.Outcome {
	f.lastTexts = texts
	return f.batch
}

func (f *fakeEnsembler) Compare(ctx context.Context, text string) *ensemble.Comparison {
	f.lastText = text
	return f.comparison
}

func (f *fakeEnsembler) Status() ensemble.LoadStatus { return f.status }
func (f *fakeEnsembler) Info() ensemble.InfoReport   { return f.info }

type fakeModel struct {
	pred  prediction.Prediction
	err   error
	batch []prediction.Outcome
}

func (f *fakeModel) PredictSingle(ctx context.Context, text string) (prediction.Prediction, error) {
	return f.pred, f.err
}

func (f *fakeModel) PredictBatch(ctx context.Context, texts []string) []prediction.Outcome {
	return f.batch
}

type fakeFeatures struct {
	analysis *ml.FeatureAnalysis
	err      error
	lastTopN int
}

func (f *fakeFeatures) FeatureImportance(ctx context.Context, text string, topN int) (*ml.FeatureAnalysis, error) {
	f.lastTopN = topN
	return f.analysis, f.err
}

type fakeWords struct {
	analysis *dl.WordAnalysis
	err      error
}

func (f *fakeWords) WordImportance(ctx context.Context, text string, topN int) (*dl.WordAnalysis, error) {
	return f.analysis, f.err
}

type fakeAnalyzer struct {
	report *analyze.Report
	err    error
}

func (f *fakeAnalyzer) Analyze(symptoms string) (*analyze.Report, error) {
	return f.report, f.err
}

type fakeExplainer struct {
	info      *explain.Info
	err       error
	available []string
	matches   []explain.Info
}

func (f *fakeExplainer) Explain(ctx context.Context, condition string, detailed bool) (*explain.Info, error) {
	return f.info, f.err
}

func (f *fakeExplainer) Available() []string          { return f.available }
func (f *fakeExplainer) Search(term string) []explain.Info { return f.matches }

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(ctx context.Context) healthuc.Report { return f.report }

type serverFixture struct {
	ensemble  *fakeEnsembler
	ml        *fakeModel
	dl        *fakeModel
	features  *fakeFeatures
	words     *fakeWords
	analyzer  *fakeAnalyzer
	explainer *fakeExplainer
	health    *fakeHealth
	router    *chi.Mux
}

func newServerFixture() *serverFixture {
	f := &serverFixture{
		ensemble:  &fakeEnsembler{},
		ml:        &fakeModel{},
		dl:        &fakeModel{},
		features:  &fakeFeatures{},
		words:     &fakeWords{},
		analyzer:  &fakeAnalyzer{},
		explainer: &fakeExplainer{},
		health:    &fakeHealth{},
	}
	srv := NewServer(
		f.ensemble, f.ml, f.dl, f.features, f.words, f.analyzer, f.explainer, f.health,
		config.LimitsConfig{
			MinSymptomChars: 5,
			MaxSymptomChars: 2000,
			MaxBatchSize:    10,
			MaxTopFeatures:  20,
		},
		zap.NewNop(),
	)
	f.router = chi.NewRouter()
	srv.Routes(f.router)
	return f
}

func (f *serverFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func ensembleResult(disease string, conf float64) *ensemble.Result {
	return &ensemble.Result{
		Prediction: prediction.Prediction{
			Disease:    disease,
			Confidence: conf,
			Top:        []prediction.Entry{{Disease: disease, Confidence: conf}},
			Model:      prediction.ModelEnsemble,
		},
		Method:   "weighted_average",
		MLWeight: 0.6,
		DLWeight: 0.4,
	}
}

func TestPredict_Ensemble_OK(t *testing.T) {
	f := newServerFixture()
	f.ensemble.result = ensembleResult("Influenza", 0.82)

	rr := f.do(t, "POST", "/predict", `{"symptoms":"high fever and severe cough"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Disease    string  `json:"predicted_disease"`
		Confidence float64 `json:"confidence"`
		Method     string  `json:"ensemble_method"`
		Timestamp  string  `json:"timestamp"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Disease != "Influenza" || resp.Confidence != 0.82 {
		t.Errorf("unexpected prediction: %+v", resp)
	}
	if resp.Method != "weighted_average" {
		t.Errorf("ensemble_method = %q, want weighted_average", resp.Method)
	}
	if resp.Timestamp == "" {
		t.Error("timestamp missing")
	}
	if f.ensemble.lastText != "high fever and severe cough" {
		t.Errorf("ensemble got text %q", f.ensemble.lastText)
	}
}

func TestPredict_MethodML_RoutesToMLModel(t *testing.T) {
	f := newServerFixture()
	f.ml.pred = prediction.Prediction{Disease: "Common Cold", Confidence: 0.7, Model: prediction.ModelML}

	rr := f.do(t, "POST", "/predict", `{"symptoms":"runny nose and sneezing","method":"ml"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if f.ensemble.predictCall != 0 {
		t.Error("ensemble should not be called for method ml")
	}
	var resp struct {
		Disease string `json:"predicted_disease"`
		Model   string `json:"model_type"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Disease != "Common Cold" || resp.Model != "machine_learning" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPredict_UnknownMethod_400(t *testing.T) {
	f := newServerFixture()

	rr := f.do(t, "POST", "/predict", `{"symptoms":"high fever and cough","method":"quantum"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !strings.Contains(resp.Error, "unknown prediction method") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestPredict_TooShort_400(t *testing.T) {
	f := newServerFixture()

	rr := f.do(t, "POST", "/predict", `{"symptoms":"flu"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if f.ensemble.predictCall != 0 {
		t.Error("prediction should not run on invalid input")
	}
}

func TestPredict_SuspiciousInput_400(t *testing.T) {
	f := newServerFixture()

	rr := f.do(t, "POST", "/predict", `{"symptoms":"fever <script>alert(1)</script>"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPredict_EmptyInput_400_WithTexts(t *testing.T) {
	f := newServerFixture()
	f.ensemble.err = domain.NewEmptyInput("the and of with", "")

	rr := f.do(t, "POST", "/predict", `{"symptoms":"the and of with"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.OriginalText != "the and of with" {
		t.Errorf("original_text = %q", resp.OriginalText)
	}
}

func TestPredict_BothModelsFailed_503(t *testing.T) {
	f := newServerFixture()
	f.ensemble.err = &domain.BothFailedError{MLCause: "Model not loaded", DLCause: "Model not loaded"}

	rr := f.do(t, "POST", "/predict", `{"symptoms":"high fever and cough"}`)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.MLError != "Model not loaded" || resp.DLError != "Model not loaded" {
		t.Errorf("unexpected causes: %+v", resp)
	}
}

func TestPredictML_ModelsNotLoaded_503(t *testing.T) {
	f := newServerFixture()
	f.ml.err = domain.ErrModelsNotLoaded

	rr := f.do(t, "POST", "/predict/ml", `{"symptoms":"high fever and cough"}`)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestPredictDL_OK(t *testing.T) {
	f := newServerFixture()
	f.dl.pred = prediction.Prediction{
		Disease:        "Migraine",
		Confidence:     0.9,
		Model:          prediction.ModelDL,
		SequenceLength: 4,
	}

	rr := f.do(t, "POST", "/predict/dl", `{"symptoms":"throbbing headache with nausea"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Disease        string `json:"predicted_disease"`
		SequenceLength int    `json:"sequence_length"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Disease != "Migraine" || resp.SequenceLength != 4 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPredictBatch_OK(t *testing.T) {
	f := newServerFixture()
	f.ensemble.batch = []ensemble.Outcome{
		{Result: ensembleResult("Influenza", 0.8)},
		{Err: domain.NewEmptyInput("the and", "")},
	}

	rr := f.do(t, "POST", "/predict/batch",
		`{"symptoms_list":["high fever and cough","sore throat and chills"]}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Predictions    []json.RawMessage `json:"predictions"`
		TotalProcessed int               `json:"total_processed"`
		Method         string            `json:"method"`
		Timestamp      string            `json:"timestamp"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Predictions) != 2 || resp.TotalProcessed != 2 {
		t.Errorf("predictions = %d, total = %d", len(resp.Predictions), resp.TotalProcessed)
	}
	if resp.Method != "ensemble" {
		t.Errorf("method = %q, want ensemble", resp.Method)
	}

	// Failed item serializes as an error object in place.
	var second struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Predictions[1], &second); err != nil {
		t.Fatalf("decode second item: %v", err)
	}
	if second.Error == "" {
		t.Error("second item should carry an error")
	}
}

func TestPredictBatch_TooLarge_400(t *testing.T) {
	f := newServerFixture()

	items := make([]string, 11)
	for i := range items {
		items[i] = `"high fever and cough"`
	}
	body := `{"symptoms_list":[` + strings.Join(items, ",") + `]}`

	rr := f.do(t, "POST", "/predict/batch", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPredictBatch_BadItem_ReportsIndex(t *testing.T) {
	f := newServerFixture()

	rr := f.do(t, "POST", "/predict/batch", `{"symptoms_list":["high fever and cough","ok"]}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !strings.Contains(resp.Error, "index 1") {
		t.Errorf("error = %q, want index in message", resp.Error)
	}
}

func TestCompare_OK(t *testing.T) {
	f := newServerFixture()
	agreement := true
	diff := 0.2
	f.ensemble.comparison = &ensemble.Comparison{
		SymptomText: "high fever and cough",
		ML:          prediction.Outcome{Prediction: prediction.Prediction{Disease: "Influenza", Confidence: 0.8}},
		DL:          prediction.Outcome{Prediction: prediction.Prediction{Disease: "Influenza", Confidence: 0.6}},
		Agreement:   &agreement,
		ConfidenceDifference: &diff,
		Consensus:   &ensemble.Consensus{Disease: "Influenza", AvgConfidence: 0.7},
	}

	rr := f.do(t, "POST", "/compare", `{"symptoms":"high fever and cough"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		SymptomText string `json:"symptom_text"`
		Agreement   *bool  `json:"agreement"`
		Consensus   *struct {
			Disease string `json:"disease"`
		} `json:"consensus"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Agreement == nil || !*resp.Agreement {
		t.Error("agreement should be true")
	}
	if resp.Consensus == nil || resp.Consensus.Disease != "Influenza" {
		t.Errorf("unexpected consensus: %+v", resp.Consensus)
	}
}

func TestAnalyzeML_DefaultsTopFeatures(t *testing.T) {
	f := newServerFixture()
	f.features.analysis = &ml.FeatureAnalysis{
		Prediction:          prediction.Prediction{Disease: "Influenza", Confidence: 0.8},
		TopFeatures:         []ml.FeatureContribution{{Feature: "fever", Importance: 0.6}},
		TotalActiveFeatures: 3,
	}

	rr := f.do(t, "POST", "/analyze/ml", `{"symptoms":"high fever and cough"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if f.features.lastTopN != 10 {
		t.Errorf("topN = %d, want default 10", f.features.lastTopN)
	}
	var resp struct {
		Analysis struct {
			TotalActiveFeatures int `json:"total_active_features"`
		} `json:"analysis"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Analysis.TotalActiveFeatures != 3 {
		t.Errorf("total_active_features = %d", resp.Analysis.TotalActiveFeatures)
	}
}

func TestAnalyzeML_TopFeaturesOutOfRange_400(t *testing.T) {
	f := newServerFixture()

	rr := f.do(t, "POST", "/analyze/ml", `{"symptoms":"high fever and cough","top_features":50}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeDL_OK(t *testing.T) {
	f := newServerFixture()
	f.words.analysis = &dl.WordAnalysis{
		Prediction:  prediction.Prediction{Disease: "Migraine", Confidence: 0.9},
		WordScores:  []dl.WordContribution{{Word: "headache", Importance: 0.4}},
		TotalTokens: 2,
	}

	rr := f.do(t, "POST", "/analyze/dl", `{"symptoms":"throbbing headache today"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Analysis struct {
			WordImportance []struct {
				Word string `json:"word"`
			} `json:"word_importance"`
		} `json:"analysis"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Analysis.WordImportance) != 1 || resp.Analysis.WordImportance[0].Word != "headache" {
		t.Errorf("unexpected word importance: %+v", resp.Analysis.WordImportance)
	}
}

func TestAnalyzeSymptoms_OK(t *testing.T) {
	f := newServerFixture()
	f.analyzer.report = &analyze.Report{
		Conditions:   []analyze.Condition{{Name: "Upper Respiratory Infection", Probability: "High"}},
		UrgencyLevel: "Routine",
		Fallback:     true,
	}

	rr := f.do(t, "POST", "/analyze-symptoms", `{"symptoms":"fever and cough"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp analyze.Report
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Fallback || resp.UrgencyLevel != "Routine" {
		t.Errorf("unexpected report: %+v", resp)
	}
}

func TestExplain_OK(t *testing.T) {
	f := newServerFixture()
	f.explainer.info = &explain.Info{Name: "Hypertension", Source: "database"}

	rr := f.do(t, "POST", "/explain", `{"condition":"hypertension"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp explain.Info
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "Hypertension" || resp.Source != "database" {
		t.Errorf("unexpected info: %+v", resp)
	}
}

func TestExplain_Unavailable_503(t *testing.T) {
	f := newServerFixture()
	f.explainer.err = domain.ErrExplainUnavailable

	rr := f.do(t, "POST", "/explain", `{"condition":"rare syndrome","detailed":true}`)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestListConditions_OK(t *testing.T) {
	f := newServerFixture()
	f.explainer.available = []string{"Asthma", "Hypertension"}

	rr := f.do(t, "GET", "/conditions", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp conditionListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Conditions) != 2 {
		t.Errorf("unexpected list: %+v", resp)
	}
}

func TestListConditions_Search(t *testing.T) {
	f := newServerFixture()
	f.explainer.matches = []explain.Info{{Name: "Asthma"}}

	rr := f.do(t, "GET", "/conditions?q=wheezing", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Conditions []explain.Info `json:"conditions"`
		Total      int            `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || resp.Conditions[0].Name != "Asthma" {
		t.Errorf("unexpected search result: %+v", resp)
	}
}

func TestHealth_Degraded_200(t *testing.T) {
	f := newServerFixture()
	f.health.report = healthuc.Report{
		Status:   healthuc.Degraded,
		MLLoaded: true,
		Checks:   map[string]healthuc.CheckResult{"ml_model": healthuc.CheckOK, "dl_model": healthuc.CheckError},
	}

	rr := f.do(t, "GET", "/health", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("degraded service should answer 200, got %d", rr.Code)
	}
	var resp struct {
		Status   string `json:"status"`
		MLLoaded bool   `json:"ml_model_loaded"`
		DLLoaded bool   `json:"dl_model_loaded"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" || !resp.MLLoaded || resp.DLLoaded {
		t.Errorf("unexpected report: %+v", resp)
	}
}

func TestHealth_Unhealthy_503(t *testing.T) {
	f := newServerFixture()
	f.health.report = healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{"ml_model": healthuc.CheckError, "dl_model": healthuc.CheckError},
	}

	rr := f.do(t, "GET", "/health", "")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestRoot_ListsEndpoints(t *testing.T) {
	f := newServerFixture()

	rr := f.do(t, "GET", "/", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	var resp rootResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "running" {
		t.Errorf("status = %q", resp.Status)
	}
	if _, ok := resp.Endpoints["predict"]; !ok {
		t.Error("endpoints should list predict")
	}
}

func TestModelsInfo_OK(t *testing.T) {
	f := newServerFixture()
	f.ensemble.info = ensemble.InfoReport{
		Method:   "weighted_average",
		MLWeight: 0.6,
		DLWeight: 0.4,
	}

	rr := f.do(t, "GET", "/models/info", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	var resp struct {
		Method   string  `json:"ensemble_method"`
		MLWeight float64 `json:"ml_weight"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Method != "weighted_average" || resp.MLWeight != 0.6 {
		t.Errorf("unexpected info: %+v", resp)
	}
}
