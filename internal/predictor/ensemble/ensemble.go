// Package ensemble combines the machine-learning and deep-learning
// predictors by weighted vote, degrading to whichever model is available
// when the other cannot serve.
package ensemble

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/domain"
	"github.com/medreserve/predict/internal/domain/prediction"
)

const topCombined = 5

type Service struct {
	ml Model
	dl Model

	mlWeight float64
	dlWeight float64
	logger   *zap.Logger
}

func New(ml, dl Model, mlWeight, dlWeight float64, logger *zap.Logger) *Service {
	return &Service{ml: ml, dl: dl, mlWeight: mlWeight, dlWeight: dlWeight, logger: logger}
}

// Load attempts to load both underlying models and reports what came up.
// A model that fails to load is left unloaded rather than aborting the
// other.
func (s *Service) Load() LoadStatus {
	if err := s.ml.Load(); err != nil {
		s.logger.Warn("ml model unavailable", zap.Error(err))
	}
	if err := s.dl.Load(); err != nil {
		s.logger.Warn("dl model unavailable", zap.Error(err))
	}
	return s.Status()
}

func (s *Service) Status() LoadStatus {
	ml, dl := s.ml.Loaded(), s.dl.Loaded()
	return LoadStatus{MLLoaded: ml, DLLoaded: dl, Ready: ml || dl}
}

// PredictSingle asks both models and combines their answer. One failed
// model degrades the response to the survivor's prediction; two failed
// models surface a combined error with both causes.
func (s *Service) PredictSingle(ctx context.Context, text string) (*Result, error) {
	mlPred, mlErr := s.ml.PredictSingle(ctx, text)
	dlPred, dlErr := s.dl.PredictSingle(ctx, text)

	individual := &Individual{}
	if mlErr != nil {
		individual.ML = &prediction.Outcome{Err: mlErr}
	} else {
		individual.ML = &prediction.Outcome{Prediction: mlPred}
	}
	if dlErr != nil {
		individual.DL = &prediction.Outcome{Err: dlErr}
	} else {
		individual.DL = &prediction.Outcome{Prediction: dlPred}
	}

	switch {
	case mlErr != nil && dlErr != nil:
		if errors.Is(mlErr, domain.ErrNoUsableSymptoms) && errors.Is(dlErr, domain.ErrNoUsableSymptoms) {
			return nil, mlErr
		}
		return nil, &domain.BothFailedError{MLCause: cause(mlErr), DLCause: cause(dlErr)}
	case dlErr != nil:
		s.logger.Debug("ensemble degraded to ml", zap.Error(dlErr))
		return &Result{Prediction: mlPred, Method: methodMLOnly, Individual: individual}, nil
	case mlErr != nil:
		s.logger.Debug("ensemble degraded to dl", zap.Error(mlErr))
		return &Result{Prediction: dlPred, Method: methodDLOnly, Individual: individual}, nil
	}

	combined := s.combine(mlPred, dlPred)
	combined.Individual = individual
	return combined, nil
}

// combine merges both models' candidate lists by weighted confidence over
// the union of their top predictions and keeps the best five.
func (s *Service) combine(ml, dl prediction.Prediction) *Result {
	mlConf := make(map[string]float64, len(ml.Top))
	for _, e := range ml.Top {
		mlConf[e.Disease] = e.Confidence
	}
	dlConf := make(map[string]float64, len(dl.Top))
	for _, e := range dl.Top {
		dlConf[e.Disease] = e.Confidence
	}

	diseases := make([]string, 0, len(mlConf)+len(dlConf))
	for _, e := range ml.Top {
		diseases = append(diseases, e.Disease)
	}
	for _, e := range dl.Top {
		if _, seen := mlConf[e.Disease]; !seen {
			diseases = append(diseases, e.Disease)
		}
	}

	entries := make([]prediction.Entry, 0, len(diseases))
	for _, d := range diseases {
		m, dv := mlConf[d], dlConf[d]
		mc, dc := m, dv
		entries = append(entries, prediction.Entry{
			Disease:      d,
			Confidence:   s.mlWeight*m + s.dlWeight*dv,
			MLConfidence: &mc,
			DLConfidence: &dc,
		})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Confidence > entries[b].Confidence
	})
	if len(entries) > topCombined {
		entries = entries[:topCombined]
	}

	return &Result{
		Prediction: prediction.Prediction{
			Disease:      entries[0].Disease,
			Confidence:   entries[0].Confidence,
			Top:          entries,
			OriginalText: ml.OriginalText,
			CleanedText:  ml.CleanedText,
			Model:        prediction.ModelEnsemble,
		},
		Method:   methodWeighted,
		MLWeight: s.mlWeight,
		DLWeight: s.dlWeight,
	}
}

// PredictBatch runs the ensemble over each input independently. The
// returned slice always has one outcome per input, in order.
func (s *Service) PredictBatch(ctx context.Context, texts []string) []Outcome {
	out := make([]Outcome, len(texts))
	for i, text := range texts {
		res, err := s.PredictSingle(ctx, text)
		if err != nil {
			out[i] = Outcome{Err: err}
			continue
		}
		out[i] = Outcome{Result: res}
	}
	return out
}

// Compare runs both models on the same input and reports whether they
// agree. Agreement math only applies when both models answered.
func (s *Service) Compare(ctx context.Context, text string) *Comparison {
	cmp := &Comparison{SymptomText: text}

	mlPred, mlErr := s.ml.PredictSingle(ctx, text)
	dlPred, dlErr := s.dl.PredictSingle(ctx, text)
	if mlErr != nil {
		cmp.ML = prediction.Outcome{Err: mlErr}
	} else {
		cmp.ML = prediction.Outcome{Prediction: mlPred}
	}
	if dlErr != nil {
		cmp.DL = prediction.Outcome{Err: dlErr}
	} else {
		cmp.DL = prediction.Outcome{Prediction: dlPred}
	}
	if mlErr != nil || dlErr != nil {
		return cmp
	}

	agree := mlPred.Disease == dlPred.Disease
	diff := mlPred.Confidence - dlPred.Confidence
	if diff < 0 {
		diff = -diff
	}
	cmp.Agreement = &agree
	cmp.ConfidenceDifference = &diff
	if agree {
		cmp.Consensus = &Consensus{
			Disease:       mlPred.Disease,
			AvgConfidence: (mlPred.Confidence + dlPred.Confidence) / 2,
		}
	}
	return cmp
}

// Info describes the ensemble configuration plus whichever model infos
// are available.
func (s *Service) Info() InfoReport {
	report := InfoReport{Method: methodWeighted, MLWeight: s.mlWeight, DLWeight: s.dlWeight}
	if info, err := s.ml.Info(); err == nil {
		report.ML = &info
	}
	if info, err := s.dl.Info(); err == nil {
		report.DL = &info
	}
	return report
}

// cause renders a model failure for the combined error, normalizing the
// never-loaded case.
func cause(err error) string {
	if errors.Is(err, domain.ErrModelsNotLoaded) {
		return "Model not loaded"
	}
	return err.Error()
}
