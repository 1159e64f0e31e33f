// Package dl predicts diseases from symptom text with a recurrent neural
// network restored from JSON weight exports: tokenizer, embedding table,
// a single LSTM layer, and a dense softmax head.
package dl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/artifact"
	"github.com/medreserve/predict/internal/domain"
	"github.com/medreserve/predict/internal/domain/prediction"
	"github.com/medreserve/predict/internal/preprocess"
)

const (
	tokenizerFile = "tokenizer.json"
	modelFile     = "dl_model.json"
	labelsFile    = "dl_label_encoder.json"
	configFile    = "dl_config.json"

	defaultMaxLen  = 100
	topPredictions = 3
)

type labelArtifact struct {
	Classes []string `json:"classes"`
}

type configArtifact struct {
	MaxLen int `json:"max_len"`
}

// Predictor serves deep-learning predictions. Like its machine-learning
// counterpart, artifacts load lazily on first use under a mutex.
type Predictor struct {
	dir    string
	pre    *preprocess.Preprocessor
	logger *zap.Logger

	mu     sync.RWMutex
	loaded bool
	tok    *tokenizer
	net    *network
	labels []string
	maxLen int
}

func New(dir string, pre *preprocess.Preprocessor, logger *zap.Logger) *Predictor {
	return &Predictor{dir: dir, pre: pre, logger: logger}
}

func (p *Predictor) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return nil
	}

	var tok tokenizer
	if err := artifact.Load(p.dir, tokenizerFile, &tok); err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	if err := tok.validate(); err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}

	var net network
	if err := artifact.Load(p.dir, modelFile, &net); err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if err := net.validate(); err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	var labels labelArtifact
	if err := artifact.Load(p.dir, labelsFile, &labels); err != nil {
		return fmt.Errorf("load label encoder: %w", err)
	}
	if len(labels.Classes) != net.classes() {
		return fmt.Errorf("label encoder has %d classes, model expects %d",
			len(labels.Classes), net.classes())
	}

	maxLen := defaultMaxLen
	if artifact.Exists(p.dir, configFile) {
		var cfg configArtifact
		if err := artifact.Load(p.dir, configFile, &cfg); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.MaxLen > 0 {
			maxLen = cfg.MaxLen
		}
	}

	p.tok = &tok
	p.net = &net
	p.labels = labels.Classes
	p.maxLen = maxLen
	p.loaded = true

	p.logger.Info("dl model loaded",
		zap.Int("classes", len(labels.Classes)),
		zap.Int("vocab_size", len(tok.WordIndex)),
		zap.Int("lstm_units", net.units()),
		zap.Int("max_sequence_length", maxLen))
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
		p.logger.Warn("dl model load failed", zap.Error(err))
		return fmt.Errorf("%w: %s", domain.ErrModelsNotLoaded, err)
	}
	return nil
}

func (p *Predictor) PredictSingle(ctx context.Context, text string) (prediction.Prediction, error) {
	if err := p.ensureLoaded(); err != nil {
		return prediction.Prediction{}, err
	}
	if err := ctx.Err(); err != nil {
		return prediction.Prediction{}, err
	}

	p.mu.RLock()
	tok, net, labels, maxLen := p.tok, p.net, p.labels, p.maxLen
	p.mu.RUnlock()

	cleaned := p.pre.Clean(text)
	if cleaned == "" {
		return prediction.Prediction{}, domain.NewEmptyInput(text, cleaned)
	}

	seq := tok.sequence(cleaned, maxLen)
	probs := net.forward(seq)
	top := prediction.TopK(probs, labels, topPredictions)

	return prediction.Prediction{
		Disease:        top[0].Disease,
		Confidence:     top[0].Confidence,
		Top:            top,
		OriginalText:   text,
		CleanedText:    cleaned,
		Model:          prediction.ModelDL,
		SequenceLength: realLength(seq),
	}, nil
}

// PredictBatch runs each input through the network independently so one
// bad item cannot sink the rest. The result slice always matches the
// input length.
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
		ModelType:         "lstm",
		Classes:           append([]string(nil), p.labels...),
		NumClasses:        len(p.labels),
		VocabSize:         len(p.tok.WordIndex),
		MaxSequenceLength: p.maxLen,
		EmbeddingDim:      p.net.embDim(),
		LSTMUnits:         p.net.units(),
	}, nil
}

// WordContribution is one input word's effect on the prediction,
// measured by how much the winning class's confidence drops when the
// word is removed from the sequence.
type WordContribution struct {
	Word       string  `json:"word"`
	Importance float64 `json:"importance"`
}

type WordAnalysis struct {
	Prediction  prediction.Prediction `json:"prediction"`
	WordScores  []WordContribution    `json:"word_importance"`
	TotalTokens int                   `json:"total_tokens"`
}

// WordImportance explains a prediction by leave-one-out occlusion: each
// word is dropped in turn and the sequence re-scored. Dropping the only
// usable word scores it at the full base confidence.
func (p *Predictor) WordImportance(ctx context.Context, text string, topN int) (*WordAnalysis, error) {
	base, err := p.PredictSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	tok, net, labels, maxLen := p.tok, p.net, p.labels, p.maxLen
	p.mu.RUnlock()

	winner := -1
	for i, label := range labels {
		if label == base.Disease {
			winner = i
			break
		}
	}

	words := strings.Fields(base.CleanedText)
	scores := make([]WordContribution, 0, len(words))
	for i, word := range words {
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)

		seq := tok.sequence(strings.Join(rest, " "), maxLen)
		importance := base.Confidence
		if realLength(seq) > 0 {
			importance = base.Confidence - net.forward(seq)[winner]
		}
		scores = append(scores, WordContribution{Word: word, Importance: importance})
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Importance > scores[b].Importance
	})
	total := len(scores)
	if topN > 0 && topN < len(scores) {
		scores = scores[:topN]
	}

	return &WordAnalysis{
		Prediction:  base,
		WordScores:  scores,
		TotalTokens: total,
	}, nil
}

func realLength(seq []int) int {
	n := 0
	for _, id := range seq {
		if id != 0 {
			n++
		}
	}
	return n
}
