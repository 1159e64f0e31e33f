package ml

import (
	"errors"
	"math"
	"strings"
)

// vectorizer mirrors a fitted TF-IDF vectorizer exported as JSON: a term
// vocabulary mapping n-grams to column indices and the per-column IDF
// weights learned at training time.
type vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NgramMin    int            `json:"ngram_min"`
	NgramMax    int            `json:"ngram_max"`
	MaxFeatures int            `json:"max_features"`
}

func (v *vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return errors.New("vectorizer has empty vocabulary")
	}
	if v.NgramMin == 0 {
		v.NgramMin = 1
	}
	if v.NgramMax < v.NgramMin {
		v.NgramMax = v.NgramMin
	}
	for term, col := range v.Vocabulary {
		if col < 0 || col >= len(v.IDF) {
			return errors.New("vectorizer vocabulary index out of range for term " + term)
		}
	}
	return nil
}

// transform converts already-cleaned text into a sparse, l2-normalized
// TF-IDF vector keyed by column index. An empty map means no token in the
// text is known to the vocabulary.
func (v *vectorizer) transform(cleaned string) map[int]float64 {
	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[int]int)
	for n := v.NgramMin; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			col, ok := v.Vocabulary[strings.Join(tokens[i:i+n], " ")]
			if !ok {
				continue
			}
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make(map[int]float64, len(counts))
	var norm float64
	for col, c := range counts {
		w := float64(c) * v.IDF[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}
