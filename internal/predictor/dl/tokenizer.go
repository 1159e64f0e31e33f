package dl

import (
	"errors"
	"strings"
)

// tokenizer mirrors a fitted Keras text tokenizer: a word index assigning
// ranks starting at 1, an out-of-vocabulary token, and an optional cap on
// the number of words kept.
type tokenizer struct {
	WordIndex map[string]int `json:"word_index"`
	OOVToken  string         `json:"oov_token"`
	NumWords  int            `json:"num_words"`
}

func (t *tokenizer) validate() error {
	if len(t.WordIndex) == 0 {
		return errors.New("tokenizer has empty word index")
	}
	return nil
}

// sequence converts cleaned text into padded token ids of length maxLen.
// Unknown words map to the OOV id when one is configured and are dropped
// otherwise. Index 0 is reserved for padding.
func (t *tokenizer) sequence(cleaned string, maxLen int) []int {
	oov := 0
	if t.OOVToken != "" {
		oov = t.WordIndex[t.OOVToken]
	}

	seq := make([]int, 0, maxLen)
	for _, word := range strings.Fields(cleaned) {
		id, ok := t.WordIndex[word]
		if !ok || (t.NumWords > 0 && id >= t.NumWords) {
			id = oov
		}
		if id == 0 {
			continue
		}
		seq = append(seq, id)
		if len(seq) == maxLen {
			break
		}
	}

	for len(seq) < maxLen {
		seq = append(seq, 0)
	}
	return seq
}
