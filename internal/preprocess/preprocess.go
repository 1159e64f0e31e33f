// Package preprocess normalizes raw symptom text into the token stream the
// predictors were trained on.
package preprocess

import (
	"regexp"
	"strings"
)

var (
	urlRegex        = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	emailRegex      = regexp.MustCompile(`\S+@\S+`)
	bareNumberRegex = regexp.MustCompile(`\b\d+\b`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	punctRegex      = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Preprocessor cleans symptom descriptions: lowercasing, URL/email/number
// stripping, tokenization, stopword removal, and (optionally) lemmatization.
//
// Lemmatization availability is an explicit construction-time choice: a
// deployment without the lemma rules produces different cleaned text than one
// with them, so the two variants are separate constructors rather than a
// silent runtime fallback.
type Preprocessor struct {
	lemmatize bool
}

// New creates a preprocessor with the full pipeline including lemmatization.
func New() *Preprocessor {
	return &Preprocessor{lemmatize: true}
}

// NewBasic creates the fallback preprocessor without lemmatization:
// punctuation stripping and stopword filtering only.
func NewBasic() *Preprocessor {
	return &Preprocessor{lemmatize: false}
}

// Clean normalizes raw text into a whitespace-joined token string.
// Returns "" when nothing usable remains; never fails.
func (p *Preprocessor) Clean(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = urlRegex.ReplaceAllString(text, "")
	text = emailRegex.ReplaceAllString(text, "")
	text = bareNumberRegex.ReplaceAllString(text, "")
	text = punctRegex.ReplaceAllString(text, " ")

	var tokens []string
	for _, tok := range strings.Fields(text) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if p.lemmatize {
			tok = lemma(tok)
			if len(tok) <= 2 {
				continue
			}
			if _, stop := stopwords[tok]; stop {
				continue
			}
		}
		tokens = append(tokens, tok)
	}

	return strings.Join(tokens, " ")
}
