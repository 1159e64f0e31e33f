package chi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medreserve/predict/internal/domain"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// allowedRegex bounds input to text a symptom description plausibly
	// contains: words, digits, and common punctuation.
	allowedRegex = regexp.MustCompile(`^[a-zA-Z0-9\s.,;:\-()'"!?/]+$`)

	// suspiciousRegexes flag likely injection payloads.
	suspiciousRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
		regexp.MustCompile(`(?i)<iframe`),
		regexp.MustCompile(`(?i)eval\s*\(`),
		regexp.MustCompile(`(?i)exec\s*\(`),
		regexp.MustCompile(`(?i)__import__`),
	}
)

// limits are the request validation bounds, taken from configuration.
type limits struct {
	minSymptomChars int
	maxSymptomChars int
	maxBatchSize    int
	maxTopFeatures  int
}

// sanitizeText collapses whitespace and trims the input.
func sanitizeText(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// validateSymptoms sanitizes one symptom description and rejects inputs
// outside the configured bounds or matching injection patterns.
func (l limits) validateSymptoms(symptoms string) (string, error) {
	sanitized := sanitizeText(symptoms)
	if sanitized == "" {
		return "", fmt.Errorf("%w: symptoms cannot be empty", domain.ErrValidation)
	}
	if len(sanitized) < l.minSymptomChars {
		return "", fmt.Errorf("%w: symptoms must be at least %d characters long",
			domain.ErrValidation, l.minSymptomChars)
	}
	if len(sanitized) > l.maxSymptomChars {
		return "", fmt.Errorf("%w: symptoms must not exceed %d characters",
			domain.ErrValidation, l.maxSymptomChars)
	}
	for _, re := range suspiciousRegexes {
		if re.MatchString(sanitized) {
			return "", fmt.Errorf("%w: invalid characters detected in symptoms", domain.ErrValidation)
		}
	}
	if !allowedRegex.MatchString(sanitized) {
		return "", fmt.Errorf("%w: symptoms contain invalid characters", domain.ErrValidation)
	}
	return sanitized, nil
}

// validateBatch validates every item and keeps the index in error messages
// so clients can locate the offender.
func (l limits) validateBatch(symptomsList []string) ([]string, error) {
	if len(symptomsList) == 0 {
		return nil, fmt.Errorf("%w: symptoms_list cannot be empty", domain.ErrValidation)
	}
	if len(symptomsList) > l.maxBatchSize {
		return nil, fmt.Errorf("%w: batch size must not exceed %d", domain.ErrValidation, l.maxBatchSize)
	}

	out := make([]string, len(symptomsList))
	for i, s := range symptomsList {
		sanitized, err := l.validateSymptoms(s)
		if err != nil {
			return nil, fmt.Errorf("invalid symptoms at index %d: %w", i, err)
		}
		out[i] = sanitized
	}
	return out, nil
}

// validateTopFeatures bounds the top_features parameter, defaulting when
// unset.
func (l limits) validateTopFeatures(n int) (int, error) {
	if n == 0 {
		return 10, nil
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: top_features must be at least 1", domain.ErrValidation)
	}
	if n > l.maxTopFeatures {
		return 0, fmt.Errorf("%w: top_features must not exceed %d", domain.ErrValidation, l.maxTopFeatures)
	}
	return n, nil
}
