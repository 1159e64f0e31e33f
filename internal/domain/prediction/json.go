package prediction

import (
	"encoding/json"
	"errors"

	"github.com/medreserve/predict/internal/domain"
)

// outcomeError is the wire shape of a failed outcome. It mirrors the
// error-result schema of successful predictions: the error message plus the
// offending texts when empty input caused the failure.
type outcomeError struct {
	Error        string `json:"error"`
	OriginalText string `json:"original_text,omitempty"`
	CleanedText  string `json:"cleaned_text,omitempty"`
}

// MarshalJSON encodes the outcome as either a prediction object or an error object.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err == nil {
		return json.Marshal(o.Prediction)
	}

	oe := outcomeError{Error: o.Err.Error()}
	var empty *domain.EmptyInputError
	if errors.As(o.Err, &empty) {
		oe.OriginalText = empty.OriginalText
		oe.CleanedText = empty.CleanedText
	}
	return json.Marshal(oe)
}

// UnmarshalJSON decodes an outcome previously encoded by MarshalJSON.
// Reconstructed errors keep their message and (for empty-input failures)
// their sentinel identity; other concrete error types are not recoverable.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Error == "" {
		return json.Unmarshal(data, &o.Prediction)
	}

	if probe.Error == domain.ErrNoUsableSymptoms.Error() {
		var oe outcomeError
		if err := json.Unmarshal(data, &oe); err != nil {
			return err
		}
		o.Err = domain.NewEmptyInput(oe.OriginalText, oe.CleanedText)
		return nil
	}

	o.Err = errors.New(probe.Error)
	return nil
}
