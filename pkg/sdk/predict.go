package predict

import (
	"context"
	"fmt"
	"time"
)

// Predict runs the weighted ensemble on one symptom description. When only
// one model is loaded, its answer is returned alone.
func (c *Client) Predict(ctx context.Context, symptoms string) (_ *Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe("predict", start, err) }()

	res, err := c.predictor.PredictSingle(ctx, symptoms)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return predictionFromResult(res), nil
}

// PredictBatch predicts every input. Per-item failures stay in the result
// slice so items remain positionally aligned with the inputs.
func (c *Client) PredictBatch(ctx context.Context, symptoms []string) (_ []BatchItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe("predict_batch", start, err) }()

	outcomes := c.predictor.PredictBatch(ctx, symptoms)
	items := make([]BatchItem, len(outcomes))
	for i, o := range outcomes {
		if o.Failed() {
			items[i] = BatchItem{Err: o.Err}
			continue
		}
		items[i] = BatchItem{Prediction: predictionFromResult(o.Result)}
	}
	return items, nil
}

// Compare runs both models side by side on the same input.
func (c *Client) Compare(ctx context.Context, symptoms string) (_ *Comparison, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err) }()

	return comparisonFromDomain(c.predictor.Compare(ctx, symptoms)), nil
}
