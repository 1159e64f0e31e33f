package predict

import (
	"context"
	"fmt"
	"time"
)

// ExplainCondition looks a condition up in the built-in knowledge base.
// With detailed set, unknown conditions are sent to the AI explainer when
// one is configured (WithExplainAI); otherwise a generic answer comes back.
func (c *Client) ExplainCondition(ctx context.Context, condition string, detailed bool) (_ *ConditionInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("explain", start, err) }()

	info, err := c.explainer.Explain(ctx, condition, detailed)
	if err != nil {
		return nil, fmt.Errorf("explain condition: %w", err)
	}
	return conditionFromDomain(info), nil
}

// Conditions lists the knowledge base's condition names, sorted.
func (c *Client) Conditions() []string {
	return c.explainer.Available()
}

// SearchConditions finds knowledge-base conditions matching the term by
// name, description, or symptom.
func (c *Client) SearchConditions(term string) []*ConditionInfo {
	matches := c.explainer.Search(term)
	out := make([]*ConditionInfo, len(matches))
	for i := range matches {
		out[i] = conditionFromDomain(&matches[i])
	}
	return out
}
