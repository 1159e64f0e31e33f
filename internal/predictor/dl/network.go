package dl

import (
	"fmt"
	"math"
)

// network is an exported Keras-style model: an embedding table, one LSTM
// layer whose kernels pack the input/forget/cell/output gates in that
// order, and a dense softmax head.
type network struct {
	Embedding     [][]float64 `json:"embedding"`
	LSTMKernel    [][]float64 `json:"lstm_kernel"`
	LSTMRecurrent [][]float64 `json:"lstm_recurrent"`
	LSTMBias      []float64   `json:"lstm_bias"`
	DenseKernel   [][]float64 `json:"dense_kernel"`
	DenseBias     []float64   `json:"dense_bias"`
}

func (n *network) validate() error {
	if len(n.Embedding) == 0 || len(n.Embedding[0]) == 0 {
		return fmt.Errorf("empty embedding table")
	}
	embDim := len(n.Embedding[0])
	units := len(n.LSTMRecurrent)
	if units == 0 || len(n.LSTMBias) != 4*units {
		return fmt.Errorf("lstm bias length %d does not match %d units", len(n.LSTMBias), units)
	}
	if len(n.LSTMKernel) != embDim {
		return fmt.Errorf("lstm kernel rows %d do not match embedding dim %d", len(n.LSTMKernel), embDim)
	}
	for _, row := range n.LSTMKernel {
		if len(row) != 4*units {
			return fmt.Errorf("lstm kernel width %d, want %d", len(row), 4*units)
		}
	}
	for _, row := range n.LSTMRecurrent {
		if len(row) != 4*units {
			return fmt.Errorf("lstm recurrent width %d, want %d", len(row), 4*units)
		}
	}
	if len(n.DenseKernel) != units {
		return fmt.Errorf("dense kernel rows %d do not match %d units", len(n.DenseKernel), units)
	}
	if len(n.DenseBias) == 0 || len(n.DenseKernel[0]) != len(n.DenseBias) {
		return fmt.Errorf("dense head shape mismatch")
	}
	return nil
}

func (n *network) units() int   { return len(n.LSTMRecurrent) }
func (n *network) embDim() int  { return len(n.Embedding[0]) }
func (n *network) classes() int { return len(n.DenseBias) }

// forward runs the full sequence through the LSTM and returns the softmax
// distribution from the final hidden state. Padding ids run through the
// recurrence like any other step, matching a model trained without
// masking.
func (n *network) forward(seq []int) []float64 {
	units := n.units()
	h := make([]float64, units)
	c := make([]float64, units)
	gates := make([]float64, 4*units)

	for _, id := range seq {
		if id < 0 || id >= len(n.Embedding) {
			id = 0
		}
		emb := n.Embedding[id]

		copy(gates, n.LSTMBias)
		for j, x := range emb {
			if x == 0 {
				continue
			}
			row := n.LSTMKernel[j]
			for k := range gates {
				gates[k] += x * row[k]
			}
		}
		for j, hv := range h {
			if hv == 0 {
				continue
			}
			row := n.LSTMRecurrent[j]
			for k := range gates {
				gates[k] += hv * row[k]
			}
		}

		for u := 0; u < units; u++ {
			i := sigmoid(gates[u])
			f := sigmoid(gates[units+u])
			g := math.Tanh(gates[2*units+u])
			o := sigmoid(gates[3*units+u])
			c[u] = f*c[u] + i*g
			h[u] = o * math.Tanh(c[u])
		}
	}

	logits := make([]float64, n.classes())
	copy(logits, n.DenseBias)
	for u, hv := range h {
		row := n.DenseKernel[u]
		for k := range logits {
			logits[k] += hv * row[k]
		}
	}
	return softmax(logits)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	var total float64
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = math.Exp(v - max)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
