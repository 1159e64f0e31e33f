package prediction

import "sort"

// TopK ranks a probability distribution over classes and returns the k
// highest-probability entries in non-increasing order. Ties keep ascending
// class index, so ranking is deterministic for identical distributions.
func TopK(probs []float64, classes []string, k int) []Entry {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}
	top := make([]Entry, 0, k)
	for _, i := range idx[:k] {
		top = append(top, Entry{Disease: classes[i], Confidence: probs[i]})
	}
	return top
}
