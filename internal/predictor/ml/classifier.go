package ml

import (
	"fmt"
	"math"
)

const (
	modelRandomForest  = "random_forest"
	modelMultinomialNB = "multinomial_nb"
)

// classifier produces a class probability distribution from a sparse
// TF-IDF vector. Both supported model families are deserialized from the
// same exported-model artifact.
type classifier interface {
	proba(x map[int]float64) []float64
	numClasses() int
}

type modelArtifact struct {
	Type      string `json:"model_type"`
	NClasses  int    `json:"n_classes"`
	NFeatures int    `json:"n_features"`

	// random forest
	Trees              []decisionTree `json:"trees,omitempty"`
	NEstimators        int            `json:"n_estimators,omitempty"`
	MaxDepth           int            `json:"max_depth,omitempty"`
	FeatureImportances []float64      `json:"feature_importances,omitempty"`

	// multinomial naive bayes
	ClassLogPrior  []float64   `json:"class_log_prior,omitempty"`
	FeatureLogProb [][]float64 `json:"feature_log_prob,omitempty"`
}

// decisionTree holds one tree in sklearn's flattened array form. Leaf
// nodes carry a negative feature index and a per-class sample count in
// Value.
type decisionTree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func buildClassifier(art *modelArtifact) (classifier, error) {
	if art.NClasses < 2 {
		return nil, fmt.Errorf("model declares %d classes", art.NClasses)
	}
	switch art.Type {
	case modelRandomForest:
		if len(art.Trees) == 0 {
			return nil, fmt.Errorf("%s model has no trees", art.Type)
		}
		for i, t := range art.Trees {
			n := len(t.Feature)
			if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n ||
				len(t.Threshold) != n || len(t.Value) != n {
				return nil, fmt.Errorf("tree %d has inconsistent node arrays", i)
			}
			for _, v := range t.Value {
				if len(v) != art.NClasses {
					return nil, fmt.Errorf("tree %d leaf value width != %d classes", i, art.NClasses)
				}
			}
		}
		return &forest{trees: art.Trees, classes: art.NClasses}, nil
	case modelMultinomialNB:
		if len(art.ClassLogPrior) != art.NClasses || len(art.FeatureLogProb) != art.NClasses {
			return nil, fmt.Errorf("%s model arrays do not match %d classes", art.Type, art.NClasses)
		}
		return &naiveBayes{prior: art.ClassLogPrior, logProb: art.FeatureLogProb}, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", art.Type)
	}
}

type forest struct {
	trees   []decisionTree
	classes int
}

func (f *forest) numClasses() int { return f.classes }

// proba averages the normalized leaf class distributions across all trees,
// matching how sklearn forests vote with probabilities.
func (f *forest) proba(x map[int]float64) []float64 {
	sum := make([]float64, f.classes)
	for i := range f.trees {
		t := &f.trees[i]
		node := 0
		for t.Feature[node] >= 0 {
			if x[t.Feature[node]] <= t.Threshold[node] {
				node = t.ChildrenLeft[node]
			} else {
				node = t.ChildrenRight[node]
			}
		}
		var total float64
		for _, v := range t.Value[node] {
			total += v
		}
		if total == 0 {
			continue
		}
		for c, v := range t.Value[node] {
			sum[c] += v / total
		}
	}
	for c := range sum {
		sum[c] /= float64(len(f.trees))
	}
	return sum
}

type naiveBayes struct {
	prior   []float64
	logProb [][]float64
}

func (nb *naiveBayes) numClasses() int { return len(nb.prior) }

func (nb *naiveBayes) proba(x map[int]float64) []float64 {
	joint := make([]float64, len(nb.prior))
	for c := range joint {
		ll := nb.prior[c]
		row := nb.logProb[c]
		for col, v := range x {
			if col < len(row) {
				ll += v * row[col]
			}
		}
		joint[c] = ll
	}
	// exp-normalize with the max subtracted to stay in float range
	max := joint[0]
	for _, v := range joint[1:] {
		if v > max {
			max = v
		}
	}
	var total float64
	for c, v := range joint {
		joint[c] = math.Exp(v - max)
		total += joint[c]
	}
	for c := range joint {
		joint[c] /= total
	}
	return joint
}
