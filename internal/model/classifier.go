package model

import (
	"fmt"
	"math"
)

// Classifier predicts a class index from a feature vector.
type Classifier interface {
	Predict(x []float64) int
}

// ProbabilityClassifier also reports a probability per class.
type ProbabilityClassifier interface {
	Classifier
	PredictProba(x []float64) []float64
}

// ImportanceReporter exposes per-feature importances aligned with the
// encoder's feature names.
type ImportanceReporter interface {
	Importances() []float64
}

// Logistic is a binary logistic regression.
type Logistic struct {
	Intercept    float64
	Coefficients []float64
}

func (l *Logistic) positive(x []float64) float64 {
	z := l.Intercept
	for i, c := range l.Coefficients {
		if i >= len(x) || math.IsNaN(x[i]) {
			continue
		}
		z += c * x[i]
	}
	return 1 / (1 + math.Exp(-z))
}

func (l *Logistic) Predict(x []float64) int {
	if l.positive(x) >= 0.5 {
		return 1
	}
	return 0
}

func (l *Logistic) PredictProba(x []float64) []float64 {
	p := l.positive(x)
	return []float64{1 - p, p}
}

// Importances are the absolute coefficients normalised to sum to one.
func (l *Logistic) Importances() []float64 {
	out := make([]float64, len(l.Coefficients))
	var total float64
	for i, c := range l.Coefficients {
		out[i] = math.Abs(c)
		total += out[i]
	}
	if total == 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func (l *Logistic) check(width int) error {
	if len(l.Coefficients) != width {
		return fmt.Errorf("logistic: %d coefficients for %d features", len(l.Coefficients), width)
	}
	return nil
}

// Node is a decision tree node. Leaves carry the positive-class probability.
type Node struct {
	Leaf      bool    `yaml:"leaf,omitempty" json:"leaf,omitempty"`
	Value     float64 `yaml:"value,omitempty" json:"value,omitempty"`
	Feature   int     `yaml:"feature,omitempty" json:"feature,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Left      int     `yaml:"left,omitempty" json:"left,omitempty"`
	Right     int     `yaml:"right,omitempty" json:"right,omitempty"`
}

// Tree is a flattened binary decision tree rooted at node 0.
type Tree struct {
	Nodes []Node `yaml:"nodes" json:"nodes"`
}

// leaf walks x <= threshold to the left. NaN comparisons are false, so
// missing values go right.
func (t Tree) leaf(x []float64) float64 {
	i := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return math.NaN()
}

func (t Tree) check(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			if n.Value < 0 || n.Value > 1 {
				return fmt.Errorf("node %d: leaf value %g outside [0, 1]", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: children must point forward inside the tree", i)
		}
	}
	return nil
}

// Forest is a binary random forest using majority voting. It does not expose
// probabilities; wrap it with SoftForest for that.
type Forest struct {
	Trees          []Tree
	FeatureWeights []float64
}

func (f *Forest) Predict(x []float64) int {
	votes := 0
	for _, t := range f.Trees {
		if t.leaf(x) >= 0.5 {
			votes++
		}
	}
	if votes*2 > len(f.Trees) {
		return 1
	}
	return 0
}

func (f *Forest) Importances() []float64 {
	return append([]float64(nil), f.FeatureWeights...)
}

func (f *Forest) check(width int) error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest: no trees")
	}
	for i, t := range f.Trees {
		if err := t.check(width); err != nil {
			return fmt.Errorf("forest tree %d: %w", i, err)
		}
	}
	if len(f.FeatureWeights) != 0 && len(f.FeatureWeights) != width {
		return fmt.Errorf("forest: %d importances for %d features", len(f.FeatureWeights), width)
	}
	return nil
}

// SoftForest averages leaf probabilities across trees.
type SoftForest struct {
	*Forest
}

func (f SoftForest) PredictProba(x []float64) []float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.leaf(x)
	}
	p := sum / float64(len(f.Trees))
	return []float64{1 - p, p}
}

func (f SoftForest) Predict(x []float64) int {
	if f.PredictProba(x)[1] >= 0.5 {
		return 1
	}
	return 0
}
