package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Skufu/heartguard/internal/profile"
)

// ScoreSource tells how a score was derived.
type ScoreSource string

const (
	SourceProbability ScoreSource = "probability"
	SourceHeuristic   ScoreSource = "heuristic"
)

// Scores used when the classifier cannot report probabilities.
const (
	HeuristicElevatedScore = 75.0
	HeuristicBaselineScore = 25.0
)

const topFeatureCount = 10

// ErrVariantMismatch is returned when a profile is routed to the wrong gateway.
var ErrVariantMismatch = errors.New("profile variant does not match model")

// FeatureImportance is one entry of the classifier's importance ranking.
type FeatureImportance struct {
	Feature    string  `json:"feature" yaml:"feature"`
	Importance float64 `json:"importance" yaml:"importance"`
}

// Prediction is the normalised classifier output.
type Prediction struct {
	Score         float64
	Label         string
	Positive      bool
	Source        ScoreSource
	Substitutions []Substitution
	TopFeatures   []FeatureImportance
}

// Gateway encodes profiles and invokes the classifier of one bundle.
type Gateway struct {
	bundle      *Bundle
	topFeatures []FeatureImportance
}

// NewGateway validates b against its variant's schema.
func NewGateway(b *Bundle) (*Gateway, error) {
	if b == nil {
		return nil, fmt.Errorf("model bundle is required")
	}
	s, err := profile.Lookup(b.Variant)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(s); err != nil {
		return nil, fmt.Errorf("%s bundle: %w", b.Variant, err)
	}
	return &Gateway{bundle: b, topFeatures: rankImportances(b)}, nil
}

// Variant is the profile variant the gateway serves.
func (g *Gateway) Variant() profile.Variant { return g.bundle.Variant }

// Predict scores p. Unknown categories and missing numbers are recoverable and
// reported in the prediction; only a misrouted profile fails.
func (g *Gateway) Predict(p *profile.Profile) (Prediction, error) {
	if p.Variant() != g.bundle.Variant {
		return Prediction{}, fmt.Errorf("%w: got %s, want %s", ErrVariantMismatch, p.Variant(), g.bundle.Variant)
	}

	x, subs := g.bundle.Encoder.Encode(p)
	class := g.bundle.Classifier.Predict(x)
	if class < 0 || class >= len(g.bundle.Classes) {
		class = 0
	}
	pred := Prediction{
		Label:         g.bundle.Classes[class],
		Positive:      class == g.bundle.Positive,
		Substitutions: subs,
		TopFeatures:   g.topFeatures,
	}

	pred.Source = SourceHeuristic
	if pc, ok := g.bundle.Classifier.(ProbabilityClassifier); ok {
		probs := pc.PredictProba(x)
		if g.bundle.Positive < len(probs) && !math.IsNaN(probs[g.bundle.Positive]) {
			pred.Score = math.Round(probs[g.bundle.Positive]*1000) / 10
			pred.Source = SourceProbability
		}
	}
	if pred.Source == SourceHeuristic {
		pred.Score = HeuristicBaselineScore
		if pred.Positive {
			pred.Score = HeuristicElevatedScore
		}
	}
	pred.Score = ClampScore(pred.Score)
	return pred, nil
}

// ClampScore bounds s to [0, 100]; NaN becomes 0.
func ClampScore(s float64) float64 {
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case s > 100:
		return 100
	default:
		return s
	}
}

func rankImportances(b *Bundle) []FeatureImportance {
	ir, ok := b.Classifier.(ImportanceReporter)
	if !ok {
		return nil
	}
	weights := ir.Importances()
	names := b.Encoder.FeatureNames()
	if len(weights) == 0 || len(weights) != len(names) {
		return nil
	}
	ranked := make([]FeatureImportance, len(weights))
	for i, w := range weights {
		ranked[i] = FeatureImportance{Feature: names[i], Importance: w}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})
	if len(ranked) > topFeatureCount {
		ranked = ranked[:topFeatureCount]
	}
	return ranked
}
