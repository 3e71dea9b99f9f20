// Package assess composes BMI, model scoring, factor analysis and
// recommendations into a single risk assessment.
package assess

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/factors"
	"github.com/Skufu/heartguard/internal/model"
	"github.com/Skufu/heartguard/internal/profile"
	"github.com/Skufu/heartguard/internal/recommend"
)

// RiskAssessment is the result of one assessment request.
type RiskAssessment struct {
	ID              string                     `json:"id" yaml:"id"`
	Variant         profile.Variant            `json:"variant" yaml:"variant"`
	Score           float64                    `json:"score" yaml:"score"`
	Category        Category                   `json:"category" yaml:"category"`
	Strategy        profile.Strategy           `json:"strategy" yaml:"strategy"`
	Label           string                     `json:"label" yaml:"label"`
	ScoreSource     model.ScoreSource          `json:"scoreSource" yaml:"scoreSource"`
	BMI             bmi.Result                 `json:"bmi" yaml:"bmi"`
	Factors         []factors.RiskFactor       `json:"factors" yaml:"factors"`
	Recommendations []recommend.Recommendation `json:"recommendations" yaml:"recommendations"`
	TopFeatures     []model.FeatureImportance  `json:"topFeatures,omitempty" yaml:"topFeatures,omitempty"`
	Notices         []string                   `json:"notices,omitempty" yaml:"notices,omitempty"`
}

// Engine assesses profiles of one variant.
type Engine struct {
	gateway     *model.Gateway
	strategy    CategoryStrategy
	recommender *recommend.Engine
	logger      *zap.Logger
}

// NewEngine wires an engine around a gateway. A nil logger disables logging.
func NewEngine(g *model.Gateway, strategy CategoryStrategy, logger *zap.Logger) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("model gateway is required")
	}
	if strategy == nil {
		return nil, fmt.Errorf("category strategy is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		gateway:     g,
		strategy:    strategy,
		recommender: recommend.NewEngine(),
		logger:      logger.With(zap.String("variant", string(g.Variant()))),
	}, nil
}

// Variant is the profile variant this engine accepts.
func (e *Engine) Variant() profile.Variant { return e.gateway.Variant() }

// Strategy is the configured category strategy.
func (e *Engine) Strategy() CategoryStrategy { return e.strategy }

// Assess builds the full assessment for p. Recoverable fallbacks are logged
// and listed in Notices.
func (e *Engine) Assess(p *profile.Profile) (*RiskAssessment, error) {
	b := p.BMI()

	pred, err := e.gateway.Predict(p)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	riskFactors := factors.Analyze(p, b)
	recs := e.recommender.Recommend(recommend.Input{Profile: p, BMI: b, Factors: riskFactors})

	a := &RiskAssessment{
		ID:              uuid.NewString(),
		Variant:         p.Variant(),
		Score:           pred.Score,
		Category:        e.strategy.Categorize(pred),
		Strategy:        e.strategy.Name(),
		Label:           pred.Label,
		ScoreSource:     pred.Source,
		BMI:             b,
		Factors:         riskFactors,
		Recommendations: recs,
		TopFeatures:     append([]model.FeatureImportance(nil), pred.TopFeatures...),
		Notices:         e.notices(p, b, pred),
	}

	e.logger.Info("assessment completed",
		zap.String("assessment_id", a.ID),
		zap.Float64("score", a.Score),
		zap.String("category", string(a.Category)),
		zap.String("score_source", string(a.ScoreSource)),
		zap.Int("notices", len(a.Notices)),
	)
	return a, nil
}

func (e *Engine) notices(p *profile.Profile, b bmi.Result, pred model.Prediction) []string {
	var out []string
	for _, s := range pred.Substitutions {
		e.logger.Warn("encoder substitution",
			zap.String("field", s.Field),
			zap.String("input", s.Input),
			zap.String("resolved", s.Resolved),
			zap.String("reason", s.Reason),
		)
		out = append(out, s.String())
	}
	for _, f := range p.Coerced() {
		e.logger.Warn("non-numeric value treated as missing", zap.String("field", f))
		out = append(out, fmt.Sprintf("%s: non-numeric value treated as missing", f))
	}
	if !b.Known() {
		out = append(out, "BMI: weight or height unusable, BMI not computed")
	}
	if pred.Source == model.SourceHeuristic {
		e.logger.Debug("classifier reported no probability, using heuristic score")
		out = append(out, fmt.Sprintf("score: classifier reports no probability, heuristic %.0f used", pred.Score))
	}
	return out
}

// Registry holds one engine per configured variant.
type Registry struct {
	engines map[profile.Variant]*Engine
	def     profile.Variant
}

// NewRegistry indexes engines by variant. def must be one of them.
func NewRegistry(def profile.Variant, engines ...*Engine) (*Registry, error) {
	r := &Registry{engines: make(map[profile.Variant]*Engine, len(engines)), def: def}
	for _, e := range engines {
		if _, dup := r.engines[e.Variant()]; dup {
			return nil, fmt.Errorf("duplicate engine for %s profiles", e.Variant())
		}
		r.engines[e.Variant()] = e
	}
	if _, ok := r.engines[def]; !ok {
		return nil, fmt.Errorf("default variant %q has no engine", def)
	}
	return r, nil
}

// Default is the variant used when a request does not name one.
func (r *Registry) Default() profile.Variant { return r.def }

// Variants lists the served variants.
func (r *Registry) Variants() []profile.Variant {
	out := make([]profile.Variant, 0, len(r.engines))
	for v := range r.engines {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Engine returns the engine for v.
func (r *Registry) Engine(v profile.Variant) (*Engine, error) {
	e, ok := r.engines[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not served", profile.ErrUnknownVariant, v)
	}
	return e, nil
}

// AssessRaw validates raw as a profile of variant v and assesses it.
// Validation failures are returned as *profile.ValidationError.
func (r *Registry) AssessRaw(v profile.Variant, raw map[string]any) (*RiskAssessment, error) {
	e, err := r.Engine(v)
	if err != nil {
		return nil, err
	}
	s, err := profile.Lookup(v)
	if err != nil {
		return nil, err
	}
	p, err := profile.New(s, raw)
	if err != nil {
		return nil, err
	}
	return e.Assess(p)
}
