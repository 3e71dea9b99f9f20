// Package model holds the fitted feature encoder and classifier artifacts and
// the gateway that turns a profile into a risk score.
package model

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Skufu/heartguard/internal/profile"
)

// Bundle is a decoded encoder/classifier pair for one profile variant.
// It is immutable once Validate succeeds and safe for concurrent use.
type Bundle struct {
	Variant    profile.Variant
	Classes    []string
	Positive   int
	Encoder    *Encoder
	Classifier Classifier
}

type artifactFile struct {
	Variant       profile.Variant `yaml:"variant"`
	Classes       []string        `yaml:"classes"`
	PositiveClass string          `yaml:"positive_class"`
	Features      []Column        `yaml:"features"`
	Classifier    classifierSpec  `yaml:"classifier"`
}

type classifierSpec struct {
	Type         string    `yaml:"type"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
	SoftVoting   bool      `yaml:"soft_voting"`
	Trees        []Tree    `yaml:"trees"`
	Importances  []float64 `yaml:"importances"`
}

// ParseBundle decodes a YAML or JSON artifact document.
func ParseBundle(data []byte) (*Bundle, error) {
	var f artifactFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if _, err := profile.Lookup(f.Variant); err != nil {
		return nil, err
	}

	if len(f.Classes) != 2 {
		return nil, fmt.Errorf("artifact %s: expected 2 classes, got %d", f.Variant, len(f.Classes))
	}
	positive := -1
	for i, c := range f.Classes {
		if c == f.PositiveClass {
			positive = i
		}
	}
	if positive < 0 {
		return nil, fmt.Errorf("artifact %s: positive class %q is not one of %v", f.Variant, f.PositiveClass, f.Classes)
	}

	enc, err := NewEncoder(f.Features)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", f.Variant, err)
	}

	var clf Classifier
	switch f.Classifier.Type {
	case "logistic":
		clf = &Logistic{Intercept: f.Classifier.Intercept, Coefficients: f.Classifier.Coefficients}
	case "forest":
		forest := &Forest{Trees: f.Classifier.Trees, FeatureWeights: f.Classifier.Importances}
		if f.Classifier.SoftVoting {
			clf = SoftForest{Forest: forest}
		} else {
			clf = forest
		}
	default:
		return nil, fmt.Errorf("artifact %s: unsupported classifier type %q", f.Variant, f.Classifier.Type)
	}

	return &Bundle{
		Variant:    f.Variant,
		Classes:    f.Classes,
		Positive:   positive,
		Encoder:    enc,
		Classifier: clf,
	}, nil
}

type widthChecker interface {
	check(width int) error
}

// Validate checks that the bundle fits the schema and that the classifier
// matches the encoder's feature layout.
func (b *Bundle) Validate(s *profile.Schema) error {
	if b == nil || b.Encoder == nil || b.Classifier == nil {
		return fmt.Errorf("incomplete model bundle")
	}
	if s.Variant != b.Variant {
		return fmt.Errorf("bundle is for %s profiles, schema is %s", b.Variant, s.Variant)
	}
	if err := b.Encoder.check(s); err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	if wc, ok := b.Classifier.(widthChecker); ok {
		if err := wc.check(b.Encoder.Width()); err != nil {
			return fmt.Errorf("classifier: %w", err)
		}
	}
	return nil
}
