package model

import (
	"fmt"
	"math"

	"github.com/Skufu/heartguard/internal/profile"
)

// Encoding names how a profile field becomes feature columns.
type Encoding string

const (
	EncodingLabel   Encoding = "label"
	EncodingOneHot  Encoding = "onehot"
	EncodingBinary  Encoding = "binary"
	EncodingNumeric Encoding = "numeric"
)

// Column is one fitted encoder entry. Columns are applied in order and
// produce the feature layout the classifier was trained on.
type Column struct {
	Name       string   `yaml:"name" json:"name"`
	Encoding   Encoding `yaml:"encoding" json:"encoding"`
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	// Unknown is the class used for values outside Categories. When empty,
	// the first category is used instead.
	Unknown string `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	// Fill replaces missing numeric values. Without it NaN is passed through.
	Fill *float64 `yaml:"fill,omitempty" json:"fill,omitempty"`

	index map[string]int
}

func (c *Column) width() int {
	if c.Encoding == EncodingOneHot {
		return len(c.Categories)
	}
	return 1
}

func (c *Column) prepare() error {
	switch c.Encoding {
	case EncodingLabel, EncodingOneHot:
		if len(c.Categories) == 0 {
			return fmt.Errorf("column %s: %s encoding needs categories", c.Name, c.Encoding)
		}
	case EncodingBinary:
		if len(c.Categories) == 0 {
			c.Categories = []string{profile.No, profile.Yes}
		}
		if len(c.Categories) != 2 {
			return fmt.Errorf("column %s: binary encoding needs exactly two categories", c.Name)
		}
	case EncodingNumeric:
		return nil
	default:
		return fmt.Errorf("column %s: unsupported encoding %q", c.Name, c.Encoding)
	}
	c.index = make(map[string]int, len(c.Categories))
	for i, v := range c.Categories {
		c.index[v] = i
	}
	if c.Unknown != "" {
		if _, ok := c.index[c.Unknown]; !ok {
			return fmt.Errorf("column %s: unknown class %q is not a category", c.Name, c.Unknown)
		}
	}
	return nil
}

// Substitution records a recoverable encoding fallback.
type Substitution struct {
	Field    string `json:"field" yaml:"field"`
	Input    string `json:"input" yaml:"input"`
	Resolved string `json:"resolved" yaml:"resolved"`
	Reason   string `json:"reason" yaml:"reason"`
}

func (s Substitution) String() string {
	return fmt.Sprintf("%s: %s (%q -> %q)", s.Field, s.Reason, s.Input, s.Resolved)
}

const (
	reasonUnknownCategory = "unknown category"
	reasonMissingNumeric  = "missing numeric value"
)

// Encoder turns a profile into a feature vector.
type Encoder struct {
	columns []Column
	names   []string
}

// NewEncoder prepares columns for encoding.
func NewEncoder(columns []Column) (*Encoder, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("encoder has no columns")
	}
	e := &Encoder{columns: make([]Column, len(columns))}
	copy(e.columns, columns)
	for i := range e.columns {
		c := &e.columns[i]
		if err := c.prepare(); err != nil {
			return nil, err
		}
		if c.Encoding == EncodingOneHot {
			for _, cat := range c.Categories {
				e.names = append(e.names, c.Name+"_"+cat)
			}
			continue
		}
		e.names = append(e.names, c.Name)
	}
	return e, nil
}

// Width is the length of encoded vectors.
func (e *Encoder) Width() int { return len(e.names) }

// FeatureNames returns the encoded column names in vector order.
func (e *Encoder) FeatureNames() []string {
	return append([]string(nil), e.names...)
}

// Encode builds the feature vector for p. Fallbacks never fail the call;
// they are returned as substitutions.
func (e *Encoder) Encode(p *profile.Profile) ([]float64, []Substitution) {
	x := make([]float64, 0, len(e.names))
	var subs []Substitution
	for i := range e.columns {
		c := &e.columns[i]
		if c.Encoding == EncodingNumeric {
			v := p.Number(c.Name)
			if math.IsNaN(v) && c.Fill != nil {
				subs = append(subs, Substitution{
					Field:    c.Name,
					Resolved: fmt.Sprintf("%g", *c.Fill),
					Reason:   reasonMissingNumeric,
				})
				v = *c.Fill
			}
			x = append(x, v)
			continue
		}

		value, _ := p.Text(c.Name)
		idx, ok := c.index[value]
		if !ok {
			fallback := c.Categories[0]
			if c.Unknown != "" {
				fallback = c.Unknown
			}
			idx = c.index[fallback]
			subs = append(subs, Substitution{
				Field:    c.Name,
				Input:    value,
				Resolved: fallback,
				Reason:   reasonUnknownCategory,
			})
		}

		if c.Encoding == EncodingOneHot {
			for j := range c.Categories {
				if j == idx {
					x = append(x, 1)
				} else {
					x = append(x, 0)
				}
			}
			continue
		}
		x = append(x, float64(idx))
	}
	return x, subs
}

func (e *Encoder) check(s *profile.Schema) error {
	for _, c := range e.columns {
		f, ok := s.Field(c.Name)
		if !ok {
			return fmt.Errorf("column %s is not a %s profile field", c.Name, s.Variant)
		}
		numeric := f.Kind == profile.KindNumeric
		if numeric != (c.Encoding == EncodingNumeric) {
			return fmt.Errorf("column %s: %s encoding does not fit a %s field", c.Name, c.Encoding, f.Kind)
		}
	}
	return nil
}
