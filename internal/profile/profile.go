// Package profile defines the health profile shapes accepted by the engine and
// builds validated, immutable profiles from loosely typed input.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Skufu/heartguard/internal/bmi"
)

// Profile is a validated health profile. It is never mutated after New.
type Profile struct {
	schema  *Schema
	text    map[string]string
	numbers map[string]float64
	coerced []string
}

// New validates raw against s and builds a Profile.
//
// Closed vocabularies, required fields and numeric domains are enforced here.
// A numeric field holding a non-numeric string is coerced to NaN and reported
// through Coerced instead of failing the request.
func New(s *Schema, raw map[string]any) (*Profile, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrUnknownVariant)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := s.validator.validate(s.Variant, raw); err != nil {
		return nil, err
	}

	p := &Profile{
		schema:  s,
		text:    make(map[string]string),
		numbers: make(map[string]float64),
	}
	var problems []string
	for _, f := range s.Fields {
		if f.Derived {
			continue
		}
		v, ok := raw[f.Name]
		if !ok || v == nil {
			continue
		}
		switch f.Kind {
		case KindNumeric:
			n, parsed := toNumber(v)
			if !parsed {
				p.numbers[f.Name] = math.NaN()
				p.coerced = append(p.coerced, f.Name)
				continue
			}
			if n < f.Min || n > f.Max {
				problems = append(problems, fmt.Sprintf("%s: %v is outside [%g, %g]", f.Name, n, f.Min, f.Max))
				continue
			}
			p.numbers[f.Name] = n
		default:
			p.text[f.Name] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Variant: s.Variant, Problems: problems}
	}

	if f, ok := s.Field(FieldBMI); ok {
		if _, supplied := p.numbers[FieldBMI]; f.Derived || !supplied {
			p.numbers[FieldBMI] = p.BMI().Value
		}
	}
	return p, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Schema returns the shape p was validated against.
func (p *Profile) Schema() *Schema { return p.schema }

// Variant returns the variant tag of p.
func (p *Profile) Variant() Variant { return p.schema.Variant }

// Text returns a categorical value and whether it was supplied.
func (p *Profile) Text(name string) (string, bool) {
	v, ok := p.text[name]
	return v, ok
}

// Number returns a numeric value, NaN when it is missing or was coerced.
func (p *Profile) Number(name string) float64 {
	v, ok := p.numbers[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// Coerced lists numeric fields whose input could not be parsed.
func (p *Profile) Coerced() []string {
	return append([]string(nil), p.coerced...)
}

// BMI runs the calculator over the profile's weight and height.
func (p *Profile) BMI() bmi.Result {
	return bmi.Calculate(p.Number(FieldWeight), p.Number(FieldHeight))
}

// Is reports whether a categorical field equals value.
func (p *Profile) Is(name, value string) bool {
	v, ok := p.text[name]
	return ok && v == value
}

// Values returns a copy of the profile as a flat key/value map.
func (p *Profile) Values() map[string]any {
	out := make(map[string]any, len(p.text)+len(p.numbers))
	for k, v := range p.text {
		out[k] = v
	}
	for k, v := range p.numbers {
		if math.IsNaN(v) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}

// DecodeJSON decodes a JSON object into a raw profile map.
func DecodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode profile json: %w", err)
	}
	return raw, nil
}

// DecodeYAML decodes a YAML (or JSON) document into a raw profile map.
func DecodeYAML(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode profile yaml: %w", err)
	}
	return raw, nil
}
