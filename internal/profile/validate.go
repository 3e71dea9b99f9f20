package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ValidationError lists every problem found in a raw profile.
type ValidationError struct {
	Variant  Variant
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s profile: %s", e.Variant, strings.Join(e.Problems, "; "))
}

type validator struct {
	schema *jsonschema.Schema
}

// JSONSchema renders the schema as a JSON Schema document.
// Numeric fields also accept strings; unparsable strings are coerced later.
func (s *Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		prop := map[string]any{}
		if f.Label != "" {
			prop["title"] = f.Label
		}
		switch f.Kind {
		case KindNumeric:
			if f.Derived {
				prop["description"] = "derived from weight and height; input is ignored"
				break
			}
			prop["type"] = []any{"number", "string"}
			prop["minimum"] = f.Min
			prop["maximum"] = f.Max
		default:
			prop["type"] = "string"
			if f.Open {
				prop["minLength"] = 1
				if len(f.Values) > 0 {
					prop["examples"] = toAny(f.Values)
				}
			} else {
				prop["enum"] = toAny(f.Values)
			}
		}
		properties[f.Name] = prop
		if f.Required() {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"$id":        schemaURL(s.Variant),
		"title":      fmt.Sprintf("HealthProfile (%s)", s.Variant),
		"type":       "object",
		"properties": properties,
		"required":   toAny(required),
	}
}

func schemaURL(v Variant) string {
	return fmt.Sprintf("schema://heartguard/profile-%s.json", v)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func mustCompile(s *Schema) *validator {
	v, err := compile(s)
	if err != nil {
		panic(fmt.Sprintf("compile %s profile schema: %v", s.Variant, err))
	}
	return v
}

func compile(s *Schema) (*validator, error) {
	// The compiler wants a decoded JSON value, so round-trip the document.
	raw, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := schemaURL(s.Variant)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return &validator{schema: compiled}, nil
}

func (v *validator) validate(variant Variant, raw map[string]any) error {
	err := v.schema.Validate(normalize(raw))
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Variant: variant, Problems: []string{err.Error()}}
	}
	var problems []string
	collect(ve, &problems)
	sort.Strings(problems)
	return &ValidationError{Variant: variant, Problems: problems}
}

func collect(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		msg := ve.ErrorKind.LocalizedString(printer)
		if len(ve.InstanceLocation) > 0 {
			msg = strings.Join(ve.InstanceLocation, "/") + ": " + msg
		}
		*out = append(*out, msg)
		return
	}
	for _, c := range ve.Causes {
		collect(c, out)
	}
}

// normalize round-trips raw through JSON so the validator only sees JSON types
// regardless of which decoder produced the map.
func normalize(raw map[string]any) any {
	b, err := json.Marshal(raw)
	if err != nil {
		return raw
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return raw
	}
	return doc
}
