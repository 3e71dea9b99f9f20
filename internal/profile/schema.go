package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Variant tags a profile shape. Each variant is bound to its own encoder and
// classifier artifacts.
type Variant string

const (
	VariantCore     Variant = "core"
	VariantExtended Variant = "extended"
)

// ErrUnknownVariant is returned when a variant name has no schema.
var ErrUnknownVariant = errors.New("unknown profile variant")

// Kind is the value kind of a profile field.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindBinary      Kind = "binary"
	KindNumeric     Kind = "numeric"
)

// Field names used by the decision rules.
const (
	FieldSex                = "Sex"
	FieldAgeCategory        = "AgeCategory"
	FieldState              = "State"
	FieldHeight             = "HeightInMeters"
	FieldWeight             = "WeightInKilograms"
	FieldBMI                = "BMI"
	FieldGeneralHealth      = "GeneralHealth"
	FieldHadStroke          = "HadStroke"
	FieldHadAngina          = "HadAngina"
	FieldSmokerStatus       = "SmokerStatus"
	FieldRemovedTeeth       = "RemovedTeeth"
	FieldTetanus            = "TetanusLast10Tdap"
	FieldSleepHours         = "SleepHours"
	FieldPhysicalHealthDays = "PhysicalHealthDays"
	FieldMentalHealthDays   = "MentalHealthDays"
)

const (
	Yes = "Yes"
	No  = "No"
)

// Field describes one attribute of a profile.
type Field struct {
	Name  string
	Kind  Kind
	Label string
	// Values is the closed vocabulary of a categorical field. For Open fields
	// it only lists known values; the encoder owns the real vocabulary.
	Values []string
	Open   bool
	Min    float64
	Max    float64
	// Derived fields are computed and never taken from input.
	Derived bool
	// Optional fields may be omitted.
	Optional bool
}

// Required reports whether the field must be present in raw input.
func (f Field) Required() bool {
	return !f.Derived && !f.Optional
}

// Strategy names how a numeric score becomes a risk category.
type Strategy string

const (
	StrategyTiered Strategy = "tiered"
	StrategyBinary Strategy = "binary"
)

// Schema is a named profile shape.
type Schema struct {
	Variant         Variant
	Fields          []Field
	DefaultStrategy Strategy

	index     map[string]int
	validator *validator
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

func newSchema(variant Variant, strategy Strategy, fields []Field) *Schema {
	s := &Schema{
		Variant:         variant,
		Fields:          fields,
		DefaultStrategy: strategy,
		index:           make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		s.index[f.Name] = i
	}
	s.validator = mustCompile(s)
	return s
}

var (
	AgeCategories = []string{
		"18-24", "25-29", "30-34", "35-39", "40-44", "45-49",
		"50-54", "55-59", "60-64", "65-69", "70-74", "75-79", "80+",
	}
	GeneralHealthValues = []string{"Poor", "Fair", "Good", "Very good", "Excellent"}
	yesNo               = []string{Yes, No}
	usStates            = []string{
		"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
		"Connecticut", "Delaware", "District of Columbia", "Florida", "Georgia",
		"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas", "Kentucky",
		"Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
		"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
		"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota",
		"Ohio", "Oklahoma", "Oregon", "Pennsylvania", "Rhode Island",
		"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
		"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
	}
)

func binary(name, label string) Field {
	return Field{Name: name, Kind: KindBinary, Label: label, Values: yesNo}
}

func numeric(name, label string, min, max float64) Field {
	return Field{Name: name, Kind: KindNumeric, Label: label, Min: min, Max: max}
}

// Core is the 15-field profile.
var Core = newSchema(VariantCore, StrategyTiered, []Field{
	{Name: FieldSex, Kind: KindCategorical, Label: "Sex", Values: []string{"Male", "Female", "Other"}},
	{Name: FieldAgeCategory, Kind: KindCategorical, Label: "Age Category", Values: AgeCategories},
	{Name: FieldState, Kind: KindCategorical, Label: "State", Values: usStates, Open: true},
	numeric(FieldHeight, "Height (m)", 1.0, 2.5),
	numeric(FieldWeight, "Weight (kg)", 30, 200),
	{Name: FieldBMI, Kind: KindNumeric, Label: "Body Mass Index", Derived: true},
	{Name: FieldGeneralHealth, Kind: KindCategorical, Label: "General Health", Values: GeneralHealthValues},
	binary(FieldHadStroke, "Had Stroke"),
	binary(FieldHadAngina, "Had Angina"),
	{Name: FieldSmokerStatus, Kind: KindCategorical, Label: "Smoker Status",
		Values: []string{"Never smoked", "Former smoker", "Current smoker"}},
	{Name: FieldRemovedTeeth, Kind: KindCategorical, Label: "Removed Teeth",
		Values: []string{"None", "1 to 5", "6 or more but not all", "All"}, Open: true},
	binary(FieldTetanus, "Tetanus Vaccine Last 10 Years"),
	numeric(FieldSleepHours, "Average Sleep Hours per Day", 0, 24),
	numeric(FieldPhysicalHealthDays, "Days with Physical Health Issues (Last 30 Days)", 0, 30),
	numeric(FieldMentalHealthDays, "Days with Mental Health Issues (Last 30 Days)", 0, 30),
})

// Extended is the 38-field profile with comorbidity and behaviour flags.
var Extended = newSchema(VariantExtended, StrategyBinary, []Field{
	{Name: FieldSex, Kind: KindCategorical, Label: "Sex", Values: []string{"Male", "Female", "Other"}},
	{Name: FieldGeneralHealth, Kind: KindCategorical, Label: "General Health", Values: GeneralHealthValues},
	numeric(FieldPhysicalHealthDays, "Physical health days (last 30)", 0, 30),
	numeric(FieldMentalHealthDays, "Mental health days (last 30)", 0, 30),
	{Name: "LastCheckupTime", Kind: KindCategorical, Label: "Last Medical Checkup", Open: true,
		Values: []string{
			"Within past year (anytime less than 12 months ago)",
			"Within past 2 years (1 year but less than 2 years ago)",
			"Within past 5 years (2 years but less than 5 years ago)",
			"5 or more years ago",
		}},
	binary("PhysicalActivities", "Do you engage in physical activity?"),
	numeric(FieldSleepHours, "Sleep Hours", 0, 24),
	{Name: FieldRemovedTeeth, Kind: KindCategorical, Label: "Have teeth been removed?", Open: true,
		Values: []string{"None of them", "1 to 5", "6 or more, but not all", "All"}},
	binary(FieldHadAngina, "Had Angina?"),
	binary(FieldHadStroke, "Had Stroke?"),
	binary("HadAsthma", "Had Asthma?"),
	binary("HadSkinCancer", "Had Skin Cancer?"),
	binary("HadCOPD", "Had COPD?"),
	binary("HadDepressiveDisorder", "Had Depressive Disorder?"),
	binary("HadKidneyDisease", "Had Kidney Disease?"),
	binary("HadArthritis", "Had Arthritis?"),
	binary("HadDiabetes", "Had Diabetes?"),
	binary("DeafOrHardOfHearing", "Deaf or Hard of Hearing?"),
	binary("BlindOrVisionDifficulty", "Blind or Vision Difficulty?"),
	binary("DifficultyConcentrating", "Difficulty Concentrating?"),
	binary("DifficultyWalking", "Difficulty Walking?"),
	binary("DifficultyDressingBathing", "Difficulty Dressing or Bathing?"),
	binary("DifficultyErrands", "Difficulty with Errands?"),
	{Name: FieldSmokerStatus, Kind: KindCategorical, Label: "Smoking Status",
		Values: []string{"Never smoked", "Former smoker", "Current smoker - daily", "Current smoker - some days"}},
	{Name: "ECigaretteUsage", Kind: KindCategorical, Label: "Use E-Cigarettes?", Open: true,
		Values: []string{
			"Never used e-cigarettes in my entire life",
			"Not at all (right now)",
			"Use them some days",
			"Use them every day",
		}},
	binary("ChestScan", "Had Chest Scan?"),
	{Name: "RaceEthnicityCategory", Kind: KindCategorical, Label: "Race/Ethnicity", Open: true,
		Values: []string{
			"White only, Non-Hispanic", "Black only, Non-Hispanic", "Hispanic",
			"Multiracial, Non-Hispanic", "Other race only, Non-Hispanic",
		}},
	{Name: FieldAgeCategory, Kind: KindCategorical, Label: "Age Category", Values: AgeCategories},
	numeric(FieldHeight, "Height (in meters)", 1.0, 2.5),
	numeric(FieldWeight, "Weight (in kg)", 30, 250),
	{Name: FieldBMI, Kind: KindNumeric, Label: "Body Mass Index (BMI)", Min: 10, Max: 60, Optional: true},
	binary("AlcoholDrinkers", "Do you drink alcohol?"),
	binary("HIVTesting", "Tested for HIV?"),
	binary("FluVaxLast12", "Received flu vaccine in the last 12 months?"),
	binary("PneumoVaxEver", "Ever received pneumonia vaccine?"),
	{Name: FieldTetanus, Kind: KindCategorical, Label: "Received tetanus shot in the last 10 years?", Open: true,
		Values: []string{
			"Yes, received Tdap",
			"Yes, received tetanus shot but not sure what type",
			"Yes, received tetanus shot, but not Tdap",
			"No, did not receive any tetanus shot in the past 10 years",
		}},
	binary("HighRiskLastYear", "Were you at high risk last year?"),
	binary("CovidPos", "Ever tested positive for COVID-19?"),
})

var schemas = map[Variant]*Schema{
	VariantCore:     Core,
	VariantExtended: Extended,
}

// Lookup returns the schema registered for v.
func Lookup(v Variant) (*Schema, error) {
	s, ok := schemas[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	return s, nil
}

// ParseVariant normalises a variant name.
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schemas[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Variants lists the registered variants in a stable order.
func Variants() []Variant {
	return []Variant{VariantCore, VariantExtended}
}
