// Package bmi derives Body Mass Index values and weight categories.
package bmi

import "math"

// Category is the weight-category label for a BMI value.
type Category string

const (
	CategoryUnknown     Category = ""
	CategoryUnderweight Category = "Underweight"
	CategoryNormal      Category = "Normal"
	CategoryOverweight  Category = "Overweight"
	CategoryObese       Category = "Obese"
)

// Result is a BMI value rounded to two decimals plus its category.
// A zero Value with CategoryUnknown is the sentinel for unusable input.
type Result struct {
	Value    float64  `json:"value" yaml:"value"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Known reports whether r carries a computed value rather than the sentinel.
func (r Result) Known() bool {
	return r.Category != CategoryUnknown
}

// Calculate returns weight / height² rounded to two decimals.
// Non-positive or NaN inputs yield the sentinel result; nothing is divided.
func Calculate(weightKg, heightM float64) Result {
	if !(heightM > 0) || !(weightKg > 0) || math.IsInf(heightM, 0) || math.IsInf(weightKg, 0) {
		return Result{}
	}
	value := math.Round(weightKg/(heightM*heightM)*100) / 100
	return Result{Value: value, Category: CategoryFor(value)}
}

// CategoryFor maps a BMI value onto its category.
func CategoryFor(value float64) Category {
	switch {
	case value < 18.5:
		return CategoryUnderweight
	case value < 25:
		return CategoryNormal
	case value < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// Guidance describes the health implications of a weight category.
type Guidance struct {
	Heading         string   `json:"heading" yaml:"heading"`
	Implications    []string `json:"implications" yaml:"implications"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

var guidance = map[Category]Guidance{
	CategoryUnderweight: {
		Heading: "Underweight Implications",
		Implications: []string{
			"May indicate nutritional deficiencies",
			"Can lead to weakened immune system",
			"May be associated with osteoporosis",
		},
		Recommendations: []string{
			"Consult with a nutritionist for healthy weight gain",
			"Focus on nutrient-dense foods",
			"Rule out underlying medical conditions",
		},
	},
	CategoryNormal: {
		Heading: "Healthy Weight Benefits",
		Implications: []string{
			"Lower risk of chronic diseases",
			"Better energy levels and mobility",
			"Improved metabolic health",
		},
		Recommendations: []string{
			"Maintain current healthy habits",
			"Continue regular physical activity",
			"Monitor weight periodically",
		},
	},
	CategoryOverweight: {
		Heading: "Overweight Considerations",
		Implications: []string{
			"Increased risk of hypertension",
			"Higher likelihood of developing diabetes",
			"Potential joint problems",
		},
		Recommendations: []string{
			"Aim for 5-10% weight loss",
			"Increase physical activity gradually",
			"Focus on whole, unprocessed foods",
		},
	},
	CategoryObese: {
		Heading: "Obesity Health Risks",
		Implications: []string{
			"Significantly increased cardiovascular risk",
			"Higher chance of sleep apnea",
			"Greater risk of certain cancers",
		},
		Recommendations: []string{
			"Seek medical advice for weight management",
			"Consider comprehensive lifestyle changes",
			"Explore supervised weight loss programs",
		},
	},
}

// GuidanceFor returns the guidance for c. The second result is false for
// CategoryUnknown.
func GuidanceFor(c Category) (Guidance, bool) {
	g, ok := guidance[c]
	return g, ok
}
