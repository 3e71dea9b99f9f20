// Package factors classifies profile attributes into risk-factor impact levels
// using fixed clinical heuristics.
package factors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/profile"
)

// Impact is the qualitative severity of a factor.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// RiskFactor is one analysed attribute.
type RiskFactor struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Impact      Impact `json:"impact" yaml:"impact"`
	Description string `json:"description" yaml:"description"`
}

// Factor names, in report order.
const (
	Age                = "Age"
	BMI                = "BMI"
	GeneralHealth      = "General Health"
	SmokingStatus      = "Smoking Status"
	StrokeHistory      = "History of Stroke"
	AnginaHistory      = "History of Angina"
	PhysicalHealthDays = "Physical Health Days"
	SleepHours         = "Sleep Hours"
)

var descriptions = map[string]string{
	Age:                "Risk increases with age",
	BMI:                "Higher BMI increases cardiovascular strain",
	GeneralHealth:      "Self-reported health is a strong predictor",
	SmokingStatus:      "Smoking damages blood vessels",
	StrokeHistory:      "Previous stroke indicates vascular issues",
	AnginaHistory:      "Angina indicates existing heart disease",
	PhysicalHealthDays: "Frequent health issues may indicate problems",
	SleepHours:         "Poor sleep impacts cardiovascular health",
}

// Description returns the fixed description for a factor name.
func Description(name string) string {
	return descriptions[name]
}

var (
	highAgeGroups   = set("50-54", "55-59", "60-64", "65-69", "70-74", "75-79", "80+")
	mediumAgeGroups = set("35-39", "40-44", "45-49")
	poorHealth      = set("Poor", "Fair")
)

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// IsCurrentSmoker accepts every "Current smoker" form used by the profile
// variants.
func IsCurrentSmoker(status string) bool {
	return strings.HasPrefix(status, "Current smoker")
}

// IsFormerSmoker reports the former-smoker status.
func IsFormerSmoker(status string) bool {
	return status == "Former smoker"
}

// IrregularSleep reports sleep outside the 6 to 9 hour band.
func IrregularSleep(hours float64) bool {
	return hours < 6 || hours > 9
}

type rule struct {
	name   string
	value  func(p *profile.Profile, b bmi.Result) string
	impact func(p *profile.Profile, b bmi.Result) Impact
}

var rules = []rule{
	{
		name:  Age,
		value: text(profile.FieldAgeCategory),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			age, _ := p.Text(profile.FieldAgeCategory)
			return tiered(highAgeGroups[age], mediumAgeGroups[age])
		},
	},
	{
		name: BMI,
		value: func(_ *profile.Profile, b bmi.Result) string {
			if !b.Known() {
				return "unavailable"
			}
			return fmt.Sprintf("%.2f (%s)", b.Value, b.Category)
		},
		impact: func(_ *profile.Profile, b bmi.Result) Impact {
			return tiered(b.Category == bmi.CategoryOverweight || b.Category == bmi.CategoryObese, false)
		},
	},
	{
		name:  GeneralHealth,
		value: text(profile.FieldGeneralHealth),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			v, _ := p.Text(profile.FieldGeneralHealth)
			return tiered(poorHealth[v], false)
		},
	},
	{
		name:  SmokingStatus,
		value: text(profile.FieldSmokerStatus),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			v, _ := p.Text(profile.FieldSmokerStatus)
			return tiered(IsCurrentSmoker(v), IsFormerSmoker(v))
		},
	},
	{
		name:  StrokeHistory,
		value: text(profile.FieldHadStroke),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			return tiered(p.Is(profile.FieldHadStroke, profile.Yes), false)
		},
	},
	{
		name:  AnginaHistory,
		value: text(profile.FieldHadAngina),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			return tiered(p.Is(profile.FieldHadAngina, profile.Yes), false)
		},
	},
	{
		name:  PhysicalHealthDays,
		value: number(profile.FieldPhysicalHealthDays),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			days := p.Number(profile.FieldPhysicalHealthDays)
			return tiered(days > 10, days > 5)
		},
	},
	{
		name:  SleepHours,
		value: number(profile.FieldSleepHours),
		impact: func(p *profile.Profile, _ bmi.Result) Impact {
			return tiered(IrregularSleep(p.Number(profile.FieldSleepHours)), false)
		},
	},
}

func tiered(high, medium bool) Impact {
	switch {
	case high:
		return ImpactHigh
	case medium:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func text(field string) func(*profile.Profile, bmi.Result) string {
	return func(p *profile.Profile, _ bmi.Result) string {
		v, _ := p.Text(field)
		return v
	}
}

func number(field string) func(*profile.Profile, bmi.Result) string {
	return func(p *profile.Profile, _ bmi.Result) string {
		v := p.Number(field)
		if math.IsNaN(v) {
			return "unavailable"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Analyze evaluates every factor rule in order.
func Analyze(p *profile.Profile, b bmi.Result) []RiskFactor {
	out := make([]RiskFactor, 0, len(rules))
	for _, r := range rules {
		out = append(out, RiskFactor{
			Name:        r.name,
			Value:       r.value(p, b),
			Impact:      r.impact(p, b),
			Description: descriptions[r.name],
		})
	}
	return out
}
