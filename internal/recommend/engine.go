// Package recommend turns a profile into prioritized, actionable advice.
package recommend

import (
	"sort"

	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/factors"
	"github.com/Skufu/heartguard/internal/profile"
)

// Priority orders recommendations; High sorts first.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation is a single piece of advice.
type Recommendation struct {
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// Input is everything the rules may look at.
type Input struct {
	Profile *profile.Profile
	BMI     bmi.Result
	Factors []factors.RiskFactor
}

// Rule emits its recommendation when Applies holds.
type Rule struct {
	Applies        func(Input) bool
	Recommendation Recommendation
}

// Affirmation is returned alone when no rule applies.
var Affirmation = Recommendation{
	Title:    "You're doing great!",
	Content:  "Maintain your healthy lifestyle habits.",
	Priority: PriorityLow,
}

// DefaultRules is the rule set in declaration order.
var DefaultRules = []Rule{
	{
		Applies: func(in Input) bool {
			return in.BMI.Category == bmi.CategoryOverweight || in.BMI.Category == bmi.CategoryObese
		},
		Recommendation: Recommendation{
			Title:    "Weight Management",
			Content:  "Consider a weight management program to reach a healthier BMI range. Even 5-10% weight loss can significantly improve cardiovascular health.",
			Priority: PriorityHigh,
		},
	},
	{
		Applies: func(in Input) bool {
			v, _ := in.Profile.Text(profile.FieldSmokerStatus)
			return factors.IsCurrentSmoker(v)
		},
		Recommendation: Recommendation{
			Title:    "Smoking Cessation",
			Content:  "Quitting smoking can reduce your heart disease risk by 50% within 1 year. Consider nicotine replacement therapy or counseling.",
			Priority: PriorityHigh,
		},
	},
	{
		Applies: func(in Input) bool {
			return factors.IrregularSleep(in.Profile.Number(profile.FieldSleepHours))
		},
		Recommendation: Recommendation{
			Title:    "Sleep Hygiene",
			Content:  "Aim for 7-9 hours of quality sleep each night. Maintain a consistent sleep schedule and create a restful environment.",
			Priority: PriorityMedium,
		},
	},
	{
		Applies: func(in Input) bool {
			return in.Profile.Is(profile.FieldGeneralHealth, "Poor") || in.Profile.Is(profile.FieldGeneralHealth, "Fair")
		},
		Recommendation: Recommendation{
			Title:    "Health Check-ups",
			Content:  "Schedule regular check-ups with your healthcare provider to monitor blood pressure, cholesterol, and other key indicators.",
			Priority: PriorityHigh,
		},
	},
	{
		Applies: func(in Input) bool {
			return in.Profile.Is(profile.FieldHadStroke, profile.Yes) || in.Profile.Is(profile.FieldHadAngina, profile.Yes)
		},
		Recommendation: Recommendation{
			Title:    "Cardiac Monitoring",
			Content:  "Given your medical history, regular cardiac monitoring and specialist consultations are strongly recommended.",
			Priority: PriorityHigh,
		},
	},
	{
		Applies: func(in Input) bool {
			return in.Profile.Number(profile.FieldPhysicalHealthDays) > 5
		},
		Recommendation: Recommendation{
			Title:    "Physical Health",
			Content:  "Addressing your physical health issues may reduce cardiovascular strain. Consult with a healthcare provider about persistent symptoms.",
			Priority: PriorityMedium,
		},
	},
	{
		Applies: func(in Input) bool {
			return in.Profile.Number(profile.FieldMentalHealthDays) > 5
		},
		Recommendation: Recommendation{
			Title:    "Mental Wellbeing",
			Content:  "Chronic stress and mental health issues can impact heart health. Consider stress management techniques or professional support.",
			Priority: PriorityMedium,
		},
	},
}

// Engine evaluates an ordered rule set.
type Engine struct {
	rules []Rule
}

// NewEngine uses DefaultRules when rules is empty.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Engine{rules: rules}
}

// Recommend returns matching recommendations, High first, keeping rule order
// within a priority. It never returns an empty list.
func (e *Engine) Recommend(in Input) []Recommendation {
	var out []Recommendation
	for _, r := range e.rules {
		if r.Applies(in) {
			out = append(out, r.Recommendation)
		}
	}
	if len(out) == 0 {
		return []Recommendation{Affirmation}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	return out
}
