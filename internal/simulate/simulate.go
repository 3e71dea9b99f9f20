// Package simulate is an educational what-if sandbox. It shows how six
// lifestyle controls shift an illustrative risk score. It does not use the
// fitted models.
package simulate

import (
	"fmt"
	"sort"
	"strings"
)

// Disclaimer accompanies every simulated result.
const Disclaimer = "Illustrative only: this score is not produced by the risk model."

const (
	baseline = 50
	minScore = 5
	maxScore = 95
)

// Radar values for the worst, middle and best level of a control.
var radarByRank = [3]int{100, 60, 20}

// Level is one setting of a control.
type Level struct {
	Name   string
	Label  string
	Adjust int
}

// Control is a lifestyle axis with levels ordered worst to best.
type Control struct {
	Key    string
	Axis   string
	Levels [3]Level
}

func (c Control) resolve(value string) (int, bool) {
	if strings.TrimSpace(value) == "" {
		return 1, true
	}
	for i, l := range c.Levels {
		if strings.EqualFold(value, l.Name) || strings.EqualFold(value, l.Label) {
			return i, true
		}
	}
	return 0, false
}

func (c Control) names() []string {
	out := make([]string, len(c.Levels))
	for i, l := range c.Levels {
		out[i] = l.Name
	}
	return out
}

// Controls in radar order.
var Controls = []Control{
	{Key: "bloodPressure", Axis: "Blood Pressure", Levels: [3]Level{
		{Name: "Uncontrolled", Label: "Uncontrolled", Adjust: 20},
		{Name: "Borderline", Label: "Borderline"},
		{Name: "Controlled", Label: "Controlled", Adjust: -15},
	}},
	{Key: "cholesterol", Axis: "Cholesterol", Levels: [3]Level{
		{Name: "High", Label: "High (>240)", Adjust: 15},
		{Name: "Borderline", Label: "Borderline (200-239)"},
		{Name: "Optimal", Label: "Optimal (<200)", Adjust: -10},
	}},
	{Key: "activity", Axis: "Activity", Levels: [3]Level{
		{Name: "Sedentary", Label: "Sedentary", Adjust: 15},
		{Name: "Moderate", Label: "Moderate"},
		{Name: "Active", Label: "Active", Adjust: -10},
	}},
	{Key: "diet", Axis: "Diet", Levels: [3]Level{
		{Name: "Poor", Label: "Poor", Adjust: 10},
		{Name: "Average", Label: "Average"},
		{Name: "Excellent", Label: "Excellent", Adjust: -10},
	}},
	{Key: "stress", Axis: "Stress", Levels: [3]Level{
		{Name: "High", Label: "High", Adjust: 10},
		{Name: "Moderate", Label: "Moderate"},
		{Name: "Low", Label: "Low", Adjust: -5},
	}},
	{Key: "smoking", Axis: "Smoking", Levels: [3]Level{
		{Name: "Current Smoker", Label: "Current Smoker", Adjust: 20},
		{Name: "Recent Quit", Label: "Recent Quit"},
		{Name: "Never Smoked", Label: "Never Smoked", Adjust: -5},
	}},
}

// Scenario holds one level name per control. Empty values use the middle
// level.
type Scenario struct {
	BloodPressure string `json:"bloodPressure" yaml:"bloodPressure"`
	Cholesterol   string `json:"cholesterol" yaml:"cholesterol"`
	Activity      string `json:"activity" yaml:"activity"`
	Diet          string `json:"diet" yaml:"diet"`
	Stress        string `json:"stress" yaml:"stress"`
	Smoking       string `json:"smoking" yaml:"smoking"`
}

func (s Scenario) values() map[string]string {
	return map[string]string{
		"bloodPressure": s.BloodPressure,
		"cholesterol":   s.Cholesterol,
		"activity":      s.Activity,
		"diet":          s.Diet,
		"stress":        s.Stress,
		"smoking":       s.Smoking,
	}
}

// Axis is one point of the radar chart.
type Axis struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
	Value int    `json:"value" yaml:"value"`
}

// Result is a simulated score with its radar profile.
type Result struct {
	Score      int    `json:"score" yaml:"score"`
	Elevated   bool   `json:"elevated" yaml:"elevated"`
	Radar      []Axis `json:"radar" yaml:"radar"`
	Disclaimer string `json:"disclaimer" yaml:"disclaimer"`
}

// ValidationError lists controls set to unknown levels.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid scenario: " + strings.Join(e.Problems, "; ")
}

// Run scores s. Unknown levels yield a *ValidationError.
func Run(s Scenario) (Result, error) {
	values := s.values()
	score := baseline
	radar := make([]Axis, 0, len(Controls))
	var problems []string

	for _, c := range Controls {
		rank, ok := c.resolve(values[c.Key])
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: %q is not one of %s",
				c.Key, values[c.Key], strings.Join(c.names(), ", ")))
			continue
		}
		lvl := c.Levels[rank]
		score += lvl.Adjust
		radar = append(radar, Axis{Name: c.Axis, Level: lvl.Label, Value: radarByRank[rank]})
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return Result{}, &ValidationError{Problems: problems}
	}

	score = max(minScore, min(maxScore, score))
	return Result{
		Score:      score,
		Elevated:   score > baseline,
		Radar:      radar,
		Disclaimer: Disclaimer,
	}, nil
}
