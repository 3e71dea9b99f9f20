package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Skufu/heartguard/internal/assess"
	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/factors"
	"github.com/Skufu/heartguard/internal/model"
	"github.com/Skufu/heartguard/internal/profile"
	"github.com/Skufu/heartguard/internal/recommend"
	"github.com/Skufu/heartguard/internal/simulate"
)

func init() {
	color.NoColor = true
}

func sample() *assess.RiskAssessment {
	return &assess.RiskAssessment{
		ID:          "a1",
		Variant:     profile.VariantCore,
		Score:       74.2,
		Category:    assess.CategoryHigh,
		Strategy:    profile.StrategyTiered,
		Label:       "Yes",
		ScoreSource: model.SourceProbability,
		BMI:         bmi.Calculate(90, 1.75),
		Factors: []factors.RiskFactor{
			{Name: factors.Age, Value: "60-64", Impact: factors.ImpactHigh},
		},
		Recommendations: []recommend.Recommendation{
			{Title: "Smoking Cessation", Content: "Quit.", Priority: recommend.PriorityHigh},
		},
		TopFeatures: []model.FeatureImportance{{Feature: "HadAngina", Importance: 0.31}},
		Notices:     []string{`State: unknown category ("Atlantis" -> "Alabama")`},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Human, f)
	f, err = ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestAssessmentHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Assessment(&buf, Human, sample()))
	out := buf.String()
	assert.Contains(t, out, "RISK: HIGH (74.2%)")
	assert.Contains(t, out, "29.39 (Overweight)")
	assert.Contains(t, out, "[HIGH] Smoking Cessation")
	assert.Contains(t, out, "HadAngina")
	assert.Contains(t, out, "Atlantis")
}

func TestAssessmentHumanUnknownBMI(t *testing.T) {
	a := sample()
	a.BMI = bmi.Result{}
	var buf bytes.Buffer
	require.NoError(t, Assessment(&buf, Human, a))
	assert.Contains(t, buf.String(), "unavailable")
}

func TestAssessmentJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Assessment(&buf, JSON, sample()))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "High", decoded["category"])
	assert.Equal(t, "probability", decoded["scoreSource"])

	buf.Reset()
	require.NoError(t, Assessment(&buf, YAML, sample()))
	decoded = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "tiered", decoded["strategy"])
}

func TestBMIOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BMI(&buf, Human, bmi.Calculate(70, 1.75)))
	assert.Contains(t, buf.String(), "BMI 22.86 (Normal)")

	buf.Reset()
	require.NoError(t, BMI(&buf, Human, bmi.Result{}))
	assert.Contains(t, buf.String(), "unavailable")

	buf.Reset()
	require.NoError(t, BMI(&buf, JSON, bmi.Calculate(70, 1.75)))
	assert.Contains(t, buf.String(), `"guidance"`)
}

func TestSimulationOutput(t *testing.T) {
	r, err := simulate.Run(simulate.Scenario{Smoking: "Current Smoker"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Simulation(&buf, Human, r))
	assert.Contains(t, buf.String(), "Estimated risk impact: 70%")
	assert.Contains(t, buf.String(), simulate.Disclaimer)

	buf.Reset()
	require.NoError(t, Simulation(&buf, YAML, r))
	assert.Contains(t, buf.String(), "score: 70")
}
