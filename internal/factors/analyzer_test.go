package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/profile"
)

func build(t *testing.T, overrides map[string]any) *profile.Profile {
	t.Helper()
	raw := map[string]any{
		"Sex":                "Female",
		"AgeCategory":        "25-29",
		"State":              "Iowa",
		"HeightInMeters":     1.70,
		"WeightInKilograms":  62,
		"GeneralHealth":      "Excellent",
		"HadStroke":          "No",
		"HadAngina":          "No",
		"SmokerStatus":       "Never smoked",
		"RemovedTeeth":       "None",
		"TetanusLast10Tdap":  "Yes",
		"SleepHours":         7,
		"PhysicalHealthDays": 0,
		"MentalHealthDays":   0,
	}
	for k, v := range overrides {
		raw[k] = v
	}
	p, err := profile.New(profile.Core, raw)
	require.NoError(t, err)
	return p
}

func impacts(fs []RiskFactor) map[string]Impact {
	out := make(map[string]Impact, len(fs))
	for _, f := range fs {
		out[f.Name] = f.Impact
	}
	return out
}

func TestAnalyzeOrderAndDescriptions(t *testing.T) {
	p := build(t, nil)
	fs := Analyze(p, p.BMI())

	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
		assert.Equal(t, Description(f.Name), f.Description)
		assert.NotEmpty(t, f.Description)
		assert.Equal(t, ImpactLow, f.Impact, f.Name)
	}
	assert.Equal(t, []string{
		Age, BMI, GeneralHealth, SmokingStatus, StrokeHistory, AnginaHistory, PhysicalHealthDays, SleepHours,
	}, names)
}

func TestAnalyzeScenario(t *testing.T) {
	p := build(t, map[string]any{
		"Sex":                "Male",
		"AgeCategory":        "60-64",
		"SmokerStatus":       "Current smoker",
		"GeneralHealth":      "Good",
		"WeightInKilograms":  90,
		"HeightInMeters":     1.75,
		"SleepHours":         5,
		"PhysicalHealthDays": 2,
		"MentalHealthDays":   1,
	})
	fs := Analyze(p, p.BMI())
	got := impacts(fs)

	assert.Equal(t, ImpactHigh, got[Age])
	assert.Equal(t, ImpactHigh, got[BMI])
	assert.Equal(t, ImpactHigh, got[SmokingStatus])
	assert.Equal(t, ImpactHigh, got[SleepHours])
	assert.Equal(t, ImpactLow, got[GeneralHealth])
	assert.Equal(t, ImpactLow, got[PhysicalHealthDays])
	assert.Equal(t, "29.39 (Overweight)", fs[1].Value)
	assert.Equal(t, "5", fs[7].Value)
}

func TestAnalyzeThresholds(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]any
		factor    string
		want      Impact
	}{
		{"age 50-54 high", map[string]any{"AgeCategory": "50-54"}, Age, ImpactHigh},
		{"age 80+ high", map[string]any{"AgeCategory": "80+"}, Age, ImpactHigh},
		{"age 35-39 medium", map[string]any{"AgeCategory": "35-39"}, Age, ImpactMedium},
		{"age 45-49 medium", map[string]any{"AgeCategory": "45-49"}, Age, ImpactMedium},
		{"age 30-34 low", map[string]any{"AgeCategory": "30-34"}, Age, ImpactLow},
		{"obese", map[string]any{"WeightInKilograms": 100}, BMI, ImpactHigh},
		{"underweight", map[string]any{"WeightInKilograms": 50}, BMI, ImpactLow},
		{"fair health", map[string]any{"GeneralHealth": "Fair"}, GeneralHealth, ImpactHigh},
		{"poor health", map[string]any{"GeneralHealth": "Poor"}, GeneralHealth, ImpactHigh},
		{"very good health", map[string]any{"GeneralHealth": "Very good"}, GeneralHealth, ImpactLow},
		{"former smoker", map[string]any{"SmokerStatus": "Former smoker"}, SmokingStatus, ImpactMedium},
		{"stroke", map[string]any{"HadStroke": "Yes"}, StrokeHistory, ImpactHigh},
		{"angina", map[string]any{"HadAngina": "Yes"}, AnginaHistory, ImpactHigh},
		{"physical 11 high", map[string]any{"PhysicalHealthDays": 11}, PhysicalHealthDays, ImpactHigh},
		{"physical 10 medium", map[string]any{"PhysicalHealthDays": 10}, PhysicalHealthDays, ImpactMedium},
		{"physical 6 medium", map[string]any{"PhysicalHealthDays": 6}, PhysicalHealthDays, ImpactMedium},
		{"physical 5 low", map[string]any{"PhysicalHealthDays": 5}, PhysicalHealthDays, ImpactLow},
		{"sleep 6 low", map[string]any{"SleepHours": 6}, SleepHours, ImpactLow},
		{"sleep 9 low", map[string]any{"SleepHours": 9}, SleepHours, ImpactLow},
		{"sleep 10 high", map[string]any{"SleepHours": 10}, SleepHours, ImpactHigh},
		{"sleep 5.5 high", map[string]any{"SleepHours": 5.5}, SleepHours, ImpactHigh},
		{"coerced sleep low", map[string]any{"SleepHours": "n/a"}, SleepHours, ImpactLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := build(t, tc.overrides)
			assert.Equal(t, tc.want, impacts(Analyze(p, p.BMI()))[tc.factor])
		})
	}
}

func TestAnalyzeSentinelBMI(t *testing.T) {
	p := build(t, nil)
	fs := Analyze(p, bmi.Result{})
	assert.Equal(t, "unavailable", fs[1].Value)
	assert.Equal(t, ImpactLow, fs[1].Impact)
}

func TestSmokerHelpers(t *testing.T) {
	assert.True(t, IsCurrentSmoker("Current smoker"))
	assert.True(t, IsCurrentSmoker("Current smoker - some days"))
	assert.False(t, IsCurrentSmoker("Former smoker"))
	assert.True(t, IsFormerSmoker("Former smoker"))
}
