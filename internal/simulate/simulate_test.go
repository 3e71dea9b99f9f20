package simulate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func radarValues(r Result) []int {
	out := make([]int, len(r.Radar))
	for i, a := range r.Radar {
		out[i] = a.Value
	}
	return out
}

func TestRunDefaultsToBaseline(t *testing.T) {
	r, err := Run(Scenario{})
	require.NoError(t, err)
	assert.Equal(t, 50, r.Score)
	assert.False(t, r.Elevated)
	assert.Equal(t, []int{60, 60, 60, 60, 60, 60}, radarValues(r))
	assert.Equal(t, "Blood Pressure", r.Radar[0].Name)
	assert.Equal(t, "Borderline (200-239)", r.Radar[1].Level)
	assert.Equal(t, Disclaimer, r.Disclaimer)
}

func TestRunWorstCaseClamps(t *testing.T) {
	r, err := Run(Scenario{
		BloodPressure: "Uncontrolled",
		Cholesterol:   "High",
		Activity:      "Sedentary",
		Diet:          "Poor",
		Stress:        "High",
		Smoking:       "Current Smoker",
	})
	require.NoError(t, err)
	assert.Equal(t, 95, r.Score, "50+90 clamps to 95")
	assert.True(t, r.Elevated)
	assert.Equal(t, []int{100, 100, 100, 100, 100, 100}, radarValues(r))
}

func TestRunBestCaseClamps(t *testing.T) {
	r, err := Run(Scenario{
		BloodPressure: "Controlled",
		Cholesterol:   "Optimal (<200)",
		Activity:      "active",
		Diet:          "Excellent",
		Stress:        "Low",
		Smoking:       "never smoked",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Score, "50-55 clamps to 5")
	assert.Equal(t, []int{20, 20, 20, 20, 20, 20}, radarValues(r))
}

func TestRunMixed(t *testing.T) {
	r, err := Run(Scenario{BloodPressure: "Uncontrolled", Smoking: "Never Smoked", Stress: "Low"})
	require.NoError(t, err)
	assert.Equal(t, 60, r.Score)
	assert.True(t, r.Elevated)
}

func TestRunRejectsUnknownLevels(t *testing.T) {
	_, err := Run(Scenario{Diet: "Keto", Stress: "Extreme"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Problems, 2)
	assert.Contains(t, ve.Problems[0], "diet")
	assert.Contains(t, ve.Problems[1], "stress")
	assert.Contains(t, ve.Error(), "Poor, Average, Excellent")
}
