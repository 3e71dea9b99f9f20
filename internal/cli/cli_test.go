package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coreProfile = `Sex: Male
AgeCategory: 60-64
State: Ohio
HeightInMeters: 1.75
WeightInKilograms: 90
GeneralHealth: Good
HadStroke: "No"
HadAngina: "No"
SmokerStatus: Current smoker
RemovedTeeth: None
TetanusLast10Tdap: "Yes"
SleepHours: 5
PhysicalHealthDays: 2
MentalHealthDays: 1
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	for _, k := range []string{"ARTIFACT_SOURCE", "PROFILE_VARIANTS", "DEFAULT_VARIANT", "CATEGORY_STRATEGY", "LOG_LEVEL", "LOG_FORMAT", "PORT"} {
		t.Setenv(k, "")
	}

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestAssessHuman(t *testing.T) {
	out, err := run(t, "", "assess", "-f", writeProfile(t, coreProfile), "--artifact-dir", "../../artifacts")
	require.NoError(t, err)
	assert.Contains(t, out, "RISK: LOW (6.9%)")
	assert.Contains(t, out, "29.39 (Overweight)")
	assert.Contains(t, out, "1. [HIGH] Weight Management")
	assert.Contains(t, out, "3. [MEDIUM] Sleep Hygiene")
}

func TestAssessJSONFromStdin(t *testing.T) {
	out, err := run(t, coreProfile, "assess", "-f", "-", "--artifact-dir", "../../artifacts", "-o", "json", "--strategy", "binary")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "core", got["variant"])
	assert.Equal(t, "binary", got["strategy"])
	assert.Equal(t, "Low", got["category"])
}

func TestAssessReportsValidationProblems(t *testing.T) {
	body := strings.Replace(coreProfile, "Sex: Male", "Sex: Robot", 1)
	_, err := run(t, "", "assess", "-f", writeProfile(t, body), "--artifact-dir", "../../artifacts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid core profile")
	assert.Contains(t, err.Error(), "Sex")
}

func TestAssessErrors(t *testing.T) {
	_, err := run(t, "", "assess", "--artifact-dir", "../../artifacts")
	assert.Error(t, err, "file flag is required")

	_, err = run(t, "", "assess", "-f", writeProfile(t, coreProfile), "--artifact-dir", t.TempDir())
	assert.ErrorContains(t, err, "artifact not found")

	_, err = run(t, "", "assess", "-f", writeProfile(t, coreProfile), "--variant", "legacy")
	assert.Error(t, err)

	_, err = run(t, "", "assess", "-f", writeProfile(t, coreProfile), "-o", "xml")
	assert.Error(t, err)
}

func TestBMICommand(t *testing.T) {
	out, err := run(t, "", "bmi", "--weight", "70", "--height", "1.75")
	require.NoError(t, err)
	assert.Contains(t, out, "BMI 22.86 (Normal)")

	out, err = run(t, "", "bmi", "--weight", "70", "--height", "0", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": 0`)
	assert.NotContains(t, out, "guidance")
}

func TestSimulateCommand(t *testing.T) {
	out, err := run(t, "", "simulate", "--blood-pressure", "Controlled", "--activity", "Active", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "score: 25")

	_, err = run(t, "", "simulate", "--diet", "Keto")
	assert.ErrorContains(t, err, "diet")
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "", "schema", "extended")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc["$id"], "extended")

	_, err = run(t, "", "schema", "legacy")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "heartguard (devel)\n", out)
}
