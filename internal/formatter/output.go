// Package formatter renders CLI results as colored text, JSON or YAML.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/Skufu/heartguard/internal/assess"
	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/factors"
	"github.com/Skufu/heartguard/internal/recommend"
	"github.com/Skufu/heartguard/internal/simulate"
)

// Format selects the output encoding.
type Format string

const (
	Human Format = "human"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// ParseFormat accepts human, json and yaml.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", Human:
		return Human, nil
	case JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want human, json or yaml)", name)
}

const ruleWidth = 72

// Encode writes v as JSON or YAML. Human falls back to JSON.
func Encode(w io.Writer, format Format, v any) error {
	if format == YAML {
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// Assessment renders a risk assessment.
func Assessment(w io.Writer, format Format, a *assess.RiskAssessment) error {
	if format != Human {
		return Encode(w, format, a)
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Fprintln(w)
	categoryColor(a.Category).Fprintf(w, "%s RISK: %s (%.1f%%)\n", categoryIcon(a.Category), strings.ToUpper(string(a.Category)), a.Score)
	fmt.Fprintf(w, "   %s profile, %s strategy, %s score\n\n", a.Variant, a.Strategy, a.ScoreSource)

	bold.Fprintln(w, "BMI:")
	if a.BMI.Known() {
		fmt.Fprintf(w, "   %.2f (%s)\n\n", a.BMI.Value, a.BMI.Category)
	} else {
		fmt.Fprintf(w, "   %s\n\n", color.HiBlackString("unavailable"))
	}

	cyan.Fprintln(w, "RISK FACTORS:")
	for _, f := range a.Factors {
		fmt.Fprintf(w, "   %s %-22s %s\n", impactIcon(f.Impact), f.Name, f.Value)
	}
	fmt.Fprintln(w)

	yellow.Fprintln(w, "RECOMMENDATIONS:")
	for i, r := range a.Recommendations {
		fmt.Fprintf(w, "   %d. %s %s\n", i+1, priorityTag(r.Priority), r.Title)
		fmt.Fprintf(w, "      %s\n", r.Content)
	}
	fmt.Fprintln(w)

	if len(a.TopFeatures) > 0 {
		bold.Fprintln(w, "TOP MODEL FEATURES:")
		for _, f := range a.TopFeatures {
			fmt.Fprintf(w, "   %-28s %.3f\n", f.Feature, f.Importance)
		}
		fmt.Fprintln(w)
	}

	if len(a.Notices) > 0 {
		yellow.Fprintln(w, "NOTICES:")
		for _, n := range a.Notices {
			fmt.Fprintf(w, "   - %s\n", n)
		}
		fmt.Fprintln(w)
	}

	footer(w)
	return nil
}

// BMI renders a BMI result with its guidance, when the category is known.
func BMI(w io.Writer, format Format, r bmi.Result) error {
	g, ok := bmi.GuidanceFor(r.Category)
	if format != Human {
		out := struct {
			BMI      bmi.Result    `json:"bmi" yaml:"bmi"`
			Guidance *bmi.Guidance `json:"guidance,omitempty" yaml:"guidance,omitempty"`
		}{BMI: r}
		if ok {
			out.Guidance = &g
		}
		return Encode(w, format, out)
	}

	if !ok {
		color.New(color.FgYellow).Fprintln(w, "BMI unavailable: weight and height must both be positive.")
		return nil
	}
	bmiColor(r.Category).Fprintf(w, "BMI %.2f (%s)\n\n", r.Value, r.Category)
	color.New(color.Bold).Fprintln(w, g.Heading)
	for _, s := range g.Implications {
		fmt.Fprintf(w, "   - %s\n", s)
	}
	fmt.Fprintln(w)
	color.New(color.FgCyan, color.Bold).Fprintln(w, "What you can do:")
	for _, s := range g.Recommendations {
		fmt.Fprintf(w, "   - %s\n", s)
	}
	return nil
}

// Simulation renders a what-if result.
func Simulation(w io.Writer, format Format, r simulate.Result) error {
	if format != Human {
		return Encode(w, format, r)
	}
	c := color.New(color.FgGreen, color.Bold)
	if r.Elevated {
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintf(w, "Estimated risk impact: %d%%\n\n", r.Score)
	for _, a := range r.Radar {
		bar := strings.Repeat("█", a.Value/10)
		fmt.Fprintf(w, "   %-15s %-10s %-22s %s\n", a.Name, bar, a.Level, color.HiBlackString("%d", a.Value))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.HiBlackString(r.Disclaimer))
	return nil
}

func footer(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	fmt.Fprintln(w, color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func categoryColor(c assess.Category) *color.Color {
	switch c {
	case assess.CategoryHigh:
		return color.New(color.FgRed, color.Bold)
	case assess.CategoryModerate:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func categoryIcon(c assess.Category) string {
	switch c {
	case assess.CategoryHigh:
		return "🔴"
	case assess.CategoryModerate:
		return "🟡"
	default:
		return "🟢"
	}
}

func impactIcon(i factors.Impact) string {
	switch i {
	case factors.ImpactHigh:
		return "🟠"
	case factors.ImpactMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func priorityTag(p recommend.Priority) string {
	switch p {
	case recommend.PriorityHigh:
		return color.RedString("[HIGH]")
	case recommend.PriorityMedium:
		return color.YellowString("[MEDIUM]")
	default:
		return color.GreenString("[LOW]")
	}
}

func bmiColor(c bmi.Category) *color.Color {
	switch c {
	case bmi.CategoryNormal:
		return color.New(color.FgGreen, color.Bold)
	case bmi.CategoryOverweight, bmi.CategoryUnderweight:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
