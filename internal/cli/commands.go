package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skufu/heartguard/internal/bmi"
	"github.com/Skufu/heartguard/internal/formatter"
	"github.com/Skufu/heartguard/internal/profile"
	"github.com/Skufu/heartguard/internal/simulate"
)

func newBMICmd() *cobra.Command {
	var weight, height float64
	var output string
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Calculate BMI and show category guidance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatter.ParseFormat(output)
			if err != nil {
				return err
			}
			return formatter.BMI(cmd.OutOrStdout(), format, bmi.Calculate(weight, height))
		},
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kilograms")
	cmd.Flags().Float64Var(&height, "height", 0, "Height in meters")
	cmd.Flags().StringVarP(&output, "output", "o", "human", "Output format (human, json, yaml)")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var sc simulate.Scenario
	var output string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Explore how lifestyle changes move an illustrative risk score",
		Long: `Simulate an illustrative risk score from six lifestyle controls. Unset
controls stay at their middle level. This does not use the fitted models.

Example:
  heartguard simulate --blood-pressure Uncontrolled --smoking "Current Smoker"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatter.ParseFormat(output)
			if err != nil {
				return err
			}
			result, err := simulate.Run(sc)
			if err != nil {
				return err
			}
			return formatter.Simulation(cmd.OutOrStdout(), format, result)
		},
	}
	f := cmd.Flags()
	f.StringVar(&sc.BloodPressure, "blood-pressure", "", "Uncontrolled, Borderline or Controlled")
	f.StringVar(&sc.Cholesterol, "cholesterol", "", "High, Borderline or Optimal")
	f.StringVar(&sc.Activity, "activity", "", "Sedentary, Moderate or Active")
	f.StringVar(&sc.Diet, "diet", "", "Poor, Average or Excellent")
	f.StringVar(&sc.Stress, "stress", "", "High, Moderate or Low")
	f.StringVar(&sc.Smoking, "smoking", "", `"Current Smoker", "Recent Quit" or "Never Smoked"`)
	f.StringVarP(&output, "output", "o", "human", "Output format (human, json, yaml)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "schema [variant]",
		Short: "Print the JSON Schema of a profile variant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := string(profile.VariantCore)
			if len(args) == 1 {
				name = args[0]
			}
			v, err := profile.ParseVariant(name)
			if err != nil {
				return err
			}
			s, err := profile.Lookup(v)
			if err != nil {
				return err
			}
			format, err := formatter.ParseFormat(output)
			if err != nil {
				return err
			}
			return formatter.Encode(cmd.OutOrStdout(), format, s.JSONSchema())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "heartguard", Version)
		},
	}
}
