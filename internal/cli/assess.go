package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/Skufu/heartguard/internal/artifact"
	"github.com/Skufu/heartguard/internal/assess"
	"github.com/Skufu/heartguard/internal/config"
	"github.com/Skufu/heartguard/internal/formatter"
	"github.com/Skufu/heartguard/internal/model"
	"github.com/Skufu/heartguard/internal/profile"
)

type assessOptions struct {
	file     string
	variant  string
	strategy string
	output   string
}

func newAssessCmd(root *rootOptions) *cobra.Command {
	opts := &assessOptions{}
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess a profile read from a YAML or JSON file",
		Long: `Assess a profile and print its risk score, category, risk factors and
recommendations.

Examples:
  # Assess a core profile
  heartguard assess -f profile.yaml

  # Assess an extended profile from stdin as JSON
  cat profile.json | heartguard assess -f - --variant extended -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Profile file, or - for stdin")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Profile variant (core, extended); defaults to DEFAULT_VARIANT")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Category strategy (auto, tiered, binary); defaults to CATEGORY_STRATEGY")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "human", "Output format (human, json, yaml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runAssess(cmd *cobra.Command, root *rootOptions, opts *assessOptions) error {
	format, err := formatter.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	settings := cfg.Artifacts
	if root.artifactDir != "" {
		settings = artifact.Settings{Source: artifact.SourceFile, Dir: root.artifactDir}
	}

	variant := cfg.DefaultVariant
	if opts.variant != "" {
		if variant, err = profile.ParseVariant(opts.variant); err != nil {
			return err
		}
	}
	strategyName := cfg.CategoryStrategy
	if opts.strategy != "" {
		strategyName = opts.strategy
	}

	data, err := readInput(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}
	raw, err := profile.DecodeYAML(data)
	if err != nil {
		return err
	}
	schema, err := profile.Lookup(variant)
	if err != nil {
		return err
	}
	p, err := profile.New(schema, raw)
	if err != nil {
		var ve *profile.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid %s profile:\n  %s", variant, strings.Join(ve.Problems, "\n  "))
		}
		return err
	}

	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gateway, err := loadGateway(cmd.Context(), cmd.ErrOrStderr(), settings, variant)
	if err != nil {
		return err
	}
	strategy, err := assess.StrategyFor(strategyName, schema)
	if err != nil {
		return err
	}
	engine, err := assess.NewEngine(gateway, strategy, logger)
	if err != nil {
		return err
	}
	result, err := engine.Assess(p)
	if err != nil {
		return err
	}
	return formatter.Assessment(cmd.OutOrStdout(), format, result)
}

func loadGateway(ctx context.Context, progress io.Writer, settings artifact.Settings, variant profile.Variant) (*model.Gateway, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(progress))
	s.Suffix = fmt.Sprintf(" Loading %s model from %s store...", variant, settings.Source)
	s.Start()
	defer s.Stop()

	store, closeStore, err := artifact.Open(ctx, settings)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	gateways, err := artifact.Load(ctx, store, []profile.Variant{variant})
	if err != nil {
		return nil, err
	}
	return gateways[0], nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return data, nil
}
