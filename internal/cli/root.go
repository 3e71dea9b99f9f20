// Package cli implements the heartguard command line.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/heartguard/internal/logging"
)

// Version is overwritten at build time.
var Version = "(devel)"

type rootOptions struct {
	logLevel    string
	artifactDir string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "heartguard",
		Short: "Heart-attack risk assessment",
		Long: `heartguard scores a lifestyle and medical-history profile against a fitted
classifier and explains the result with risk factors and recommendations.

Results are educational and are not a medical diagnosis.`,
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.artifactDir, "artifact-dir", "", "Read artifacts from this directory instead of ARTIFACT_SOURCE")

	root.AddCommand(
		newAssessCmd(opts),
		newBMICmd(),
		newSimulateCmd(),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	return logging.NewStderr(o.logLevel, "console", "heartguard-cli")
}
