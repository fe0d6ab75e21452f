package cmd

import (
	"gota/pkg/logger"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the rank-cli command tree.
func NewRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:   "rank-cli",
		Short: "Offline cafe ranking tools",
		Long: `rank-cli scores and ranks cafe candidates from a JSON file with the same
weights the API uses. Weights can be overridden from a YAML, JSON or TOML file.`,
		Version:      "1.0.0",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitWithWriter(env, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&env, "env", "production", "logging environment (development for console output)")

	root.AddCommand(newRankCmd(), newDistanceCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
