package daemon

import (
	"github.com/spf13/cobra"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/version"
)

const BinaryName = "dacd"

// NewRootCmd creates a new root command for dacd. It is called once in the main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           BinaryName,
		Short:         "dacd - DA committer daemon.",
		Long:          `dacd posts rollup bundle fragments to a data availability layer and tracks them until finality.`,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String(homeFlag, config.DefaultDacdDir, "The application home directory")

	rootCmd.AddCommand(
		NewInitCmd(),
		NewStartCmd(),
		NewFragmentsCmd(),
		version.CommandVersion(BinaryName),
	)

	return rootCmd
}
