package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CommandVersion prints the version of the binary.
func CommandVersion(binaryName string) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Prints version of this binary.",
		Aliases: []string{"v"},
		Example: fmt.Sprintf("%s version", binaryName),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := Get()
			cmd.Printf("Version:       %s\nGit Commit:    %s\nGit Timestamp: %s\n", info.Version, info.Commit, info.Timestamp)
		},
	}
}
