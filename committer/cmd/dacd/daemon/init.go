package daemon

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/cobra"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/util"
)

func NewInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize the dacd home directory.",
		Long:    `Creates a new dacd home directory with a default config`,
		Example: fmt.Sprintf(`%s init --home /home/user/.dacd --force`, BinaryName),
		Args:    cobra.NoArgs,
		RunE:    initHome,
	}

	initCmd.Flags().Bool(forceFlag, false, "Override existing configuration")

	return initCmd
}

func initHome(cmd *cobra.Command, _ []string) error {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return fmt.Errorf("failed to get home path: %w", err)
	}
	force, err := cmd.Flags().GetBool(forceFlag)
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	if util.FileExists(homePath) && !force {
		return fmt.Errorf("home path %s already exists", homePath)
	}

	for _, dir := range []string{homePath, config.LogDir(homePath), config.DataDir(homePath)} {
		if err := util.MakeDirectory(dir); err != nil {
			return err
		}
	}

	defaultConfig := config.DefaultConfigWithHome(homePath)
	iniParser := flags.NewIniParser(flags.NewParser(&defaultConfig, flags.Default))
	cfgFile := config.CfgFile(homePath)
	if err := iniParser.WriteFile(cfgFile, flags.IniIncludeComments|flags.IniIncludeDefaults); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cmd.Printf("dacd home initialized at %s, edit %s before starting\n", homePath, cfgFile)

	return nil
}
