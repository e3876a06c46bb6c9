package daemon

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/committer/store"
	"github.com/da-committer/da-committer/util"
)

func getHomePath(cmd *cobra.Command) (string, error) {
	rawPath, err := cmd.Flags().GetString(homeFlag)
	if err != nil {
		return "", err
	}

	cleanPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", err
	}

	return util.CleanAndExpandPath(cleanPath), nil
}

// openStore opens the submission store configured under the home directory.
// The returned closer releases the database.
func openStore(cmd *cobra.Command) (*store.SubmissionStore, func() error, error) {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load home flag: %w", err)
	}

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config at %s: %w", homePath, err)
	}

	db, err := cfg.DatabaseConfig.GetDBBackend()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db backend: %w", err)
	}

	s, err := store.NewSubmissionStore(db)
	if err != nil {
		_ = db.Close()

		return nil, nil, fmt.Errorf("failed to open the submission store: %w", err)
	}

	return s, db.Close, nil
}
