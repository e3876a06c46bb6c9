package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/log"
)

// GetTestLogger returns a console logger that only prints errors.
func GetTestLogger(t *testing.T) *zap.Logger {
	logger, err := log.NewRootLogger("console", "error", os.Stderr)
	require.NoError(t, err)

	return logger
}
