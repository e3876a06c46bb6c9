package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortCommit(t *testing.T) {
	require.Equal(t, "abc", shortCommit("abc"))
	require.Equal(t, "0123456", shortCommit("0123456789abcdef"))
}

func TestCommandVersion(t *testing.T) {
	cmd := CommandVersion("dacd")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Version:       main")
	require.Contains(t, out.String(), "Git Commit:")
}
