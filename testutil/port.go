package testutil

import (
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	handedOut   = make(map[int]struct{})
	handedOutMu sync.Mutex
)

// AllocateUniquePort returns a free localhost port that no other test of the
// process has received. The port is released before returning, so a racing
// process may still grab it.
func AllocateUniquePort(t *testing.T) int {
	t.Helper()

	handedOutMu.Lock()
	defer handedOutMu.Unlock()

	for attempt := 0; attempt < 16; attempt++ {
		lis, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := lis.Addr().(*net.TCPAddr).Port
		require.NoError(t, lis.Close())

		if _, taken := handedOut[port]; taken {
			continue
		}
		handedOut[port] = struct{}{}

		return port
	}

	t.Fatal("failed to find a free port")

	return 0
}
