package version

import (
	"fmt"
	"runtime/debug"
)

// version is set at build time through -ldflags "-X".
var version = "main"

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	Timestamp string
}

// Get reads the vcs stamp go embeds into the binary. Missing values are
// reported as "unknown".
func Get() Info {
	info := Info{Version: version, Commit: "unknown", Timestamp: "unknown"}
	if info.Version == "" {
		info.Version = "main"
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = shortCommit(s.Value)
		case "vcs.time":
			info.Timestamp = s.Value
		}
	}

	return info
}

func shortCommit(rev string) string {
	const hashLen = 7
	if len(rev) < hashLen {
		return rev
	}

	return rev[:hashLen]
}

func (i Info) String() string {
	return fmt.Sprintf("version: %s, commit: %s, timestamp: %s", i.Version, i.Commit, i.Timestamp)
}
