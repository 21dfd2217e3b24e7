// Package version holds build metadata injected with -ldflags, e.g.
// -X git.home.luguber.info/inful/pagesmith/internal/version.Version=v1.0.0.
package version

import "fmt"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the metadata for --version.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	commit := GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("%s (%s, built %s)", Version, commit, BuildTime)
}
