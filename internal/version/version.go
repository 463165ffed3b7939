// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X coloring-canvas/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version with its commit and build time when known.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildTime)
}
