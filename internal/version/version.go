// Package version holds build metadata set through -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for `curvefit version`.
func String() string {
	return fmt.Sprintf("curvefit %s (%s, built %s)", Version, GitSHA, BuildTime)
}
