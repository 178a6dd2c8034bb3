// Package version holds build metadata injected via -ldflags.
package version

var (
	// Version is the release tag; empty for development builds.
	Version = ""
	// Commit is the short git SHA the binary was built from.
	Commit = ""
)

// String returns a printable version: the release tag, "dev-<sha>", or
// "dev" when no metadata was injected.
func String() string {
	if Version != "" {
		return Version
	}
	if Commit != "" {
		return "dev-" + Commit
	}
	return "dev"
}
