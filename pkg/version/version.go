// Package version holds the composer's build information, injected with
// -ldflags at link time and passed in through Set.
package version

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Set stores build info. Empty values keep the defaults, so an unstamped
// build still reports "dev".
func Set(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// Version returns the build version string.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// BuildDate returns the build date string.
func BuildDate() string { return buildDate }
