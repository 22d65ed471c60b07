// Package buildinfo carries version identity stamped at build time via
// -ldflags, shared by the esh and eshd binaries and the version builtin.
package buildinfo

var (
	// Version is the release tag, or "dev" for untagged builds.
	Version = "dev"
	// Commit is the VCS revision.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

// Short returns a compact build identifier for banners and logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}
