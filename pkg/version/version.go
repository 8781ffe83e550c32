package version

// Version is the current pagebuilder release.
const Version = "0.4.0"

// Commit is set at build time with -ldflags "-X .../pkg/version.Commit=...".
var Commit = ""

// BuildVersion returns the version string for display
func BuildVersion() string {
	if Commit != "" {
		return "pagebuilder version " + Version + " (" + Commit + ")"
	}
	return "pagebuilder version " + Version
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}
