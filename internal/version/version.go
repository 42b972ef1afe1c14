package version

// Version contains the application version information.
// Set via build-time ldflags in production:
// go build -ldflags "-X github.com/instructa/coursegen/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
