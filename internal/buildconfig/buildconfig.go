package buildconfig

// Set with -ldflags "-X github.com/tastechain/reviewscore/internal/buildconfig.version=..."
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is reported by /metrics.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}

// String is the CLI version line.
func String() string {
	return version + " (" + commit + ")"
}
