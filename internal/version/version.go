package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/vibecheck/autofix/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/vibecheck/autofix/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/vibecheck/autofix/internal/version.Date={{.Date}}
)
