package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	autofixerrors "github.com/vibecheck/autofix/pkg/errors"
)

// Render serializes the effective configuration as TOML
func Render(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", autofixerrors.Wrap(err, autofixerrors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}

// GenerateConfigContent returns a starter project config with every value
// commented out, so only deliberate edits take effect
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [rollback]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
