package ui

import (
	"fmt"
	"strings"

	"github.com/vibecheck/autofix/pkg/patch"
	"github.com/vibecheck/autofix/pkg/types"
)

// RenderPatch renders a patch as unified diff text. In terminal format
// headers, hunk markers and changed lines are colored.
func RenderPatch(p *types.Patch, format Format) string {
	text := patch.Format(p)
	if format != FormatTerminal {
		return text
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(colorLine(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func colorLine(line string) string {
	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return FileStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return HunkStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return AddedStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return RemovedStyle.Render(line)
	default:
		return ContextStyle.Render(line)
	}
}

// Summary returns a one-line description of a patch, e.g. "main.go: +3 -1 (2 hunks)"
func Summary(p *types.Patch) string {
	stats := patch.Stats(p)
	noun := "hunks"
	if stats.Hunks == 1 {
		noun = "hunk"
	}
	return fmt.Sprintf("%s: +%d -%d (%d %s)", p.FilePath, stats.Additions, stats.Deletions, stats.Hunks, noun)
}
