package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d*)(?:,(\d*))? \+(\d*)(?:,(\d*))? @@`)

// Format renders p as unified diff text
func Format(p *types.Patch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", p.FilePath)
	fmt.Fprintf(&b, "+++ b/%s\n", p.FilePath)

	for _, h := range p.Hunks {
		b.WriteString(buildHunkHeader(h.OldStart, h.OldLines, h.NewStart, h.NewLines))
		for _, line := range h.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func buildHunkHeader(oldStart, oldLines, newStart, newLines int) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", oldStart, oldLines, newStart, newLines)
}

// Parse reads unified diff text produced by Format or a compatible tool.
// Missing counts default to 0 and missing starts to 1.
func Parse(text string) (*types.Patch, error) {
	p := &types.Patch{Hunks: []types.PatchHunk{}}
	var oldPath, newPath string
	var current *types.PatchHunk
	sawHeader := false

	flush := func() {
		if current != nil {
			p.Hunks = append(p.Hunks, *current)
			current = nil
		}
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for _, line := range lines {
		// Inside a hunk that still expects lines, "---"/"+++" are content
		if current != nil && !hunkComplete(current) {
			if isHunkLine(line) || line == "" {
				// An empty line is context whose trailing space was stripped
				current.Lines = append(current.Lines, line)
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, "--- "):
			flush()
			oldPath = stripPathPrefix(strings.TrimPrefix(line, "--- "), "a/")
			sawHeader = true
		case strings.HasPrefix(line, "+++ "):
			flush()
			newPath = stripPathPrefix(strings.TrimPrefix(line, "+++ "), "b/")
			sawHeader = true
		case strings.HasPrefix(line, "@@"):
			flush()
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			current = h
		case current != nil && isHunkLine(line):
			current.Lines = append(current.Lines, line)
		}
	}
	flush()

	if !sawHeader && len(p.Hunks) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "text contains no diff header or hunk").
			In(errors.DomainGeneration)
	}

	p.FilePath = newPath
	if p.FilePath == "" || p.FilePath == "/dev/null" {
		p.FilePath = oldPath
	}
	return p, nil
}

func parseHunkHeader(line string) (*types.PatchHunk, error) {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return nil, errors.Newf(errors.ErrInvalidInput, "malformed hunk header %q", line).
			In(errors.DomainGeneration)
	}
	return &types.PatchHunk{
		OldStart: atoiDefault(m[1], 1),
		OldLines: atoiDefault(m[2], 0),
		NewStart: atoiDefault(m[3], 1),
		NewLines: atoiDefault(m[4], 0),
		Lines:    []string{},
	}, nil
}

func atoiDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func isHunkLine(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case types.LineContext, types.LineDelete, types.LineInsert, '\\':
		return true
	}
	return false
}

// hunkComplete reports whether a hunk already holds the lines its header
// declared. Headers without counts never expect more lines.
func hunkComplete(h *types.PatchHunk) bool {
	oldLines, newLines := h.CountLines()
	return oldLines >= h.OldLines && newLines >= h.NewLines
}

func stripPathPrefix(path, prefix string) string {
	// Drop a trailing timestamp as written by diff -u
	if tab := strings.IndexByte(path, '\t'); tab >= 0 {
		path = path[:tab]
	}
	return strings.TrimPrefix(strings.TrimSpace(path), prefix)
}
