package patch

import (
	"sort"

	"github.com/vibecheck/autofix/pkg/diff"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

// Apply replays p's hunks against original by position. Every context and
// deleted line must match the original exactly.
func Apply(original string, p *types.Patch) (string, error) {
	if p.IsEmpty() {
		return original, nil
	}

	hunks := make([]types.PatchHunk, len(p.Hunks))
	copy(hunks, p.Hunks)
	sort.SliceStable(hunks, func(i, j int) bool { return hunks[i].OldStart < hunks[j].OldStart })

	src := diff.SplitLines(original)
	out := make([]string, 0, len(src))
	cursor := 0

	for index, h := range hunks {
		pos := oldPosition(h)
		if pos < cursor || pos > len(src) {
			return "", mismatch(p, index, "hunk starts outside the remaining content")
		}
		out = append(out, src[cursor:pos]...)
		cursor = pos

		for _, line := range h.Lines {
			prefix, text := splitLine(line)
			switch prefix {
			case types.LineInsert:
				out = append(out, text)
			case types.LineDelete, types.LineContext:
				if cursor >= len(src) || src[cursor] != text {
					return "", mismatch(p, index, "content does not match")
				}
				if prefix == types.LineContext {
					out = append(out, text)
				}
				cursor++
			case '\\':
				continue
			default:
				return "", mismatch(p, index, "malformed hunk line")
			}
		}
	}

	out = append(out, src[cursor:]...)
	return diff.JoinLines(out), nil
}

// Reverse returns a patch that undoes p
func Reverse(p *types.Patch) *types.Patch {
	if p == nil {
		return nil
	}

	reversed := &types.Patch{
		FilePath:        p.FilePath,
		Hunks:           make([]types.PatchHunk, 0, len(p.Hunks)),
		OriginalContent: p.NewContent,
		NewContent:      p.OriginalContent,
		IssueID:         p.IssueID,
		ModuleID:        p.ModuleID,
	}

	for _, h := range p.Hunks {
		rh := types.PatchHunk{
			OldStart: h.NewStart,
			OldLines: h.NewLines,
			NewStart: h.OldStart,
			NewLines: h.OldLines,
			Lines:    make([]string, 0, len(h.Lines)),
		}
		for _, line := range h.Lines {
			prefix, text := splitLine(line)
			switch prefix {
			case types.LineInsert:
				rh.Lines = append(rh.Lines, string(types.LineDelete)+text)
			case types.LineDelete:
				rh.Lines = append(rh.Lines, string(types.LineInsert)+text)
			default:
				rh.Lines = append(rh.Lines, line)
			}
		}
		reversed.Hunks = append(reversed.Hunks, rh)
	}
	return reversed
}

// Stats counts added and deleted lines
func Stats(p *types.Patch) types.PatchStats {
	var stats types.PatchStats
	if p == nil {
		return stats
	}
	stats.Hunks = len(p.Hunks)
	for _, h := range p.Hunks {
		for _, line := range h.Lines {
			prefix, _ := splitLine(line)
			switch prefix {
			case types.LineInsert:
				stats.Additions++
			case types.LineDelete:
				stats.Deletions++
			}
		}
	}
	return stats
}

// splitLine separates a hunk line's prefix from its text. An empty line is
// context for an empty source line.
func splitLine(line string) (byte, string) {
	if line == "" {
		return types.LineContext, ""
	}
	return line[0], line[1:]
}

func mismatch(p *types.Patch, index int, reason string) error {
	return errors.Newf(errors.ErrInvalidInput, "hunk %d of %s does not apply: %s", index+1, p.FilePath, reason).
		In(errors.DomainGeneration).
		WithDetail(errors.DetailPath, p.FilePath).
		WithDetail(errors.DetailIndex, index)
}
