package patch

import (
	"github.com/vibecheck/autofix/pkg/diff"
	"github.com/vibecheck/autofix/pkg/types"
)

// buildHunks groups an edit script into hunks. A hunk opens context lines
// before its first change and closes once 2*context equal lines follow its
// last change; the trailing context is then trimmed back to context lines.
func buildHunks(ops []diff.Op, context int) []types.PatchHunk {
	hunks := []types.PatchHunk{}
	n := len(ops)
	prevStop := 0
	i := 0

	for i < n {
		for i < n && ops[i].Kind == diff.Equal {
			i++
		}
		if i >= n {
			break
		}

		start := i - context
		if start < prevStop {
			start = prevStop
		}

		// end is one past the last change in this hunk
		end := i
		j := i
		for j < n {
			if ops[j].Kind != diff.Equal {
				j++
				end = j
				continue
			}
			k := j
			for k < n && ops[k].Kind == diff.Equal {
				k++
			}
			if k >= n || k-j >= 2*context {
				break
			}
			j = k
		}

		stop := end + context
		if stop > n {
			stop = n
		}

		hunks = append(hunks, makeHunk(ops[start:stop]))
		prevStop = stop
		i = end
	}

	return hunks
}

func makeHunk(ops []diff.Op) types.PatchHunk {
	h := types.PatchHunk{Lines: make([]string, 0, len(ops))}
	for _, op := range ops {
		switch op.Kind {
		case diff.Equal:
			h.Lines = append(h.Lines, string(types.LineContext)+op.Text)
			h.OldLines++
			h.NewLines++
		case diff.Delete:
			h.Lines = append(h.Lines, string(types.LineDelete)+op.Text)
			h.OldLines++
		case diff.Insert:
			h.Lines = append(h.Lines, string(types.LineInsert)+op.Text)
			h.NewLines++
		}
	}

	first := ops[0]
	h.OldStart = startLine(first.OldIndex, h.OldLines)
	h.NewStart = startLine(first.NewIndex, h.NewLines)
	return h
}

// startLine converts a 0-based position into a unified diff start. A side
// with no lines points at the line before the position, 0 at top of file.
func startLine(index, count int) int {
	if count == 0 {
		return index
	}
	return index + 1
}

// oldPosition is the 0-based index of a hunk's first old line, or its
// insertion point when it has none
func oldPosition(h types.PatchHunk) int {
	if h.OldLines == 0 {
		return h.OldStart
	}
	return h.OldStart - 1
}

// renumber recomputes NewStart for hunks sorted by OldStart so they describe
// a single consistent patch
func renumber(hunks []types.PatchHunk) {
	delta := 0
	for i := range hunks {
		h := &hunks[i]
		h.NewStart = startLine(oldPosition(*h)+delta, h.NewLines)
		delta += h.NewLines - h.OldLines
	}
}
