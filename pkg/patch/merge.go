package patch

import (
	"sort"
	"strings"

	"github.com/vibecheck/autofix/pkg/types"
)

// PatchesConflict reports whether a and b touch overlapping old-side ranges
// of the same file. A hunk without old lines occupies the single line at its
// OldStart.
func PatchesConflict(a, b *types.Patch) bool {
	if a == nil || b == nil || a.FilePath != b.FilePath {
		return false
	}
	for _, ha := range a.Hunks {
		aStart, aEnd := hunkRange(ha)
		for _, hb := range b.Hunks {
			bStart, bEnd := hunkRange(hb)
			if aStart < bEnd && bStart < aEnd {
				return true
			}
		}
	}
	return false
}

func hunkRange(h types.PatchHunk) (start, end int) {
	if h.OldLines == 0 {
		return h.OldStart, h.OldStart + 1
	}
	return h.OldStart, h.OldStart + h.OldLines
}

// MergePatches folds non-conflicting patches on the same file into one.
// Files keep their first-seen order. Within a file, patches are ordered by
// their first hunk; a patch that conflicts with the merged result so far is
// kept as a separate entry after it.
func MergePatches(patches []*types.Patch) []*types.Patch {
	var order []string
	groups := make(map[string][]*types.Patch)
	for _, p := range patches {
		if p == nil {
			continue
		}
		if _, seen := groups[p.FilePath]; !seen {
			order = append(order, p.FilePath)
		}
		groups[p.FilePath] = append(groups[p.FilePath], p)
	}

	merged := make([]*types.Patch, 0, len(patches))
	for _, path := range order {
		group := groups[path]
		sort.SliceStable(group, func(i, j int) bool {
			return firstOldStart(group[i]) < firstOldStart(group[j])
		})

		acc := clonePatch(group[0])
		var separate []*types.Patch
		last := group[0]

		for _, p := range group[1:] {
			if PatchesConflict(acc, p) {
				separate = append(separate, p)
				continue
			}
			acc.Hunks = append(acc.Hunks, cloneHunks(p.Hunks)...)
			acc.IssueID = joinIDs(acc.IssueID, p.IssueID)
			acc.ModuleID = joinIDs(acc.ModuleID, p.ModuleID)
			last = p
		}

		if last != group[0] {
			sort.SliceStable(acc.Hunks, func(i, j int) bool {
				return acc.Hunks[i].OldStart < acc.Hunks[j].OldStart
			})
			renumber(acc.Hunks)
			if content, err := Apply(acc.OriginalContent, acc); err == nil {
				acc.NewContent = content
			} else {
				acc.NewContent = last.NewContent
			}
		}

		merged = append(merged, acc)
		merged = append(merged, separate...)
	}
	return merged
}

// firstOldStart orders patches without hunks ahead of all others
func firstOldStart(p *types.Patch) int {
	if len(p.Hunks) == 0 {
		return -1
	}
	return p.Hunks[0].OldStart
}

// joinIDs combines comma-separated id lists, dropping duplicates
func joinIDs(a, b string) string {
	seen := make(map[string]bool)
	var ids []string
	for _, list := range []string{a, b} {
		for _, id := range strings.Split(list, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return strings.Join(ids, ",")
}

func clonePatch(p *types.Patch) *types.Patch {
	c := *p
	c.Hunks = cloneHunks(p.Hunks)
	return &c
}

func cloneHunks(hunks []types.PatchHunk) []types.PatchHunk {
	out := make([]types.PatchHunk, len(hunks))
	for i, h := range hunks {
		out[i] = h
		out[i].Lines = append([]string(nil), h.Lines...)
	}
	return out
}
