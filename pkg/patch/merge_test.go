// pkg/patch/merge_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify conflict detection and per-file patch merging

package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecheck/autofix/pkg/types"
)

func hunkAt(oldStart, oldLines int) types.PatchHunk {
	return types.PatchHunk{OldStart: oldStart, OldLines: oldLines, NewStart: oldStart, NewLines: oldLines}
}

func TestPatchesConflict(t *testing.T) {
	tests := []struct {
		name     string
		a        *types.Patch
		b        *types.Patch
		expected bool
	}{
		{
			name:     "overlapping_ranges",
			a:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(1, 5)}},
			b:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(5, 2)}},
			expected: true,
		},
		{
			name:     "adjacent_ranges",
			a:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(1, 5)}},
			b:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(6, 2)}},
			expected: false,
		},
		{
			name:     "insertion_inside_range",
			a:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(3, 0)}},
			b:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(2, 3)}},
			expected: true,
		},
		{
			name:     "insertion_outside_range",
			a:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(9, 0)}},
			b:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(2, 3)}},
			expected: false,
		},
		{
			name:     "two_insertions_same_point",
			a:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(4, 0)}},
			b:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(4, 0)}},
			expected: true,
		},
		{
			name:     "different_files",
			a:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(1, 5)}},
			b:        &types.Patch{FilePath: "g", Hunks: []types.PatchHunk{hunkAt(1, 5)}},
			expected: false,
		},
		{
			name:     "empty_patch",
			a:        &types.Patch{FilePath: "f"},
			b:        &types.Patch{FilePath: "f", Hunks: []types.PatchHunk{hunkAt(1, 5)}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PatchesConflict(tt.a, tt.b))
			assert.Equal(t, tt.expected, PatchesConflict(tt.b, tt.a), "conflict must be symmetric")
		})
	}

	assert.False(t, PatchesConflict(nil, &types.Patch{}))
}

func TestMergePatches(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	original := numbered(20)

	// p1 grows the file by one line near the top
	p1, err := g.GeneratePatch("f.txt", original, strings.Replace(original, "l2\n", "X\nX2\n", 1), "i1", "mod")
	require.NoError(t, err)
	// p2 edits near the bottom
	p2, err := g.GeneratePatch("f.txt", original, strings.Replace(original, "l18\n", "Y\n", 1), "i2", "mod")
	require.NoError(t, err)
	// p3 conflicts with p1
	p3, err := g.GeneratePatch("f.txt", original, strings.Replace(original, "l3\n", "Z\n", 1), "i3", "mod")
	require.NoError(t, err)
	// other file, duplicate issue id; p1 and p3 both start at line 1 and the
	// stable sort keeps p1 ahead
	other, err := g.GeneratePatch("g.txt", "a", "b", "i1", "mod")
	require.NoError(t, err)

	merged := MergePatches([]*types.Patch{p2, other, p1, p3})
	require.Len(t, merged, 3)

	// f.txt comes first because p2 was seen first
	combined := merged[0]
	assert.Equal(t, "f.txt", combined.FilePath)
	require.Len(t, combined.Hunks, 2)
	assert.Equal(t, 1, combined.Hunks[0].OldStart)
	assert.Equal(t, 15, combined.Hunks[1].OldStart)
	assert.Equal(t, 16, combined.Hunks[1].NewStart, "later hunk shifts by the inserted line")
	assert.Equal(t, "i1,i2", combined.IssueID)
	assert.Equal(t, "mod", combined.ModuleID)
	assert.Equal(t, original, combined.OriginalContent)

	expected := strings.Replace(strings.Replace(original, "l2\n", "X\nX2\n", 1), "l18\n", "Y\n", 1)
	assert.Equal(t, expected, combined.NewContent)

	assert.Same(t, p3, merged[1])
	assert.Equal(t, "g.txt", merged[2].FilePath)

	// Inputs are left untouched
	assert.Len(t, p1.Hunks, 1)
	assert.Equal(t, "i1", p1.IssueID)
}

func TestMergePatches_EmptyPatchFirst(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	noop, err := g.GeneratePatch("f.txt", "a\nb", "a\nb", "i0", "")
	require.NoError(t, err)
	edit, err := g.GeneratePatch("f.txt", "a\nb", "a\nc", "i1,i0", "")
	require.NoError(t, err)

	merged := MergePatches([]*types.Patch{edit, noop})
	require.Len(t, merged, 1)
	assert.Equal(t, "i0,i1", merged[0].IssueID)
	assert.Equal(t, "a\nc", merged[0].NewContent)
	assert.Len(t, merged[0].Hunks, 1)
}

func TestMergePatches_Empty(t *testing.T) {
	assert.Empty(t, MergePatches(nil))
}
