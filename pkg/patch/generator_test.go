// pkg/patch/generator_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify patch generation, hunk assembly and input validation

package patch

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

// TestMain keeps generator debug lines out of test output
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

// numbered returns "l1\nl2\n...\ln"
func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestGeneratePatch_SmallEdit(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	p, err := g.GeneratePatch("src/app.ts", "a\nb\nc", "a\nX\nc", "issue-1", "security")
	require.NoError(t, err)

	require.Len(t, p.Hunks, 1)
	h := p.Hunks[0]
	assert.Equal(t, 1, h.OldStart)
	assert.Equal(t, 3, h.OldLines)
	assert.Equal(t, 1, h.NewStart)
	assert.Equal(t, 3, h.NewLines)
	assert.Equal(t, []string{" a", "-b", "+X", " c"}, h.Lines)

	assert.Equal(t, "src/app.ts", p.FilePath)
	assert.Equal(t, "issue-1", p.IssueID)
	assert.Equal(t, "security", p.ModuleID)
	assert.Equal(t, "a\nb\nc", p.OriginalContent)
	assert.Equal(t, "a\nX\nc", p.NewContent)
}

func TestGeneratePatch_NoOp(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	p, err := g.GeneratePatch("a.txt", "same\ncontent\n", "same\ncontent\n", "i", "m")
	require.NoError(t, err)
	assert.Empty(t, p.Hunks)
	assert.NotNil(t, p.Hunks)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, p.OriginalContent, p.NewContent)
}

func TestGeneratePatch_HunkSplitting(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	original := numbered(20)
	modified := strings.Replace(strings.Replace(original, "l2\n", "X\n", 1), "l18\n", "Y\n", 1)

	p, err := g.GeneratePatch("f.txt", original, modified, "", "")
	require.NoError(t, err)
	require.Len(t, p.Hunks, 2)

	assert.Equal(t, types.PatchHunk{
		OldStart: 1, OldLines: 5, NewStart: 1, NewLines: 5,
		Lines: []string{" l1", "-l2", "+X", " l3", " l4", " l5"},
	}, p.Hunks[0])
	assert.Equal(t, types.PatchHunk{
		OldStart: 15, OldLines: 6, NewStart: 15, NewLines: 6,
		Lines: []string{" l15", " l16", " l17", "-l18", "+Y", " l19", " l20"},
	}, p.Hunks[1])
}

func TestGeneratePatch_NearbyChangesShareHunk(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	original := numbered(20)
	modified := strings.Replace(strings.Replace(original, "l2\n", "X\n", 1), "l7\n", "Y\n", 1)

	p, err := g.GeneratePatch("f.txt", original, modified, "", "")
	require.NoError(t, err)
	require.Len(t, p.Hunks, 1)
	assert.Equal(t, 1, p.Hunks[0].OldStart)
	assert.Equal(t, 10, p.Hunks[0].OldLines)
}

func TestGeneratePatch_ZeroContext(t *testing.T) {
	opts := DefaultOptions()
	opts.ContextLines = 0
	g := NewGenerator(opts)

	t.Run("insert_at_top", func(t *testing.T) {
		p, err := g.GeneratePatch("f.txt", "b\nc", "a\nb\nc", "", "")
		require.NoError(t, err)
		require.Len(t, p.Hunks, 1)
		assert.Equal(t, types.PatchHunk{
			OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 1,
			Lines: []string{"+a"},
		}, p.Hunks[0])
	})

	t.Run("delete_at_end", func(t *testing.T) {
		p, err := g.GeneratePatch("f.txt", "a\nb\nc", "a\nb", "", "")
		require.NoError(t, err)
		require.Len(t, p.Hunks, 1)
		assert.Equal(t, types.PatchHunk{
			OldStart: 3, OldLines: 1, NewStart: 2, NewLines: 0,
			Lines: []string{"-c"},
		}, p.Hunks[0])
	})

	t.Run("separate_changes", func(t *testing.T) {
		p, err := g.GeneratePatch("f.txt", "a\nb\nc", "X\nb\nY", "", "")
		require.NoError(t, err)
		assert.Len(t, p.Hunks, 2)
	})
}

func TestGeneratePatch_CountsMatchLines(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	p, err := g.GeneratePatch("f.txt", numbered(40), strings.ReplaceAll(numbered(40), "l1", "L1"), "", "")
	require.NoError(t, err)
	require.NotEmpty(t, p.Hunks)

	for _, h := range p.Hunks {
		oldLines, newLines := h.CountLines()
		assert.Equal(t, h.OldLines, oldLines)
		assert.Equal(t, h.NewLines, newLines)
	}
}

func TestGeneratePatch_PathHandling(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  bool
	}{
		{"relative", "src/a.go", "src/a.go", false},
		{"traversal_stripped", "../../etc/passwd", "etc/passwd", false},
		{"absolute_made_relative", "/repo/src/a.go", "repo/src/a.go", false},
		{"backslashes", `src\lib\a.go`, "src/lib/a.go", false},
		{"empty", "", "", true},
		{"null_byte", "src/a\x00.go", "", true},
		{"nothing_left", "../..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := g.GeneratePatch(tt.path, "a", "b", "", "")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				assert.Equal(t, errors.DomainGeneration, errors.GetDomain(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.FilePath)
		})
	}
}

func TestGeneratePatch_InvalidUTF8(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	_, err := g.GeneratePatch("a.bin", "ok", "bad \xff\xfe", "", "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, "a.bin", errors.GetErrorDetails(err)[errors.DetailPath])
}

func TestGeneratePatch_SizeLimits(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFileSize = 10
	opts.MaxLines = 3
	g := NewGenerator(opts)

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"bytes_at_limit", "0123456789", false},
		{"bytes_above_limit", "0123456789A", true},
		{"lines_at_limit", "a\nb\nc", false},
		{"lines_at_limit_trailing_newline", "a\nb\nc\n", false},
		{"lines_above_limit", "a\nb\nc\nd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOriginal := g.GeneratePatch("f.txt", tt.content, "x", "", "")
			_, errModified := g.GeneratePatch("f.txt", "x", tt.content, "", "")
			for _, err := range []error{errOriginal, errModified} {
				if tt.wantErr {
					require.Error(t, err)
					assert.True(t, errors.IsErrorCode(err, errors.ErrFileTooLarge))
					assert.Equal(t, errors.DomainGeneration, errors.GetDomain(err))
				} else {
					assert.NoError(t, err)
				}
			}
		})
	}
}

func TestNewGenerator_Defaults(t *testing.T) {
	g := NewGenerator(Options{ContextLines: -1})
	assert.Equal(t, DefaultOptions(), g.Options())

	g = NewGenerator(Options{ContextLines: 0})
	assert.Equal(t, 0, g.Options().ContextLines)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("a"))
	assert.Equal(t, 1, countLines("a\n"))
	assert.Equal(t, 2, countLines("a\nb"))
	assert.Equal(t, 2, countLines("\n\n"))
}
