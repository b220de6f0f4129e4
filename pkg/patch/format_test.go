// pkg/patch/format_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify unified diff rendering and parsing

package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

func TestFormat(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	p, err := g.GeneratePatch("src/a.txt", "a\nb\nc", "a\nX\nc", "", "")
	require.NoError(t, err)

	expected := strings.Join([]string{
		"--- a/src/a.txt",
		"+++ b/src/a.txt",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+X",
		" c",
		"",
	}, "\n")
	assert.Equal(t, expected, Format(p))
}

func TestFormat_EmptyPatch(t *testing.T) {
	p := &types.Patch{FilePath: "x.go"}
	assert.Equal(t, "--- a/x.go\n+++ b/x.go\n", Format(p))
}

func TestParse_RoundTrip(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	original := numbered(30)
	modified := strings.Replace(strings.Replace(original, "l4\n", "-- dashes\n", 1), "l26\n", "++ plus\n", 1)

	p, err := g.GeneratePatch("dir/file.txt", original, modified, "", "")
	require.NoError(t, err)
	require.Len(t, p.Hunks, 2)

	parsed, err := Parse(Format(p))
	require.NoError(t, err)
	assert.Equal(t, "dir/file.txt", parsed.FilePath)
	assert.Equal(t, p.Hunks, parsed.Hunks)

	got, err := Apply(original, parsed)
	require.NoError(t, err)
	assert.Equal(t, modified, got)
}

func TestParse_Defaults(t *testing.T) {
	text := "--- a/f.txt\n+++ b/f.txt\n@@ -3 +4 @@\n-x\n+y\n"
	p, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, p.Hunks, 1)

	h := p.Hunks[0]
	assert.Equal(t, 3, h.OldStart)
	assert.Equal(t, 0, h.OldLines)
	assert.Equal(t, 4, h.NewStart)
	assert.Equal(t, 0, h.NewLines)
	assert.Equal(t, []string{"-x", "+y"}, h.Lines)

	p, err = Parse("@@ -,2 +,2 @@\n a\n b\n")
	require.NoError(t, err)
	require.Len(t, p.Hunks, 1)
	assert.Equal(t, 1, p.Hunks[0].OldStart)
	assert.Equal(t, 1, p.Hunks[0].NewStart)
	assert.Equal(t, 2, p.Hunks[0].OldLines)
}

func TestParse_PathFallbackAndNoise(t *testing.T) {
	text := strings.Join([]string{
		"diff --git a/old.txt b/old.txt",
		"index 123..456 100644",
		"--- a/old.txt\t2024-01-01 00:00:00",
		"+++ /dev/null",
		"@@ -1,1 +0,0 @@",
		"-gone",
		"\\ No newline at end of file",
	}, "\n")

	p, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "old.txt", p.FilePath)
	require.Len(t, p.Hunks, 1)
	assert.Equal(t, []string{"-gone", "\\ No newline at end of file"}, p.Hunks[0].Lines)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("just some text\nwithout a diff")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = Parse("--- a/f\n+++ b/f\n@@ garbage @@\n")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
