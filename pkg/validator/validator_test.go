// pkg/validator/validator_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify protected path globs, size ceilings and hunk checks

package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

func smallPatch(path string) *types.Patch {
	return &types.Patch{
		FilePath:        path,
		OriginalContent: "a\nb\nc",
		NewContent:      "a\nX\nc",
		Hunks: []types.PatchHunk{{
			OldStart: 1, OldLines: 3, NewStart: 1, NewLines: 3,
			Lines: []string{" a", "-b", "+X", " c"},
		}},
	}
}

func TestValidate_ProtectedPaths(t *testing.T) {
	v, err := New(nil, 0)
	require.NoError(t, err)

	tests := []struct {
		path      string
		protected bool
	}{
		{"src/app.go", false},
		{".git/config", true},
		{".env", true},
		{"services/api/.env", true},
		{".env.example", false},
		{"certs/server.pem", true},
		{".vibecheck/autofix-log.json", true},
		{"web/node_modules/lib/index.js", true},
		{"../.git/HEAD", true},
		{"/.env", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := v.Validate(smallPatch(tt.path))
			if tt.protected {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrPermissionDenied))
				assert.Equal(t, tt.path, errors.GetErrorDetails(err)[errors.DetailPath])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_CustomPatterns(t *testing.T) {
	v, err := New([]string{" secrets/** ", ""}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"secrets/**"}, v.ProtectedPaths)

	assert.True(t, v.IsProtected("secrets/prod/key.txt"))
	assert.False(t, v.IsProtected(".env"))

	open, err := New([]string{}, 0)
	require.NoError(t, err)
	assert.NoError(t, open.Validate(smallPatch(".git/config")))

	_, err = New([]string{"[unclosed"}, 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestValidate_Size(t *testing.T) {
	v, err := New(nil, 16)
	require.NoError(t, err)

	p := smallPatch("f.txt")
	assert.NoError(t, v.Validate(p))

	p.NewContent = strings.Repeat("x", 17)
	p.Hunks[0].Lines = []string{" a", "-b", "+" + strings.Repeat("x", 17), " c"}
	err = v.Validate(p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.EqualValues(t, 16, errors.GetErrorDetails(err)[errors.DetailLimit])
}

func TestValidate_Malformed(t *testing.T) {
	v, err := New(nil, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(p *types.Patch)
	}{
		{"nil_patch", nil},
		{"empty_path", func(p *types.Patch) { p.FilePath = "" }},
		{"wrong_old_count", func(p *types.Patch) { p.Hunks[0].OldLines = 2 }},
		{"wrong_new_count", func(p *types.Patch) { p.Hunks[0].NewLines = 4 }},
		{"bad_prefix", func(p *types.Patch) { p.Hunks[0].Lines[1] = "*b" }},
		{"negative_start", func(p *types.Patch) { p.Hunks[0].OldStart = -1 }},
		{"hunks_without_change", func(p *types.Patch) { p.NewContent = p.OriginalContent }},
		{"overlapping_hunks", func(p *types.Patch) {
			p.Hunks = append(p.Hunks, types.PatchHunk{
				OldStart: 2, OldLines: 1, NewStart: 2, NewLines: 1,
				Lines: []string{"-b", "+Y"},
			})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p *types.Patch
			if tt.mutate != nil {
				p = smallPatch("f.txt")
				tt.mutate(p)
			}
			err := v.Validate(p)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		})
	}
}

func TestValidateAll(t *testing.T) {
	v, err := New(nil, 0)
	require.NoError(t, err)

	good := smallPatch("a.go")
	bad := smallPatch(".git/config")
	other := smallPatch("b.go")

	valid, failures := v.ValidateAll([]*types.Patch{good, bad, other})
	assert.Equal(t, []*types.Patch{good, other}, valid)
	require.Len(t, failures, 1)
	assert.True(t, errors.IsErrorCode(failures[1], errors.ErrPermissionDenied))
}

func TestCheckPath_Traversal(t *testing.T) {
	open, err := New([]string{}, 0)
	require.NoError(t, err)

	tests := []struct {
		path    string
		refused bool
	}{
		{"src/app.go", false},
		{"src/..hidden/file", false},
		{"../escaped.txt", true},
		{"src/../../escaped.txt", true},
		{`src\..\..\escaped.txt`, true},
		{"a/b/..", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := open.CheckPath(tt.path)
			if !tt.refused {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrPermissionDenied))
			assert.Contains(t, err.Error(), "escapes the project root")

			assert.True(t, errors.IsErrorCode(open.Validate(smallPatch(tt.path)), errors.ErrPermissionDenied))
		})
	}
}
