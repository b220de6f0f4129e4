// Package validator screens patches before they reach the rollback manager.
// It refuses protected paths, oversize patches and hunks whose headers
// disagree with their lines.
package validator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/types"
)

// DefaultProtectedPaths are refused unless the caller overrides the list
var DefaultProtectedPaths = []string{
	".git/**",
	"**/.env",
	"**/*.pem",
	".vibecheck/**",
	"**/node_modules/**",
}

// DefaultMaxPatchBytes bounds the size of a single patch
const DefaultMaxPatchBytes int64 = 10 << 20

// Validator holds patch safety rules
type Validator struct {
	ProtectedPaths []string
	MaxPatchBytes  int64
}

// New creates a validator. A nil pattern list means DefaultProtectedPaths,
// an empty one disables path protection.
func New(protected []string, maxPatchBytes int64) (*Validator, error) {
	if protected == nil {
		protected = DefaultProtectedPaths
	}
	if maxPatchBytes <= 0 {
		maxPatchBytes = DefaultMaxPatchBytes
	}

	patterns := normalizePatterns(protected)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrConfigValid, "invalid protected path pattern %q", pattern)
		}
	}

	return &Validator{ProtectedPaths: patterns, MaxPatchBytes: maxPatchBytes}, nil
}

// Validate checks a single patch
func (v *Validator) Validate(p *types.Patch) error {
	if p == nil {
		return errors.New(errors.ErrInvalidInput, "patch is nil")
	}
	if err := v.CheckPath(p.FilePath); err != nil {
		return err
	}

	if size := patchSize(p); size > v.MaxPatchBytes {
		return errors.Newf(errors.ErrInvalidInput, "patch for %s is %d bytes, limit is %d", p.FilePath, size, v.MaxPatchBytes).
			WithDetail(errors.DetailPath, p.FilePath).
			WithDetail(errors.DetailSize, size).
			WithDetail(errors.DetailLimit, v.MaxPatchBytes)
	}

	return checkHunks(p)
}

// ValidateAll checks every patch and returns the ones that passed together
// with the failures keyed by input index
func (v *Validator) ValidateAll(patches []*types.Patch) ([]*types.Patch, map[int]error) {
	valid := make([]*types.Patch, 0, len(patches))
	failures := make(map[int]error)
	for i, p := range patches {
		if err := v.Validate(p); err != nil {
			failures[i] = err
			continue
		}
		valid = append(valid, p)
	}
	return valid, failures
}

// CheckPath refuses paths that climb out of the project root with ".."
// segments and paths matching a protected pattern. Both fail with
// PERMISSION_DENIED.
func (v *Validator) CheckPath(path string) error {
	if err := paths.ValidatePath(path); err != nil {
		return err
	}
	if hasParentSegment(path) {
		return errors.Newf(errors.ErrPermissionDenied, "%s escapes the project root", path).
			WithDetail(errors.DetailPath, path)
	}

	rel := filepath.ToSlash(strings.TrimLeft(paths.SanitizePath(path), "/\\"))
	if pattern, ok := v.protectedBy(rel); ok {
		return errors.Newf(errors.ErrPermissionDenied, "%s is protected by %q", rel, pattern).
			WithDetail(errors.DetailPath, path).
			WithDetail("pattern", pattern)
	}
	return nil
}

func hasParentSegment(path string) bool {
	for _, segment := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return true
		}
	}
	return false
}

// IsProtected reports whether a repo-relative path matches a protected pattern
func (v *Validator) IsProtected(path string) bool {
	_, ok := v.protectedBy(filepath.ToSlash(path))
	return ok
}

func (v *Validator) protectedBy(rel string) (string, bool) {
	for _, pattern := range v.ProtectedPaths {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return pattern, true
		}
	}
	return "", false
}

func checkHunks(p *types.Patch) error {
	malformed := func(index int, format string, args ...interface{}) error {
		return errors.Newf(errors.ErrInvalidInput, "hunk %d of %s: %s", index+1, p.FilePath, fmt.Sprintf(format, args...)).
			WithDetail(errors.DetailPath, p.FilePath).
			WithDetail(errors.DetailIndex, index)
	}

	if p.OriginalContent == p.NewContent && len(p.Hunks) > 0 {
		return errors.Newf(errors.ErrInvalidInput, "patch for %s has hunks but no content change", p.FilePath).
			WithDetail(errors.DetailPath, p.FilePath)
	}

	type span struct{ start, end, index int }
	spans := make([]span, 0, len(p.Hunks))

	for i, h := range p.Hunks {
		if h.OldStart < 0 || h.NewStart < 0 || h.OldLines < 0 || h.NewLines < 0 {
			return malformed(i, "negative range")
		}
		for _, line := range h.Lines {
			if line == "" {
				continue
			}
			switch line[0] {
			case types.LineContext, types.LineDelete, types.LineInsert, '\\':
			default:
				return malformed(i, "line %q has no valid prefix", line)
			}
		}
		oldLines, newLines := h.CountLines()
		if oldLines != h.OldLines || newLines != h.NewLines {
			return malformed(i, "header declares -%d +%d, lines carry -%d +%d",
				h.OldLines, h.NewLines, oldLines, newLines)
		}
		spans = append(spans, span{start: h.OldStart, end: h.OldStart + h.OldLines, index: i})
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].start < spans[b].start })
	for k := 1; k < len(spans); k++ {
		if spans[k].start < spans[k-1].end {
			return malformed(spans[k].index, "overlaps hunk %d", spans[k-1].index+1)
		}
	}
	return nil
}

// patchSize is the larger of the new content and the hunk text
func patchSize(p *types.Patch) int64 {
	var hunkBytes int64
	for _, h := range p.Hunks {
		for _, line := range h.Lines {
			hunkBytes += int64(len(line)) + 1
		}
	}
	if content := int64(len(p.NewContent)); content > hunkBytes {
		return content
	}
	return hunkBytes
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}
