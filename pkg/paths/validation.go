package paths

import (
	"path/filepath"
	"strings"

	"github.com/vibecheck/autofix/pkg/errors"
)

// maxPathLength is a common filesystem limit
const maxPathLength = 4096

// ValidatePath performs basic validation on a path.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes").
			WithDetail(errors.DetailPath, strings.ReplaceAll(path, "\x00", `\0`))
	}

	if len(path) > maxPathLength {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length").
			WithDetail(errors.DetailLimit, maxPathLength)
	}

	return nil
}

// SanitizePath strips traversal segments from a path.
// It:
// - Normalizes backslashes to forward slashes
// - Drops empty, "." and ".." segments
// - Preserves a leading separator for absolute paths
//
// The result uses the OS separator. It is empty when nothing survives.
func SanitizePath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	absolute := strings.HasPrefix(normalized, "/")

	segments := strings.Split(normalized, "/")
	kept := make([]string, 0, len(segments))
	for _, segment := range segments {
		switch segment {
		case "", ".", "..":
			continue
		}
		kept = append(kept, segment)
	}

	if len(kept) == 0 {
		if absolute {
			return string(filepath.Separator)
		}
		return ""
	}

	joined := filepath.Join(kept...)
	if absolute {
		return string(filepath.Separator) + joined
	}
	return joined
}

// ResolveInRoot maps path into root and returns both the absolute and the
// root-relative form. Relative paths are sanitized and joined to root.
// Absolute paths are accepted only if they already lie inside root;
// otherwise only their base name is kept, relative to root.
func ResolveInRoot(root, path string) (abs, rel string, err error) {
	if err := ValidatePath(path); err != nil {
		return "", "", err
	}

	root = filepath.Clean(root)

	if filepath.IsAbs(path) {
		cleaned := filepath.Clean(path)
		if ContainsPath(root, cleaned) {
			rel, relErr := filepath.Rel(root, cleaned)
			if relErr != nil {
				return "", "", errors.Wrapf(relErr, errors.ErrInvalidInput,
					"cannot determine relative path from %s to %s", root, cleaned)
			}
			return cleaned, rel, nil
		}
		path = filepath.Base(cleaned)
	}

	rel = SanitizePath(path)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	if rel == "" {
		return "", "", errors.Newf(errors.ErrInvalidInput, "path %q has no usable segments", path).
			WithDetail(errors.DetailPath, path)
	}

	return filepath.Join(root, rel), rel, nil
}

// RelativePath returns the relative path from base to target.
// Returns an error if the paths cannot be made relative.
func RelativePath(base, target string) (string, error) {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput,
			"cannot determine relative path from %s to %s", base, target)
	}

	return rel, nil
}

// ContainsPath checks if child is contained within parent.
// Both paths are normalized before comparison.
func ContainsPath(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	// A relative path climbing out of parent starts with a ".." segment
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
