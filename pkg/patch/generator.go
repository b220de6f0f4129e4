package patch

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/vibecheck/autofix/pkg/diff"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/logging"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/types"
)

// Options bounds what a Generator accepts and shapes its output
type Options struct {
	// MaxFileSize is the largest accepted content size in bytes
	MaxFileSize int64
	// MaxLines is the largest accepted line count
	MaxLines int
	// ContextLines is the number of unchanged lines kept around each change
	ContextLines int
	// LargeInputThreshold is the m*n cell count above which the rolling
	// LCS variant is used
	LargeInputThreshold int
	// Workers bounds concurrent generation in batch calls
	Workers int
}

// DefaultOptions returns the stock generator settings
func DefaultOptions() Options {
	return Options{
		MaxFileSize:         10 << 20,
		MaxLines:            50000,
		ContextLines:        3,
		LargeInputThreshold: diff.DefaultThreshold,
		Workers:             4,
	}
}

// Generator produces patches from file contents
type Generator struct {
	opts   Options
	logger zerolog.Logger
}

// NewGenerator creates a generator. Zero or negative limits fall back to
// DefaultOptions; ContextLines may be zero but not negative.
func NewGenerator(opts Options) *Generator {
	defaults := DefaultOptions()
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaults.MaxFileSize
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = defaults.MaxLines
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = defaults.ContextLines
	}
	if opts.LargeInputThreshold <= 0 {
		opts.LargeInputThreshold = defaults.LargeInputThreshold
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}

	return &Generator{
		opts:   opts,
		logger: logging.GetLogger("patch.generator"),
	}
}

// Options returns the effective settings
func (g *Generator) Options() Options {
	return g.opts
}

// GeneratePatch diffs original against modified and returns the patch for
// filePath. Identical contents yield a patch without hunks.
func (g *Generator) GeneratePatch(filePath, original, modified, issueID, moduleID string) (*types.Patch, error) {
	cleanPath, err := normalizePatchPath(filePath)
	if err != nil {
		return nil, err
	}

	if err := g.checkContent(cleanPath, "original", original); err != nil {
		return nil, err
	}
	if err := g.checkContent(cleanPath, "modified", modified); err != nil {
		return nil, err
	}

	p := &types.Patch{
		FilePath:        cleanPath,
		Hunks:           []types.PatchHunk{},
		OriginalContent: original,
		NewContent:      modified,
		IssueID:         issueID,
		ModuleID:        moduleID,
	}

	if original == modified {
		g.logger.Debug().Str("path", cleanPath).Msg("Contents identical, empty patch")
		return p, nil
	}

	ops := diff.Lines(original, modified, g.opts.LargeInputThreshold)
	p.Hunks = buildHunks(ops, g.opts.ContextLines)

	g.logger.Debug().
		Str("path", cleanPath).
		Str("issueId", issueID).
		Int("hunks", len(p.Hunks)).
		Msg("Generated patch")

	return p, nil
}

func (g *Generator) checkContent(path, side, content string) error {
	if !utf8.ValidString(content) {
		return errors.Newf(errors.ErrInvalidInput, "%s content of %s is not valid UTF-8", side, path).
			In(errors.DomainGeneration).
			WithDetail(errors.DetailPath, path)
	}

	if size := int64(len(content)); size > g.opts.MaxFileSize {
		return errors.Newf(errors.ErrFileTooLarge, "%s content of %s is %d bytes, limit is %d",
			side, path, size, g.opts.MaxFileSize).
			WithDetail(errors.DetailPath, path).
			WithDetail(errors.DetailSize, size).
			WithDetail(errors.DetailLimit, g.opts.MaxFileSize)
	}

	if lines := countLines(content); lines > g.opts.MaxLines {
		return errors.Newf(errors.ErrFileTooLarge, "%s content of %s has %d lines, limit is %d",
			side, path, lines, g.opts.MaxLines).
			WithDetail(errors.DetailPath, path).
			WithDetail(errors.DetailSize, lines).
			WithDetail(errors.DetailLimit, g.opts.MaxLines)
	}

	return nil
}

// normalizePatchPath validates a collaborator-supplied path and strips
// traversal segments. The result is slash-separated and never absolute.
func normalizePatchPath(filePath string) (string, error) {
	if err := paths.ValidatePath(filePath); err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "invalid patch path").
			In(errors.DomainGeneration).
			WithDetail(errors.DetailPath, strings.ReplaceAll(filePath, "\x00", `\0`))
	}

	cleaned := filepath.ToSlash(paths.SanitizePath(filePath))
	cleaned = strings.TrimLeft(cleaned, "/")
	if cleaned == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "path %q has no usable segments", filePath).
			In(errors.DomainGeneration).
			WithDetail(errors.DetailPath, filePath)
	}
	return cleaned, nil
}

// countLines counts newline-terminated lines plus a final unterminated one
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
