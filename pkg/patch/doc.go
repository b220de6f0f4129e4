// Package patch turns before/after file contents into structured patches.
//
// A Generator validates its inputs, diffs them line by line (see package
// diff) and groups the edit script into hunks carrying a configurable number
// of context lines. Patches can be merged per file, checked for overlapping
// hunks, rendered to and parsed from unified diff text, replayed against the
// original content and reversed.
//
// Errors use the generation domain of pkg/errors: INVALID_INPUT for
// malformed paths or content, FILE_TOO_LARGE above the configured ceilings
// and GENERATION_FAILED when every item of a batch failed.
package patch
