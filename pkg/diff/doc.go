// Package diff computes line-level edit scripts between two texts.
//
// The edit script is derived from a longest common subsequence. Small inputs
// use a full (m+1)x(n+1) score table; inputs whose cell count exceeds a
// threshold use a rolling two-row score table plus a one-byte back-pointer
// table. Both produce identical scripts: when a deletion and an insertion
// score the same, the deletion is taken first, so within any changed region
// deleted lines precede inserted lines.
//
// Common leading and trailing lines are stripped before the table is built,
// which keeps typical small edits to large files cheap.
package diff
