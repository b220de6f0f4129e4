// Package types defines the core data model shared by the patch generator
// and the rollback manager: Patch and PatchHunk, the FileChange input tuple,
// Transaction and TransactionFix, and the on-disk TransactionLog projection.
// It also declares the FS interface the rollback manager performs all disk
// access through.
package types
