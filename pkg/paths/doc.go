// Package paths provides centralized path handling for autofix.
//
// It owns the on-disk layout of a project's autofix state (the transaction
// log and the backup directory) and the sanitization rules every path goes
// through before the rollback manager touches the filesystem: traversal
// segments are stripped, and absolute paths are only honored when they
// resolve inside the project root.
package paths
