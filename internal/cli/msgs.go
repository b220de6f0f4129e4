package cli

// Command descriptions
const (
	MsgRootShort = "Generate, apply and roll back automated code fixes"
	MsgRootLong  = `autofix turns proposed file rewrites into unified diff patches, applies
them inside transactions, and keeps verified backups so that every
uncommitted transaction can be rolled back.`

	MsgVersionShort  = "Print version information"
	MsgDiffShort     = "Generate a patch between two files"
	MsgDiffExample   = "  autofix diff src/app.js /tmp/app.fixed.js --path src/app.js"
	MsgApplyShort    = "Apply a patch file inside a new transaction"
	MsgApplyExample  = "  autofix apply fix.patch --issue SEC-12 --summary \"remove eval\""
	MsgCommitShort   = "Mark a pending transaction as committed"
	MsgHistoryShort  = "List recorded transactions"
	MsgShowShort     = "Show one transaction in detail"
	MsgRollbackShort = "Revert every fix of a pending transaction"
	MsgCleanupShort  = "Evict old transactions and delete stale backups"
	MsgConfigShort   = "Print the effective configuration"
)

// Flag descriptions
const (
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot     = "Project root (default: $AUTOFIX_ROOT, the git root, or the working directory)"
	MsgFlagOutput   = "Output format: auto, term, text, json or yaml"
	MsgFlagPath     = "Path recorded in the patch (default: the first file argument)"
	MsgFlagCheck    = "Validate the generated patch and fail when it is rejected"
	MsgFlagIssue    = "Issue identifier recorded with the fix"
	MsgFlagModule   = "Module identifier recorded with the patch"
	MsgFlagSummary  = "Human readable transaction summary"
	MsgFlagCommit   = "Commit the transaction right away with this hash"
	MsgFlagDefaults = "Print the commented default configuration instead"
)

// Output messages
const (
	MsgNoChanges       = "No changes between %s and %s"
	MsgPatchValid      = "Patch for %s passed validation"
	MsgApplied         = "Applied %s in transaction %s"
	MsgBackupCreated   = "Backup saved to %s"
	MsgCommitted       = "Transaction %s committed"
	MsgVersionFormat   = "autofix version %s\n"
	MsgCommitFormat    = "  commit: %s\n"
	MsgBuiltFormat     = "  built:  %s\n"
	MsgErrNoSubcommand = "no command specified"
)
