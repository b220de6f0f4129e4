package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vibecheck/autofix/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// TransactionMarkdown describes a transaction and each of its fixes as markdown
func TransactionMarkdown(tx *types.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transaction %s\n\n", tx.ID)
	if tx.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", tx.Summary)
	}
	fmt.Fprintf(&b, "- **Status:** %s\n", tx.Status)
	fmt.Fprintf(&b, "- **Started:** %s\n", tx.Timestamp.Local().Format(timeLayout))
	if tx.CommitHash != "" {
		fmt.Fprintf(&b, "- **Commit:** `%s`\n", tx.CommitHash)
	}
	fmt.Fprintf(&b, "- **Fixes:** %d\n", len(tx.Fixes))

	if len(tx.Fixes) == 0 {
		return b.String()
	}

	b.WriteString("\n## Fixes\n\n")
	b.WriteString("| # | Issue | File | Status | Applied | Backup |\n")
	b.WriteString("|---|-------|------|--------|---------|--------|\n")
	for i, fix := range tx.Fixes {
		backup := "none"
		if fix.BackupPath != "" {
			backup = "`" + fix.BackupPath + "`"
		}
		fmt.Fprintf(&b, "| %d | %s | `%s` | %s | %s | %s |\n",
			i+1, fix.IssueID, fix.FilePath, fix.Status, fix.AppliedAt.Local().Format(timeLayout), backup)
	}

	var failures []string
	for _, fix := range tx.Fixes {
		if fix.Error != "" {
			failures = append(failures, fmt.Sprintf("- `%s`: %s", fix.FilePath, fix.Error))
		}
	}
	if len(failures) > 0 {
		b.WriteString("\n## Errors\n\n")
		b.WriteString(strings.Join(failures, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Age renders how long ago t was in a compact form
func Age(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
