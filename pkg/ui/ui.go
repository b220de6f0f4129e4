// Package ui renders autofix results for people and machines. Terminal
// output is colored with lipgloss and pterm, reports go through glamour,
// and JSON or YAML are available for scripting.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/rollback"
	"github.com/vibecheck/autofix/pkg/types"
)

// Printer writes results to an output in a single format
type Printer struct {
	out      io.Writer
	format   Format
	markdown *MarkdownRenderer
	now      func() time.Time
}

// NewPrinter creates a printer. FormatAuto is resolved against out.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{
		out:      out,
		format:   Resolve(format, out),
		markdown: NewMarkdownRenderer(),
		now:      time.Now,
	}
}

// Format returns the resolved output format
func (p *Printer) Format() Format {
	return p.format
}

// Patches writes each patch as a unified diff, or the patch list when structured
func (p *Printer) Patches(patches []*types.Patch) error {
	if p.format.IsStructured() {
		return p.encode(patches)
	}
	for _, patch := range patches {
		if _, err := io.WriteString(p.out, RenderPatch(patch, p.format)); err != nil {
			return err
		}
	}
	return nil
}

// History writes the transaction list, newest first as given
func (p *Printer) History(txs []*types.Transaction) error {
	if p.format.IsStructured() {
		return p.encode(txs)
	}
	if len(txs) == 0 {
		return p.Message("No transactions recorded")
	}

	data := pterm.TableData{{"ID", "Status", "Fixes", "Age", "Summary"}}
	for _, tx := range txs {
		data = append(data, []string{
			tx.ID,
			StatusStyle(tx.Status).Sprint(string(tx.Status)),
			fmt.Sprintf("%d", len(tx.Fixes)),
			Age(p.now(), tx.Timestamp),
			tx.Summary,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render history table")
	}
	return p.write(table + "\n")
}

// Transaction writes a detailed report for one transaction
func (p *Printer) Transaction(tx *types.Transaction) error {
	if p.format.IsStructured() {
		return p.encode(tx)
	}
	md := TransactionMarkdown(tx)
	if p.format == FormatTerminal {
		return p.write(p.markdown.Render(md))
	}
	return p.write(md)
}

// Rollback writes the outcome of a rollback
func (p *Printer) Rollback(id string, result *types.RollbackResult) error {
	if p.format.IsStructured() {
		return p.encode(result)
	}
	status := types.TransactionRolledBack
	if !result.Success {
		status = types.TransactionPartial
	}
	line := fmt.Sprintf("%s %s: %d reverted, %d failed\n",
		id, StatusStyle(status).Sprint(string(status)), result.FixesRolledBack, result.FixesFailed)
	for _, msg := range result.Errors {
		line += "  " + FixStatusStyle(types.FixFailed).Sprint("error") + ": " + msg + "\n"
	}
	return p.write(line)
}

// Cleanup writes what a cleanup pass removed
func (p *Printer) Cleanup(result *rollback.CleanupResult) error {
	if p.format.IsStructured() {
		return p.encode(result)
	}
	line := fmt.Sprintf("Evicted %d transaction(s), deleted %d backup(s)\n",
		result.TransactionsEvicted, result.BackupsDeleted)
	for _, msg := range result.Errors {
		line += "  error: " + msg + "\n"
	}
	return p.write(line)
}

// Message writes a single informational line
func (p *Printer) Message(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if p.format.IsStructured() {
		return p.encode(map[string]string{"message": msg})
	}
	return p.write(msg + "\n")
}

// Error writes an error with its code when it carries one
func (p *Printer) Error(err error) error {
	code := errors.GetErrorCode(err)
	if p.format.IsStructured() {
		return p.encode(map[string]interface{}{
			"error":   err.Error(),
			"code":    string(code),
			"details": errors.GetErrorDetails(err),
		})
	}
	return p.write(RemovedStyle.Render("Error: "+err.Error()) + "\n")
}

func (p *Printer) write(s string) error {
	if p.format == FormatText {
		s = pterm.RemoveColorFromString(s)
	}
	_, err := io.WriteString(p.out, s)
	return err
}

func (p *Printer) encode(v interface{}) error {
	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode json")
		}
		return nil
	}
}
