package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vibecheck/autofix/pkg/config"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/patch"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/types"
)

func newDiffCmd(g *globals) *cobra.Command {
	var (
		recordPath string
		check      bool
		issueID    string
		moduleID   string
	)

	cmd := &cobra.Command{
		Use:     "diff <original> <modified>",
		Short:   MsgDiffShort,
		Example: MsgDiffExample,
		GroupID: "patch",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}

			original, err := readInput(args[0])
			if err != nil {
				return err
			}
			modified, err := readInput(args[1])
			if err != nil {
				return err
			}

			if recordPath == "" {
				recordPath = relativeTo(a.root, args[0])
			}

			p, err := a.generator.GeneratePatch(recordPath, original, modified, issueID, moduleID)
			if err != nil {
				return err
			}
			if p.IsEmpty() {
				return printer.Message(MsgNoChanges, args[0], args[1])
			}

			if check {
				if err := a.validator.Validate(p); err != nil {
					return err
				}
				a.logger.Info().Str("path", p.FilePath).Msgf(MsgPatchValid, p.FilePath)
			}
			return printer.Patches([]*types.Patch{p})
		},
	}

	cmd.Flags().StringVar(&recordPath, "path", "", MsgFlagPath)
	cmd.Flags().BoolVar(&check, "check", false, MsgFlagCheck)
	cmd.Flags().StringVar(&issueID, "issue", "", MsgFlagIssue)
	cmd.Flags().StringVar(&moduleID, "module", "", MsgFlagModule)
	return cmd
}

func newApplyCmd(g *globals) *cobra.Command {
	var (
		issueID    string
		summary    string
		commitHash string
	)

	cmd := &cobra.Command{
		Use:     "apply <patch-file>",
		Short:   MsgApplyShort,
		Example: MsgApplyExample,
		GroupID: "patch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			defer a.manager.Wait()

			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			p, err := patch.Parse(text)
			if err != nil {
				return err
			}
			if issueID != "" {
				p.IssueID = issueID
			}

			id, err := applyPatch(cmd, a, p, summary)
			if err != nil {
				return err
			}

			if commitHash != "" {
				if err := a.manager.CommitTransaction(cmd.Context(), id, commitHash); err != nil {
					return err
				}
			}

			tx, err := a.manager.GetTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printer.Transaction(tx)
		},
	}

	cmd.Flags().StringVar(&issueID, "issue", "", MsgFlagIssue)
	cmd.Flags().StringVar(&summary, "summary", "", MsgFlagSummary)
	cmd.Flags().StringVar(&commitHash, "commit", "", MsgFlagCommit)
	return cmd
}

// applyPatch applies p to the working tree and records it in a new
// transaction. Content is computed and validated before the transaction
// starts so a rejected patch leaves no trace, and a transaction that fails
// before its fix is recorded is discarded.
func applyPatch(cmd *cobra.Command, a *app, p *types.Patch, summary string) (string, error) {
	// traversal and protected files are refused before anything is read
	if err := a.validator.CheckPath(p.FilePath); err != nil {
		return "", err
	}
	target, rel, err := paths.ResolveInRoot(a.root, p.FilePath)
	if err != nil {
		return "", err
	}
	p.FilePath = filepath.ToSlash(rel)

	perm := os.FileMode(0644)
	var current []byte
	info, err := a.fs.Stat(target)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		if current, err = a.fs.ReadFile(target); err != nil {
			return "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", p.FilePath).
				WithDetail(errors.DetailPath, p.FilePath)
		}
	case !os.IsNotExist(err):
		return "", errors.Wrapf(err, errors.ErrIO, "failed to stat %s", p.FilePath).
			WithDetail(errors.DetailPath, p.FilePath)
	}

	updated, err := patch.Apply(string(current), p)
	if err != nil {
		return "", err
	}
	p.OriginalContent = string(current)
	p.NewContent = updated
	if err := a.validator.Validate(p); err != nil {
		return "", err
	}

	if summary == "" {
		summary = "apply " + p.FilePath
	}
	ctx := cmd.Context()
	id, err := a.manager.StartTransaction(ctx, summary)
	if err != nil {
		return "", err
	}

	backup, err := writeFix(cmd, a, p, target, updated, perm)
	if err != nil {
		if discardErr := a.manager.DiscardTransaction(ctx, id); discardErr != nil {
			a.logger.Warn().Err(discardErr).Str("transactionId", id).Msg("Failed to discard transaction")
		}
		if backup != "" {
			_ = a.fs.Remove(backup)
		}
		return "", err
	}

	if err := a.manager.RecordFix(ctx, id, p, backup); err != nil {
		return "", err
	}
	a.logger.Info().Str("transactionId", id).Msgf(MsgApplied, p.FilePath, id)
	return id, nil
}

// writeFix backs up target and writes the patched content over it. The
// backup path is returned even on failure so the caller can remove it.
func writeFix(cmd *cobra.Command, a *app, p *types.Patch, target, updated string, perm os.FileMode) (string, error) {
	backup, err := a.manager.CreateBackup(cmd.Context(), p.FilePath)
	if err != nil {
		return "", err
	}
	if backup != "" {
		a.logger.Info().Str("backup", backup).Msgf(MsgBackupCreated, backup)
	}

	if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return backup, errors.Wrapf(err, errors.ErrIO, "failed to create directory for %s", p.FilePath).
			WithDetail(errors.DetailPath, p.FilePath)
	}
	if err := a.fs.WriteFile(target, []byte(updated), perm); err != nil {
		return backup, errors.Wrapf(err, errors.ErrIO, "failed to write %s", p.FilePath).
			WithDetail(errors.DetailPath, p.FilePath)
	}
	return backup, nil
}

func newCommitCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "commit <transaction-id> [commit-hash]",
		Short:   MsgCommitShort,
		GroupID: "tx",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			defer a.manager.Wait()

			hash := ""
			if len(args) == 2 {
				hash = args[1]
			}
			if err := a.manager.CommitTransaction(cmd.Context(), args[0], hash); err != nil {
				return err
			}
			return printer.Message(MsgCommitted, args[0])
		},
	}
}

func newHistoryCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		GroupID: "tx",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			txs, err := a.manager.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			return printer.History(txs)
		},
	}
}

func newShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "show <transaction-id>",
		Short:   MsgShowShort,
		GroupID: "tx",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			tx, err := a.manager.GetTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printer.Transaction(tx)
		},
	}
}

func newRollbackCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "rollback <transaction-id>",
		Short:   MsgRollbackShort,
		GroupID: "tx",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			result, err := a.manager.Rollback(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printer.Rollback(args[0], result)
		},
	}
}

func newCleanupCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "cleanup",
		Short:   MsgCleanupShort,
		GroupID: "tx",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := g.printer(cmd)
			if err != nil {
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			result, err := a.manager.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			return printer.Cleanup(result)
		},
	}
}

func newConfigCmd(g *globals) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				_, err := out.Write([]byte(config.GenerateConfigContent()))
				return err
			}
			a, err := g.load()
			if err != nil {
				return err
			}
			rendered, err := config.Render(a.cfg)
			if err != nil {
				return err
			}
			_, err = out.Write([]byte(rendered))
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

// readInput reads a file argument, with "-" meaning stdin
func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return string(data), nil
}

// relativeTo expresses path relative to root when it lives inside it
func relativeTo(root, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil || !paths.ContainsPath(root, abs) {
		return filepath.Base(path)
	}
	rel, err := paths.RelativePath(root, abs)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
