package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vibecheck/autofix/internal/version"
	"github.com/vibecheck/autofix/pkg/logging"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/ui"
)

// globals holds the persistent flags shared by every command
type globals struct {
	verbosity int
	root      string
	output    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "autofix",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoSubcommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVarP(&g.output, "output", "o", "auto", MsgFlagOutput)

	rootCmd.AddGroup(&cobra.Group{ID: "patch", Title: "PATCHES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "tx", Title: "TRANSACTIONS:"})

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDiffCmd(g))
	rootCmd.AddCommand(newApplyCmd(g))
	rootCmd.AddCommand(newCommitCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))
	rootCmd.AddCommand(newShowCmd(g))
	rootCmd.AddCommand(newRollbackCmd(g))
	rootCmd.AddCommand(newCleanupCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	return rootCmd
}

// Execute runs the root command and prints any error in the requested format
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		format, _ := ui.ParseFormat(rootCmd.PersistentFlags().Lookup("output").Value.String())
		_ = ui.NewPrinter(rootCmd.ErrOrStderr(), format).Error(err)
	}
	return err
}

// load builds the app and raises logging to the configured level when the
// config asks for more than the flags did
func (g *globals) load() (*app, error) {
	a, err := newApp(g.root)
	if err != nil {
		return nil, err
	}
	if a.cfg.Logging.Verbosity > g.verbosity || a.cfg.Logging.File != "" {
		verbosity := g.verbosity
		if a.cfg.Logging.Verbosity > verbosity {
			verbosity = a.cfg.Logging.Verbosity
		}
		logFile := a.cfg.Logging.File
		if logFile == "" {
			logFile = paths.LogFilePath()
		}
		logging.SetupLoggerWithFile(verbosity, logFile)
		a.logger = logging.GetLogger("cli")
	}
	return a, nil
}

func (g *globals) printer(cmd *cobra.Command) (*ui.Printer, error) {
	format, err := ui.ParseFormat(g.output)
	if err != nil {
		return nil, err
	}
	return ui.NewPrinter(cmd.OutOrStdout(), format), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}
