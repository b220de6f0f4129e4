package cli

import (
	"github.com/rs/zerolog"

	"github.com/vibecheck/autofix/pkg/config"
	"github.com/vibecheck/autofix/pkg/filesystem"
	"github.com/vibecheck/autofix/pkg/logging"
	"github.com/vibecheck/autofix/pkg/patch"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/rollback"
	"github.com/vibecheck/autofix/pkg/types"
	"github.com/vibecheck/autofix/pkg/validator"
)

// app carries everything a command needs once the project root and its
// configuration are known
type app struct {
	root      string
	cfg       *config.Config
	fs        types.FS
	generator *patch.Generator
	validator *validator.Validator
	manager   *rollback.Manager
	logger    zerolog.Logger
}

// newApp loads the configuration for root and builds the components from it.
// An empty root is discovered with paths.FindProjectRoot.
func newApp(root string) (*app, error) {
	if root == "" {
		found, err := paths.FindProjectRoot()
		if err != nil {
			return nil, err
		}
		root = found
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	v, err := validator.New(cfg.Validator.ProtectedPaths, int64(cfg.Validator.MaxPatchSize))
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	manager, err := rollback.New(root, rollbackOptions(cfg), fsys)
	if err != nil {
		return nil, err
	}

	return &app{
		root:      manager.ProjectRoot(),
		cfg:       cfg,
		fs:        fsys,
		generator: patch.NewGenerator(generatorOptions(cfg)),
		validator: v,
		manager:   manager,
		logger:    logging.GetLogger("cli"),
	}, nil
}

func generatorOptions(cfg *config.Config) patch.Options {
	return patch.Options{
		MaxFileSize:         int64(cfg.Generator.MaxFileSize),
		MaxLines:            cfg.Generator.MaxLines,
		ContextLines:        cfg.Generator.ContextLines,
		LargeInputThreshold: cfg.Generator.LargeInputThreshold,
		Workers:             cfg.Generator.Workers,
	}
}

func rollbackOptions(cfg *config.Config) rollback.Options {
	return rollback.Options{
		LogPath:            cfg.Rollback.LogPath,
		BackupDir:          cfg.Rollback.BackupDir,
		BackupsEnabled:     cfg.Rollback.BackupsEnabled,
		MaxBackupSize:      int64(cfg.Rollback.MaxBackupSize),
		RetainTransactions: cfg.Rollback.RetainTransactions,
		BackupMaxAge:       cfg.Rollback.BackupMaxAge.Std(),
	}
}
