package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/vibecheck/autofix/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectRoot overrides project root discovery
	EnvProjectRoot = "AUTOFIX_ROOT"

	// EnvStateDir overrides the XDG state directory used for the log file
	EnvStateDir = "AUTOFIX_STATE_DIR"
)

// Default directories and files
const (
	// StateDirName is the per-project directory holding autofix state
	StateDirName = ".vibecheck"

	// DefaultLogPath is the transaction log, relative to the project root
	DefaultLogPath = StateDirName + "/autofix-log.json"

	// DefaultBackupDir is the backup directory, relative to the project root
	DefaultBackupDir = StateDirName + "/backups"

	// AppDirName is the directory name under XDG base directories
	AppDirName = "autofix"

	// LogFileName is the name of the diagnostic log file
	LogFileName = "autofix.log"
)

// ConfigFileNames are the project config files, in lookup order
var ConfigFileNames = []string{"autofix.toml", "autofix.yaml", "autofix.yml"}

// Paths resolves the autofix layout for one project root
type Paths struct {
	root      string
	logPath   string
	backupDir string
}

// New creates a Paths for projectRoot. Relative logPath and backupDir are
// resolved against the root; empty values fall back to the defaults.
func New(projectRoot, logPath, backupDir string) (*Paths, error) {
	if projectRoot == "" {
		root, err := FindProjectRoot()
		if err != nil {
			return nil, err
		}
		projectRoot = root
	}

	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for project root")
	}

	if logPath == "" {
		logPath = DefaultLogPath
	}
	if backupDir == "" {
		backupDir = DefaultBackupDir
	}

	resolvedLog, _, err := ResolveInRoot(absRoot, logPath)
	if err != nil {
		return nil, err
	}
	resolvedBackups, _, err := ResolveInRoot(absRoot, backupDir)
	if err != nil {
		return nil, err
	}

	return &Paths{
		root:      absRoot,
		logPath:   resolvedLog,
		backupDir: resolvedBackups,
	}, nil
}

// ProjectRoot returns the absolute project root
func (p *Paths) ProjectRoot() string { return p.root }

// LogPath returns the absolute transaction log path
func (p *Paths) LogPath() string { return p.logPath }

// BackupDir returns the absolute backup directory
func (p *Paths) BackupDir() string { return p.backupDir }

// StateDir returns the project's autofix state directory
func (p *Paths) StateDir() string { return filepath.Join(p.root, StateDirName) }

// Resolve maps a caller-supplied path into the project root
func (p *Paths) Resolve(path string) (abs, rel string, err error) {
	return ResolveInRoot(p.root, path)
}

// ConfigFiles returns candidate project config file paths, in lookup order
func (p *Paths) ConfigFiles() []string {
	files := make([]string, 0, len(ConfigFileNames))
	for _, name := range ConfigFileNames {
		files = append(files, filepath.Join(p.StateDir(), name))
	}
	return files
}

// LogFilePath returns the diagnostic log file location.
// It respects AUTOFIX_STATE_DIR, then the XDG state home.
func LogFilePath() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return filepath.Join(dir, LogFileName)
	}
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

// FindProjectRoot determines the project root using the following priority:
// 1. AUTOFIX_ROOT environment variable (if set)
// 2. Git repository root
// 3. Current working directory
func FindProjectRoot() (string, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return root, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to get current directory")
	}
	return cwd, nil
}

func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
