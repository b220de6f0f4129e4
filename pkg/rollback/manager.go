package rollback

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/filesystem"
	"github.com/vibecheck/autofix/pkg/logging"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/types"
)

// Options configures a Manager
type Options struct {
	// LogPath is the transaction log, relative to the project root
	LogPath string
	// BackupDir holds backup copies, relative to the project root
	BackupDir string
	// BackupsEnabled turns CreateBackup into a no-op when false
	BackupsEnabled bool
	// MaxBackupSize is the largest file CreateBackup copies, in bytes
	MaxBackupSize int64
	// RetainTransactions is how many transactions Cleanup keeps; 0 keeps all
	RetainTransactions int
	// BackupMaxAge is the age after which Cleanup deletes backups; 0 keeps all
	BackupMaxAge time.Duration
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

// DefaultOptions returns the stock rollback settings
func DefaultOptions() Options {
	return Options{
		LogPath:            paths.DefaultLogPath,
		BackupDir:          paths.DefaultBackupDir,
		BackupsEnabled:     true,
		MaxBackupSize:      50 << 20,
		RetainTransactions: 50,
		BackupMaxAge:       7 * 24 * time.Hour,
	}
}

// Manager owns the transactions and backups of one project root
type Manager struct {
	layout *paths.Paths
	opts   Options
	fs     types.FS
	logger zerolog.Logger

	mu           sync.Mutex
	loaded       bool
	transactions []*types.Transaction
	byID         map[string]*types.Transaction
	rollingBack  map[string]bool

	saves      *saveQueue
	background sync.WaitGroup
}

// New creates a Manager for projectRoot. An empty root is discovered the
// same way the CLI does it; a nil fsys means the OS filesystem.
func New(projectRoot string, opts Options, fsys types.FS) (*Manager, error) {
	if opts.MaxBackupSize <= 0 {
		opts.MaxBackupSize = DefaultOptions().MaxBackupSize
	}
	if opts.RetainTransactions < 0 {
		opts.RetainTransactions = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	layout, err := paths.New(projectRoot, opts.LogPath, opts.BackupDir)
	if err != nil {
		return nil, err
	}

	return &Manager{
		layout:      layout,
		opts:        opts,
		fs:          fsys,
		logger:      logging.GetLogger("rollback").With().Str("root", layout.ProjectRoot()).Logger(),
		byID:        make(map[string]*types.Transaction),
		rollingBack: make(map[string]bool),
		saves:       newSaveQueue(),
	}, nil
}

// ProjectRoot returns the absolute project root
func (m *Manager) ProjectRoot() string {
	return m.layout.ProjectRoot()
}

// LogPath returns the absolute transaction log path
func (m *Manager) LogPath() string {
	return m.layout.LogPath()
}

// BackupDir returns the absolute backup directory
func (m *Manager) BackupDir() string {
	return m.layout.BackupDir()
}

// Wait blocks until background cleanups scheduled by CommitTransaction finish
func (m *Manager) Wait() {
	m.background.Wait()
}

// StartTransaction creates and persists a pending transaction
func (m *Manager) StartTransaction(ctx context.Context, summary string) (string, error) {
	if err := m.ensureLoaded(); err != nil {
		return "", err
	}

	now := m.opts.Now()
	tx := &types.Transaction{
		ID:        newTransactionID(now),
		Timestamp: now,
		Status:    types.TransactionPending,
		Fixes:     []types.TransactionFix{},
		Summary:   summary,
	}

	m.mu.Lock()
	m.transactions = append(m.transactions, tx)
	m.byID[tx.ID] = tx
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		return "", err
	}

	m.logger.Info().Str("transactionId", tx.ID).Str("summary", summary).Msg("Transaction started")
	return tx.ID, nil
}

// RecordFix appends an applied fix to a pending transaction. A non-empty
// backupPath must name an existing backup; an empty one records a file the
// fix created.
func (m *Manager) RecordFix(ctx context.Context, id string, p *types.Patch, backupPath string) error {
	if err := m.ensureLoaded(); err != nil {
		return err
	}

	if p == nil {
		return errors.New(errors.ErrInvalidInput, "patch is nil").
			In(errors.DomainRollback).
			WithDetail(errors.DetailTransactionID, id)
	}
	if p.FilePath == "" {
		return errors.New(errors.ErrInvalidInput, "patch has no file path").
			In(errors.DomainRollback).
			WithDetail(errors.DetailTransactionID, id)
	}

	_, relTarget, err := m.layout.Resolve(p.FilePath)
	if err != nil {
		return asRollbackError(err).WithDetail(errors.DetailTransactionID, id)
	}

	var relBackup string
	if backupPath != "" {
		absBackup, rel, err := m.layout.Resolve(backupPath)
		if err != nil {
			return asRollbackError(err).WithDetail(errors.DetailTransactionID, id)
		}
		if _, err := m.fs.Stat(absBackup); err != nil {
			return errors.Wrapf(err, errors.ErrBackupNotFound, "backup %s does not exist", backupPath).
				WithDetail(errors.DetailPath, backupPath).
				WithDetail(errors.DetailTransactionID, id)
		}
		relBackup = rel
	}

	m.mu.Lock()
	tx, err := m.pendingLocked(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	tx.Fixes = append(tx.Fixes, types.TransactionFix{
		IssueID:    p.IssueID,
		FilePath:   relTarget,
		BackupPath: relBackup,
		Status:     types.FixApplied,
		AppliedAt:  m.opts.Now(),
	})
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		return err
	}

	m.logger.Debug().
		Str("transactionId", id).
		Str("path", relTarget).
		Bool("backup", relBackup != "").
		Msg("Fix recorded")
	return nil
}

// CommitTransaction marks a pending transaction committed and schedules a
// best-effort Cleanup in the background
func (m *Manager) CommitTransaction(ctx context.Context, id, commitHash string) error {
	if err := m.ensureLoaded(); err != nil {
		return err
	}

	m.mu.Lock()
	tx, err := m.pendingLocked(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	tx.Status = types.TransactionCommitted
	tx.CommitHash = commitHash
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		return err
	}

	m.logger.Info().Str("transactionId", id).Str("commitHash", commitHash).Msg("Transaction committed")

	m.background.Add(1)
	go func() {
		defer m.background.Done()
		if _, err := m.Cleanup(context.Background()); err != nil {
			m.logger.Warn().Err(err).Msg("Background cleanup failed")
		}
	}()
	return nil
}

// DiscardTransaction drops a pending transaction that has no fixes yet, so
// work abandoned before its first fix leaves nothing in the log. A
// transaction with recorded fixes must be rolled back instead.
func (m *Manager) DiscardTransaction(ctx context.Context, id string) error {
	if err := m.ensureLoaded(); err != nil {
		return err
	}

	m.mu.Lock()
	tx, err := m.pendingLocked(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if len(tx.Fixes) > 0 {
		m.mu.Unlock()
		return errors.Newf(errors.ErrInvalidInput, "transaction %s has %d fix(es), roll it back instead", id, len(tx.Fixes)).
			In(errors.DomainRollback).
			WithDetail(errors.DetailTransactionID, id)
	}
	for i, candidate := range m.transactions {
		if candidate == tx {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			break
		}
	}
	delete(m.byID, id)
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		return err
	}

	m.logger.Info().Str("transactionId", id).Msg("Transaction discarded")
	return nil
}

// GetTransaction returns a copy of one transaction
func (m *Manager) GetTransaction(ctx context.Context, id string) (*types.Transaction, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	return tx.Clone(), nil
}

// ListTransactions returns copies of every transaction, newest first
func (m *Manager) ListTransactions(ctx context.Context) ([]*types.Transaction, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	list := make([]*types.Transaction, 0, len(m.transactions))
	for i := len(m.transactions) - 1; i >= 0; i-- {
		list = append(list, m.transactions[i].Clone())
	}
	m.mu.Unlock()

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}

// pendingLocked looks up a transaction that still accepts changes.
// Callers hold m.mu.
func (m *Manager) pendingLocked(id string) (*types.Transaction, error) {
	tx, ok := m.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	if tx.Status != types.TransactionPending {
		return nil, errors.Newf(errors.ErrInvalidInput, "transaction %s is %s, not pending", id, tx.Status).
			In(errors.DomainRollback).
			WithDetail(errors.DetailTransactionID, id)
	}
	if m.rollingBack[id] {
		return nil, errors.Newf(errors.ErrInvalidInput, "transaction %s is being rolled back", id).
			In(errors.DomainRollback).
			WithDetail(errors.DetailTransactionID, id)
	}
	return tx, nil
}

func notFound(id string) error {
	return errors.Newf(errors.ErrTransactionNotFound, "transaction %s not found", id).
		WithDetail(errors.DetailTransactionID, id)
}

// asRollbackError pins path errors from pkg/paths to the rollback domain
func asRollbackError(err error) *errors.AutofixError {
	var coded *errors.AutofixError
	if stderrors.As(err, &coded) {
		return coded.In(errors.DomainRollback)
	}
	return errors.Wrap(err, errors.ErrInvalidInput, "invalid path").In(errors.DomainRollback)
}

// newTransactionID returns tx_<unixMillis>_<8 hex>
func newTransactionID(now time.Time) string {
	return fmt.Sprintf("tx_%d_%s", now.UnixMilli(), randomHex(8))
}

func randomHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
