package rollback

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

// CleanupResult reports what Cleanup removed
type CleanupResult struct {
	TransactionsEvicted int      `json:"transactionsEvicted" yaml:"transactionsEvicted"`
	BackupsDeleted      int      `json:"backupsDeleted" yaml:"backupsDeleted"`
	Errors              []string `json:"errors" yaml:"errors"`
}

// Cleanup evicts the oldest finished transactions beyond the retention count
// and deletes backups older than the maximum age. Pending transactions and
// the backups they reference are never touched.
func (m *Manager) Cleanup(ctx context.Context) (*CleanupResult, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	result := &CleanupResult{Errors: []string{}}
	now := m.opts.Now()

	m.mu.Lock()
	result.TransactionsEvicted = m.evictLocked()
	inUse := make(map[string]bool)
	for _, tx := range m.transactions {
		if tx.Status != types.TransactionPending {
			continue
		}
		for _, fix := range tx.Fixes {
			if fix.BackupPath != "" {
				inUse[filepath.Join(m.layout.ProjectRoot(), fix.BackupPath)] = true
			}
		}
	}
	m.mu.Unlock()

	if m.opts.BackupMaxAge > 0 {
		cutoff := now.Add(-m.opts.BackupMaxAge)
		backupDir := m.layout.BackupDir()

		entries, err := m.fs.ReadDir(backupDir)
		if err != nil && !isNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrIO, "failed to list backups").
				WithDetail(errors.DetailPath, backupDir)
		}

		for _, entry := range entries {
			if entry.IsDir() || !isBackupArtifact(entry.Name()) {
				continue
			}
			path := filepath.Join(backupDir, entry.Name())
			if inUse[path] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
				continue
			}
			if !info.ModTime().Before(cutoff) {
				continue
			}
			if err := m.fs.Remove(path); err != nil && !isNotExist(err) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
				continue
			}
			result.BackupsDeleted++
		}
	}

	if err := m.persist(ctx); err != nil {
		return result, err
	}

	m.logger.Debug().
		Int("evicted", result.TransactionsEvicted).
		Int("backupsDeleted", result.BackupsDeleted).
		Int("errors", len(result.Errors)).
		Msg("Cleanup finished")
	return result, nil
}

// evictLocked drops the oldest finished transactions until at most
// RetainTransactions remain. Callers hold m.mu.
func (m *Manager) evictLocked() int {
	retain := m.opts.RetainTransactions
	if retain <= 0 || len(m.transactions) <= retain {
		return 0
	}

	byAge := make([]*types.Transaction, len(m.transactions))
	copy(byAge, m.transactions)
	sort.SliceStable(byAge, func(i, j int) bool {
		return byAge[i].Timestamp.Before(byAge[j].Timestamp)
	})

	excess := len(m.transactions) - retain
	evict := make(map[string]bool, excess)
	for _, tx := range byAge {
		if len(evict) == excess {
			break
		}
		if tx.Status == types.TransactionPending || m.rollingBack[tx.ID] {
			continue
		}
		evict[tx.ID] = true
	}

	kept := m.transactions[:0]
	for _, tx := range m.transactions {
		if evict[tx.ID] {
			delete(m.byID, tx.ID)
			continue
		}
		kept = append(kept, tx)
	}
	m.transactions = kept
	return len(evict)
}

// isBackupArtifact matches backups and temp files left behind by a crash
func isBackupArtifact(name string) bool {
	return strings.HasSuffix(name, backupExt) || strings.Contains(name, backupExt+".tmp-")
}
