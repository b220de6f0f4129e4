package rollback

import (
	"context"
	"fmt"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/logging"
	"github.com/vibecheck/autofix/pkg/types"
)

// Rollback reverts every fix of a pending transaction, latest first. A fix
// that fails is marked failed and the loop moves on; the transaction ends
// rolled_back when all fixes were reverted and partial otherwise.
func (m *Manager) Rollback(ctx context.Context, id string) (*types.RollbackResult, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	tx, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return nil, notFound(id)
	}
	switch tx.Status {
	case types.TransactionCommitted:
		m.mu.Unlock()
		return nil, errors.Newf(errors.ErrInvalidInput, "transaction %s is committed and cannot be rolled back", id).
			In(errors.DomainRollback).
			WithDetail(errors.DetailTransactionID, id)
	case types.TransactionRolledBack, types.TransactionPartial:
		m.mu.Unlock()
		return nil, errors.Newf(errors.ErrAlreadyRolledBack, "transaction %s was already rolled back (%s)", id, tx.Status).
			WithDetail(errors.DetailTransactionID, id)
	}
	if m.rollingBack[id] {
		m.mu.Unlock()
		return nil, errors.Newf(errors.ErrAlreadyRolledBack, "transaction %s is already being rolled back", id).
			WithDetail(errors.DetailTransactionID, id)
	}
	m.rollingBack[id] = true
	fixes := make([]types.TransactionFix, len(tx.Fixes))
	copy(fixes, tx.Fixes)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.rollingBack, id)
		m.mu.Unlock()
	}()

	logger := m.logger.With().Str("transactionId", id).Logger()
	done := logging.LogOperationStart(logger, "rollback")
	defer done()

	result := &types.RollbackResult{Errors: []string{}}
	for i := len(fixes) - 1; i >= 0; i-- {
		fix := &fixes[i]
		if fix.Status != types.FixApplied {
			continue
		}

		if err := m.restoreFix(fix.FilePath, fix.BackupPath); err != nil {
			fix.Status = types.FixFailed
			fix.Error = err.Error()
			result.FixesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", fix.FilePath, err.Error()))
			logger.Warn().Err(err).Str("path", fix.FilePath).Msg("Failed to roll back fix")
			continue
		}

		at := m.opts.Now()
		fix.Status = types.FixRolledBack
		fix.RolledBackAt = &at
		result.FixesRolledBack++
		logger.Debug().Str("path", fix.FilePath).Msg("Fix rolled back")
	}
	result.Success = result.FixesFailed == 0

	status := types.TransactionPartial
	if result.Success {
		status = types.TransactionRolledBack
	}

	m.mu.Lock()
	tx.Fixes = fixes
	tx.Status = status
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		return result, err
	}

	logger.Info().
		Str("status", string(status)).
		Int("rolledBack", result.FixesRolledBack).
		Int("failed", result.FixesFailed).
		Msg("Transaction rolled back")
	return result, nil
}
