package rollback

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/transaction-log.schema.json
var logSchemaJSON string

var (
	logSchema     *gojsonschema.Schema
	logSchemaErr  error
	logSchemaOnce sync.Once
)

func transactionLogSchema() (*gojsonschema.Schema, error) {
	logSchemaOnce.Do(func() {
		logSchema, logSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(logSchemaJSON))
	})
	return logSchema, logSchemaErr
}

// ensureLoaded hydrates the transaction list from disk once. A missing,
// unreadable-as-JSON, wrong-version or schema-invalid log counts as empty
// history; only a failing read is an error.
func (m *Manager) ensureLoaded() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return nil
	}

	logPath := m.layout.LogPath()
	data, err := m.fs.ReadFile(logPath)
	switch {
	case err == nil:
		m.hydrateLocked(data)
	case isNotExist(err):
		m.logger.Debug().Str("path", logPath).Msg("No transaction log yet")
	default:
		return errors.Wrap(err, errors.ErrIO, "failed to read transaction log").
			WithDetail(errors.DetailPath, logPath)
	}

	m.loaded = true
	return nil
}

func (m *Manager) hydrateLocked(data []byte) {
	logPath := m.layout.LogPath()
	warn := func(reason string, err error) {
		m.logger.Warn().Err(err).Str("path", logPath).Str("reason", reason).
			Msg("Ignoring transaction log, starting with empty history")
	}

	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		warn("unparsable", err)
		return
	}
	if header.Version != types.TransactionLogVersion {
		warn(fmt.Sprintf("version %d", header.Version), nil)
		return
	}

	schema, err := transactionLogSchema()
	if err != nil {
		warn("schema unavailable", err)
		return
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		warn("unvalidatable", err)
		return
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		warn("schema violation", fmt.Errorf("%s", strings.Join(issues, "; ")))
		return
	}

	var log types.TransactionLog
	if err := json.Unmarshal(data, &log); err != nil {
		warn("undecodable", err)
		return
	}

	for _, tx := range log.Transactions {
		if tx == nil {
			continue
		}
		if tx.Fixes == nil {
			tx.Fixes = []types.TransactionFix{}
		}
		if _, dup := m.byID[tx.ID]; dup {
			continue
		}
		m.transactions = append(m.transactions, tx)
		m.byID[tx.ID] = tx
	}

	m.logger.Debug().Int("transactions", len(m.transactions)).Msg("Transaction log loaded")
}

// persist writes the full transaction list. The snapshot is taken after the
// caller's turn in the save queue comes up, so a later save always carries
// every earlier mutation.
func (m *Manager) persist(ctx context.Context) error {
	if err := m.saves.acquire(ctx); err != nil {
		return errors.Wrap(err, errors.ErrIO, "transaction log save cancelled").
			WithDetail(errors.DetailPath, m.layout.LogPath())
	}
	defer m.saves.release()

	m.mu.Lock()
	data, err := m.encodeLocked()
	m.mu.Unlock()
	if err != nil {
		return err
	}

	return m.writeVerified(m.layout.LogPath(), data, 0644)
}

func (m *Manager) encodeLocked() ([]byte, error) {
	log := types.TransactionLog{
		Version:          types.TransactionLogVersion,
		LastUpdated:      m.opts.Now().UTC(),
		TransactionCount: len(m.transactions),
		Transactions:     m.transactions,
	}
	if log.Transactions == nil {
		log.Transactions = []*types.Transaction{}
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode transaction log")
	}
	return append(data, '\n'), nil
}

// writeVerified lands data at target through a sibling temp file. The temp
// file is read back and must match byte for byte before it is renamed over
// target; on any failure it is removed and target is left untouched.
func (m *Manager) writeVerified(target string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(target)
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create directory %s", dir).
			WithDetail(errors.DetailPath, target)
	}

	tmp := fmt.Sprintf("%s.tmp-%s", target, randomHex(8))
	fail := func(err error, msg string) error {
		if removeErr := m.fs.Remove(tmp); removeErr != nil && !isNotExist(removeErr) {
			m.logger.Warn().Err(removeErr).Str("path", tmp).Msg("Failed to remove temp file")
		}
		return errors.Wrap(err, errors.ErrIO, msg).WithDetail(errors.DetailPath, target)
	}

	if err := m.fs.WriteFile(tmp, data, perm); err != nil {
		return fail(err, "failed to write temp file")
	}

	written, err := m.fs.ReadFile(tmp)
	if err != nil {
		return fail(err, "failed to read back temp file")
	}
	if len(written) != len(data) {
		return fail(fmt.Errorf("wrote %d bytes, read back %d", len(data), len(written)), "size verification failed")
	}
	if !bytes.Equal(written, data) {
		return fail(fmt.Errorf("content differs from source"), "content verification failed")
	}

	if err := m.fs.Rename(tmp, target); err != nil {
		return fail(err, "failed to move temp file into place")
	}
	return nil
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
