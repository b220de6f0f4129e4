package rollback

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/paths"
)

const backupExt = ".bak"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// CreateBackup copies filePath into the backup directory and returns the
// backup's absolute path. It returns "" without error when backups are
// disabled or the file does not exist yet.
func (m *Manager) CreateBackup(ctx context.Context, filePath string) (string, error) {
	if !m.opts.BackupsEnabled {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, errors.ErrIO, "backup cancelled").WithDetail(errors.DetailPath, filePath)
	}

	root := m.layout.ProjectRoot()
	if filepath.IsAbs(filePath) && !paths.ContainsPath(root, filePath) {
		return "", errors.Newf(errors.ErrPermissionDenied, "%s is outside the project root", filePath).
			WithDetail(errors.DetailPath, filePath)
	}

	absPath, relPath, err := m.layout.Resolve(filePath)
	if err != nil {
		return "", asRollbackError(err)
	}

	info, err := m.fs.Stat(absPath)
	if err != nil {
		if isNotExist(err) {
			m.logger.Debug().Str("path", relPath).Msg("No file to back up")
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrIO, "failed to stat %s", relPath).
			WithDetail(errors.DetailPath, relPath)
	}
	if info.IsDir() {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is a directory", relPath).
			In(errors.DomainRollback).
			WithDetail(errors.DetailPath, relPath)
	}
	if info.Size() > m.opts.MaxBackupSize {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is %d bytes, backup limit is %d",
			relPath, info.Size(), m.opts.MaxBackupSize).
			In(errors.DomainRollback).
			WithDetail(errors.DetailPath, relPath).
			WithDetail(errors.DetailSize, info.Size()).
			WithDetail(errors.DetailLimit, m.opts.MaxBackupSize)
	}

	data, err := m.fs.ReadFile(absPath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", relPath).
			WithDetail(errors.DetailPath, relPath)
	}

	backupPath := filepath.Join(m.layout.BackupDir(), m.backupName(relPath))
	if err := m.writeVerified(backupPath, data, info.Mode().Perm()); err != nil {
		return "", err
	}

	m.logger.Debug().Str("path", relPath).Str("backup", backupPath).Int("bytes", len(data)).Msg("Backup created")
	return backupPath, nil
}

// backupName returns <basename>.<ISO8601 with '-' for ':'>.<4 random>.bak
func (m *Manager) backupName(relPath string) string {
	base := unsafeNameChars.ReplaceAllString(filepath.Base(relPath), "_")
	stamp := strings.ReplaceAll(m.opts.Now().UTC().Format("2006-01-02T15:04:05.000Z"), ":", "-")
	return base + "." + stamp + "." + randomHex(4) + backupExt
}

// restoreFix puts a backup back over its target, or removes a file the fix
// created when there is no backup. The backup is deleted once restored.
func (m *Manager) restoreFix(relTarget, relBackup string) error {
	root := m.layout.ProjectRoot()
	target := filepath.Join(root, relTarget)

	if relBackup == "" {
		if err := m.fs.Remove(target); err != nil && !isNotExist(err) {
			return errors.Wrapf(err, errors.ErrIO, "failed to remove created file %s", relTarget).
				WithDetail(errors.DetailPath, relTarget)
		}
		return nil
	}

	backup := filepath.Join(root, relBackup)
	info, err := m.fs.Stat(backup)
	if err != nil {
		if isNotExist(err) {
			return errors.Newf(errors.ErrBackupNotFound, "backup %s for %s is missing", relBackup, relTarget).
				WithDetail(errors.DetailPath, relTarget)
		}
		return errors.Wrapf(err, errors.ErrIO, "failed to stat backup %s", relBackup).
			WithDetail(errors.DetailPath, relTarget)
	}

	data, err := m.fs.ReadFile(backup)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to read backup %s", relBackup).
			WithDetail(errors.DetailPath, relTarget)
	}

	if err := m.writeVerified(target, data, info.Mode().Perm()); err != nil {
		return err
	}

	if err := m.fs.Remove(backup); err != nil && !isNotExist(err) {
		m.logger.Warn().Err(err).Str("backup", relBackup).Msg("Restored, but failed to delete backup")
	}
	return nil
}
