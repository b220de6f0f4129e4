package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config is the effective autofix configuration
type Config struct {
	Generator GeneratorConfig `koanf:"generator" toml:"generator" yaml:"generator"`
	Rollback  RollbackConfig  `koanf:"rollback" toml:"rollback" yaml:"rollback"`
	Validator ValidatorConfig `koanf:"validator" toml:"validator" yaml:"validator"`
	Logging   LoggingConfig   `koanf:"logging" toml:"logging" yaml:"logging"`
}

// GeneratorConfig holds patch generation ceilings and heuristics
type GeneratorConfig struct {
	MaxFileSize         ByteSize `koanf:"max_file_size" toml:"max_file_size" yaml:"max_file_size"`
	MaxLines            int      `koanf:"max_lines" toml:"max_lines" yaml:"max_lines"`
	ContextLines        int      `koanf:"context_lines" toml:"context_lines" yaml:"context_lines"`
	LargeInputThreshold int      `koanf:"large_input_threshold" toml:"large_input_threshold" yaml:"large_input_threshold"`
	Workers             int      `koanf:"workers" toml:"workers" yaml:"workers"`
}

// RollbackConfig holds transaction log and backup settings
type RollbackConfig struct {
	LogPath            string   `koanf:"log_path" toml:"log_path" yaml:"log_path"`
	BackupDir          string   `koanf:"backup_dir" toml:"backup_dir" yaml:"backup_dir"`
	BackupsEnabled     bool     `koanf:"backups_enabled" toml:"backups_enabled" yaml:"backups_enabled"`
	MaxBackupSize      ByteSize `koanf:"max_backup_size" toml:"max_backup_size" yaml:"max_backup_size"`
	RetainTransactions int      `koanf:"retain_transactions" toml:"retain_transactions" yaml:"retain_transactions"`
	BackupMaxAge       Duration `koanf:"backup_max_age" toml:"backup_max_age" yaml:"backup_max_age"`
}

// ValidatorConfig holds patch safety rules
type ValidatorConfig struct {
	ProtectedPaths []string `koanf:"protected_paths" toml:"protected_paths" yaml:"protected_paths"`
	MaxPatchSize   ByteSize `koanf:"max_patch_size" toml:"max_patch_size" yaml:"max_patch_size"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Verbosity int    `koanf:"verbosity" toml:"verbosity" yaml:"verbosity"`
	File      string `koanf:"file" toml:"file,omitempty" yaml:"file,omitempty"`
}

// ByteSize is a size in bytes that decodes from "10MB", "512KB" or a plain
// integer. Units are binary multiples.
type ByteSize int64

var byteUnits = []struct {
	suffix string
	factor int64
}{
	{"GIB", 1 << 30}, {"MIB", 1 << 20}, {"KIB", 1 << 10},
	{"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

// ParseByteSize parses a human-readable size
func ParseByteSize(s string) (ByteSize, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, fmt.Errorf("empty size")
	}
	factor := int64(1)
	for _, unit := range byteUnits {
		if strings.HasSuffix(trimmed, unit.suffix) {
			factor = unit.factor
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, unit.suffix))
			break
		}
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	return ByteSize(n * factor), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *ByteSize) UnmarshalText(text []byte) error {
	parsed, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b ByteSize) String() string {
	switch {
	case b >= 1<<30 && b%(1<<30) == 0:
		return fmt.Sprintf("%dGB", b>>30)
	case b >= 1<<20 && b%(1<<20) == 0:
		return fmt.Sprintf("%dMB", b>>20)
	case b >= 1<<10 && b%(1<<10) == 0:
		return fmt.Sprintf("%dKB", b>>10)
	default:
		return fmt.Sprintf("%dB", int64(b))
	}
}

// Duration wraps time.Duration so it round-trips through config files as "168h"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the standard library duration
func (d Duration) Std() time.Duration { return time.Duration(d) }
