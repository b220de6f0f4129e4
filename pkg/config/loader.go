package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	autofixerrors "github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for configuration environment variables
const EnvPrefix = "AUTOFIX_"

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// GetDefaultsContent returns the embedded defaults file
func GetDefaultsContent() string {
	return string(defaultConfig)
}

// Default returns the configuration built from the embedded defaults only
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, autofixerrors.Wrap(err, autofixerrors.ErrConfigLoad, "failed to load defaults")
	}
	return unmarshal(k)
}

// Load builds the effective configuration for a project root
func Load(projectRoot string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, autofixerrors.Wrap(err, autofixerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Project config file, first match wins
	if projectRoot != "" {
		for _, name := range paths.ConfigFileNames {
			path := filepath.Join(projectRoot, paths.StateDirName, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, autofixerrors.Wrapf(err, autofixerrors.ErrConfigLoad,
					"failed to load project config from %s", path).
					WithDetail(autofixerrors.DetailPath, path)
			}
			break
		}

		// 3. .env never overrides variables that are already set
		envFile := filepath.Join(projectRoot, ".env")
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, autofixerrors.Wrapf(err, autofixerrors.ErrConfigLoad,
					"failed to load %s", envFile).
					WithDetail(autofixerrors.DetailPath, envFile)
			}
		}
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, autofixerrors.Wrap(err, autofixerrors.ErrConfigLoad, "failed to load env vars")
	}

	return unmarshal(k)
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, autofixerrors.Wrap(err, autofixerrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the generator or rollback manager cannot honor
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return autofixerrors.Newf(autofixerrors.ErrConfigValid, "invalid value for %s: %v", field, value).
			WithDetail("field", field)
	}

	switch {
	case c.Generator.MaxFileSize <= 0:
		return invalid("generator.max_file_size", c.Generator.MaxFileSize)
	case c.Generator.MaxLines <= 0:
		return invalid("generator.max_lines", c.Generator.MaxLines)
	case c.Generator.ContextLines < 0:
		return invalid("generator.context_lines", c.Generator.ContextLines)
	case c.Generator.LargeInputThreshold <= 0:
		return invalid("generator.large_input_threshold", c.Generator.LargeInputThreshold)
	case c.Generator.Workers <= 0:
		return invalid("generator.workers", c.Generator.Workers)
	case c.Rollback.MaxBackupSize <= 0:
		return invalid("rollback.max_backup_size", c.Rollback.MaxBackupSize)
	case c.Rollback.RetainTransactions < 0:
		return invalid("rollback.retain_transactions", c.Rollback.RetainTransactions)
	case c.Rollback.BackupMaxAge < 0:
		return invalid("rollback.backup_max_age", c.Rollback.BackupMaxAge.Std())
	case c.Validator.MaxPatchSize <= 0:
		return invalid("validator.max_patch_size", c.Validator.MaxPatchSize)
	}
	return nil
}
