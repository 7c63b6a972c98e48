package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/errors"
)

// newViperInstance creates a new Viper instance with the RCLI_ environment
// prefix, key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (RCLI_* prefix)
//  2. Project config (.rcli/config.yaml)
//  3. Global config (~/.rcli/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead. Missing config
// files are not an error.
func Load(ctx context.Context) (*Config, error) {
	return LoadWithOverrides(ctx, nil)
}

// loadGlobalConfig attempts to load the global config file.
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file (.rcli/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration with CLI flag overrides as the
// highest-precedence layer. Only non-zero values in overrides are applied.
// Overrides are set before decoding, so a flag replaces a lower-layer value
// that would not decode on its own.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(v, overrides)
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("signing.algorithm", cfg.Signing.Algorithm.String()).
		Int64("signing.max_payload_bytes", cfg.Signing.MaxPayloadBytes).
		Int("signing.batch_concurrency", cfg.Signing.BatchConcurrency).
		Str("keys.dir", cfg.Keys.Dir).
		Dur("keys.lock_timeout", cfg.Keys.LockTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// projectConfigPath has higher priority than globalConfigPath; either may be
// empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	v.SetDefault("signing.algorithm", constants.DefaultAlgorithm)
	v.SetDefault("signing.max_payload_bytes", 0)
	v.SetDefault("signing.batch_concurrency", constants.DefaultBatchConcurrency)

	v.SetDefault("keys.dir", ".")
	v.SetDefault("keys.private_file_mode", "0600")
	v.SetDefault("keys.public_file_mode", "0644")
	v.SetDefault("keys.lock_timeout", constants.DefaultKeyLockTimeout.String())
}

// applyOverrides sets non-zero override values on v, above env and files.
// Keys must match the mapstructure tag names exactly.
func applyOverrides(v *viper.Viper, overrides *Config) {
	if overrides.Signing.Algorithm.Valid() {
		v.Set("signing.algorithm", overrides.Signing.Algorithm.String())
	}
	if overrides.Signing.MaxPayloadBytes != 0 {
		v.Set("signing.max_payload_bytes", overrides.Signing.MaxPayloadBytes)
	}
	if overrides.Signing.BatchConcurrency != 0 {
		v.Set("signing.batch_concurrency", overrides.Signing.BatchConcurrency)
	}

	if overrides.Keys.Dir != "" {
		v.Set("keys.dir", overrides.Keys.Dir)
	}
	if overrides.Keys.PrivateFileMode != 0 {
		v.Set("keys.private_file_mode", fmt.Sprintf("%#o", overrides.Keys.PrivateFileMode.Perm()))
	}
	if overrides.Keys.PublicFileMode != 0 {
		v.Set("keys.public_file_mode", fmt.Sprintf("%#o", overrides.Keys.PublicFileMode.Perm()))
	}
	if overrides.Keys.LockTimeout != 0 {
		v.Set("keys.lock_timeout", overrides.Keys.LockTimeout.String())
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations, algorithm tags and octal file modes arrive as strings from
// YAML and environment variables.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToFileModeHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	)
}

// stringToFileModeHookFunc parses octal strings such as "0600" or "0o600"
// into os.FileMode. Integer values decode without the hook.
func stringToFileModeHookFunc() mapstructure.DecodeHookFuncType {
	fileModeType := reflect.TypeFor[os.FileMode]()
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != fileModeType {
			return data, nil
		}

		raw := strings.TrimSpace(reflect.ValueOf(data).String())
		digits := strings.TrimPrefix(strings.TrimPrefix(raw, "0o"), "0O")
		mode, err := strconv.ParseUint(digits, 8, 32)
		if err != nil || mode > 0o777 {
			return nil, errors.Wrapf(errors.ErrConfigInvalidKeys, "invalid file mode %q", raw)
		}
		return os.FileMode(mode), nil
	}
}
