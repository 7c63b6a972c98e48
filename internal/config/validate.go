package config

import (
	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - signing.algorithm must be a supported algorithm
//   - signing.max_payload_bytes must not be negative
//   - signing.batch_concurrency must be between 1 and 64
//   - keys.dir must not be empty
//   - keys.private_file_mode must not grant group or other access
//   - keys.lock_timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateSigningConfig(&cfg.Signing); err != nil {
		return err
	}

	return validateKeysConfig(&cfg.Keys)
}

func validateSigningConfig(cfg *SigningConfig) error {
	if !cfg.Algorithm.Valid() {
		return errors.Wrapf(errors.ErrConfigInvalidSigning,
			"signing.algorithm %q is not supported", cfg.Algorithm)
	}

	if cfg.MaxPayloadBytes < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidSigning,
			"signing.max_payload_bytes must not be negative, got %d", cfg.MaxPayloadBytes)
	}

	if cfg.BatchConcurrency < 1 || cfg.BatchConcurrency > constants.MaxBatchConcurrency {
		return errors.Wrapf(errors.ErrConfigInvalidSigning,
			"signing.batch_concurrency must be between 1 and %d, got %d",
			constants.MaxBatchConcurrency, cfg.BatchConcurrency)
	}

	return nil
}

func validateKeysConfig(cfg *KeysConfig) error {
	if cfg.Dir == "" {
		return errors.Wrap(errors.ErrConfigInvalidKeys, "keys.dir must not be empty")
	}

	if cfg.PrivateFileMode.Perm()&0o077 != 0 {
		return errors.Wrapf(errors.ErrConfigInvalidKeys,
			"keys.private_file_mode must not grant group or other access, got %#o", cfg.PrivateFileMode.Perm())
	}

	if cfg.PrivateFileMode.Perm()&0o400 == 0 || cfg.PublicFileMode.Perm()&0o400 == 0 {
		return errors.Wrap(errors.ErrConfigInvalidKeys, "key file modes must be owner-readable")
	}

	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidKeys,
			"keys.lock_timeout must be positive, got %s", cfg.LockTimeout)
	}

	return nil
}
