package config

import (
	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
)

// DefaultConfig returns a new Config with default values.
// These are the base layer that config files, environment variables, and
// CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Signing: SigningConfig{
			Algorithm:        crypto.AlgorithmBlake3,
			MaxPayloadBytes:  0,
			BatchConcurrency: constants.DefaultBatchConcurrency,
		},
		Keys: KeysConfig{
			Dir:             ".",
			PrivateFileMode: constants.SecretKeyFileMode,
			PublicFileMode:  constants.PublicKeyFileMode,
			LockTimeout:     constants.DefaultKeyLockTimeout,
		},
	}
}
