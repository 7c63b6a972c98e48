// Package config provides configuration management for rcli with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (RCLI_* prefix)
//  3. Project config (.rcli/config.yaml)
//  4. Global config (~/.rcli/config.yaml, or $RCLI_HOME/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants, internal/errors and
// internal/crypto, but MUST NOT import the command or storage packages.
package config

import (
	"os"
	"time"

	"github.com/mrz1836/rcli/internal/crypto"
)

// Config is the root configuration structure for rcli.
type Config struct {
	// Signing contains settings for sign and verify operations.
	Signing SigningConfig `yaml:"signing" mapstructure:"signing"`

	// Keys contains settings for where and how generated keys are written.
	Keys KeysConfig `yaml:"keys" mapstructure:"keys"`
}

// SigningConfig contains settings for signing and verification.
type SigningConfig struct {
	// Algorithm is used when a command is not given --format.
	// Default: blake3
	Algorithm crypto.Algorithm `yaml:"algorithm" mapstructure:"algorithm"`

	// MaxPayloadBytes caps how much of an input is read. Zero means no limit.
	MaxPayloadBytes int64 `yaml:"max_payload_bytes" mapstructure:"max_payload_bytes"`

	// BatchConcurrency bounds how many inputs are signed at once.
	// Default: 4
	BatchConcurrency int `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
}

// KeysConfig contains settings for persisted key material.
type KeysConfig struct {
	// Dir is where generate writes key files when --dir is not given.
	// Default: "."
	Dir string `yaml:"dir" mapstructure:"dir"`

	// PrivateFileMode is applied to shared secrets and private seeds.
	// Default: 0600
	PrivateFileMode os.FileMode `yaml:"private_file_mode" mapstructure:"private_file_mode"`

	// PublicFileMode is applied to public keys and manifests.
	// Default: 0644
	PublicFileMode os.FileMode `yaml:"public_file_mode" mapstructure:"public_file_mode"`

	// LockTimeout is how long generate waits for the key directory lock.
	// Default: 5s
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`
}
