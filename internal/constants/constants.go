// Package constants provides centralized constant values used throughout rcli.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import (
	"os"
	"time"
)

// StdinSentinel is the input path that means "read standard input".
const StdinSentinel = "-"

// Key file names written by key generation.
const (
	// Blake3KeyFileName holds the shared BLAKE3 secret.
	Blake3KeyFileName = "blake3.txt"

	// Ed25519PrivateKeyFileName holds the 32-byte Ed25519 seed.
	Ed25519PrivateKeyFileName = "ed25519.sk"

	// Ed25519PublicKeyFileName holds the 32-byte Ed25519 public key.
	Ed25519PublicKeyFileName = "ed25519.pk"

	// KeyManifestSuffix is appended to the algorithm tag to name the
	// manifest describing a generated key set (e.g. "ed25519.yaml").
	KeyManifestSuffix = ".yaml"

	// KeyLockFileName is the lock file guarding concurrent writes to a key directory.
	KeyLockFileName = ".rcli-keys.lock"
)

// File permissions for persisted key material.
const (
	// SecretKeyFileMode is used for shared secrets and private seeds.
	SecretKeyFileMode os.FileMode = 0o600

	// PublicKeyFileMode is used for public keys and manifests.
	PublicKeyFileMode os.FileMode = 0o644

	// KeyDirMode is used when creating the key output directory.
	KeyDirMode os.FileMode = 0o700
)

// Directory names and paths used by rcli for organizing data.
const (
	// RcliHome is the hidden directory name where rcli stores its config and logs.
	// This directory is created in the user's home directory.
	RcliHome = ".rcli"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// EnvPrefix is the prefix for environment variable overrides (RCLI_*).
	EnvPrefix = "RCLI"

	// HomeEnvVar overrides the rcli home directory.
	HomeEnvVar = "RCLI_HOME"
)

// Signing defaults.
const (
	// DefaultAlgorithm is the algorithm tag used when none is configured.
	DefaultAlgorithm = "blake3"

	// DefaultBatchConcurrency bounds how many inputs are signed at once.
	DefaultBatchConcurrency = 4

	// MaxBatchConcurrency is the largest accepted batch concurrency.
	MaxBatchConcurrency = 64

	// DefaultKeyLockTimeout is how long key generation waits for the directory lock.
	DefaultKeyLockTimeout = 5 * time.Second

	// KeyLockRetryInterval is the pause between lock attempts.
	KeyLockRetryInterval = 50 * time.Millisecond
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days of rotated files.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)
