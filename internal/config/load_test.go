package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
	"github.com/mrz1836/rcli/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// isolate points the global config at an empty directory and moves into a
// fresh working directory so no real config leaks into the test.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	for _, key := range []string{
		"RCLI_SIGNING_ALGORITHM",
		"RCLI_SIGNING_MAX_PAYLOAD_BYTES",
		"RCLI_SIGNING_BATCH_CONCURRENCY",
		"RCLI_KEYS_DIR",
		"RCLI_KEYS_PRIVATE_FILE_MODE",
		"RCLI_KEYS_PUBLIC_FILE_MODE",
		"RCLI_KEYS_LOCK_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Chdir(project)
	return home, project
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	home, project := isolate(t)

	writeConfig(t, home, `
signing:
  algorithm: ed25519
  batch_concurrency: 8
keys:
  dir: /global/keys
`)
	writeConfig(t, filepath.Join(project, ".rcli"), `
signing:
  batch_concurrency: 2
keys:
  lock_timeout: 750ms
`)
	t.Setenv("RCLI_KEYS_DIR", "/env/keys")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, crypto.AlgorithmEd25519, cfg.Signing.Algorithm, "global")
	assert.Equal(t, 2, cfg.Signing.BatchConcurrency, "project over global")
	assert.Equal(t, "/env/keys", cfg.Keys.Dir, "env over files")
	assert.Equal(t, 750*time.Millisecond, cfg.Keys.LockTimeout)
}

func TestLoad_EnvAlgorithm(t *testing.T) {
	isolate(t)
	t.Setenv("RCLI_SIGNING_ALGORITHM", "ED25519")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, crypto.AlgorithmEd25519, cfg.Signing.Algorithm)
}

func TestLoad_UnsupportedAlgorithm(t *testing.T) {
	isolate(t)
	t.Setenv("RCLI_SIGNING_ALGORITHM", "rsa")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rsa")
}

func TestLoad_FileModeFormats(t *testing.T) {
	home, _ := isolate(t)
	writeConfig(t, home, `
keys:
  private_file_mode: "0o400"
  public_file_mode: "0640"
`)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o400), cfg.Keys.PrivateFileMode)
	assert.Equal(t, os.FileMode(0o640), cfg.Keys.PublicFileMode)
}

func TestLoad_InvalidFileMode(t *testing.T) {
	isolate(t)
	t.Setenv("RCLI_KEYS_PUBLIC_FILE_MODE", "rw-r--r--")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file mode")
}

func TestLoad_InvalidValues(t *testing.T) {
	home, _ := isolate(t)
	writeConfig(t, home, `
signing:
  batch_concurrency: 500
`)

	_, err := Load(context.Background())
	require.ErrorIs(t, err, errors.ErrConfigInvalidSigning)
}

func TestLoad_MalformedYAML(t *testing.T) {
	home, _ := isolate(t)
	writeConfig(t, home, "signing: [unclosed")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read global config file")
}

func TestLoadWithOverrides(t *testing.T) {
	isolate(t)

	overrides := &Config{
		Signing: SigningConfig{Algorithm: crypto.AlgorithmEd25519, MaxPayloadBytes: 1024},
		Keys:    KeysConfig{Dir: "out"},
	}
	cfg, err := LoadWithOverrides(context.Background(), overrides)
	require.NoError(t, err)

	assert.Equal(t, crypto.AlgorithmEd25519, cfg.Signing.Algorithm)
	assert.Equal(t, int64(1024), cfg.Signing.MaxPayloadBytes)
	assert.Equal(t, "out", cfg.Keys.Dir)
	assert.Equal(t, constants.DefaultBatchConcurrency, cfg.Signing.BatchConcurrency, "zero override ignored")
}

func TestLoadWithOverrides_Invalid(t *testing.T) {
	isolate(t)

	_, err := LoadWithOverrides(context.Background(), &Config{Signing: SigningConfig{BatchConcurrency: 99}})
	require.ErrorIs(t, err, errors.ErrConfigInvalidSigning)
}

func TestLoadWithOverrides_FlagBeatsUndecodableLowerLayers(t *testing.T) {
	_, project := isolate(t)
	t.Setenv("RCLI_SIGNING_ALGORITHM", "rsa")
	writeConfig(t, filepath.Join(project, constants.ProjectConfigDir), `
keys:
  lock_timeout: soon
`)

	_, err := Load(context.Background())
	require.Error(t, err)

	cfg, err := LoadWithOverrides(context.Background(), &Config{
		Signing: SigningConfig{Algorithm: crypto.AlgorithmEd25519},
		Keys:    KeysConfig{LockTimeout: 2 * time.Second},
	})
	require.NoError(t, err)
	assert.Equal(t, crypto.AlgorithmEd25519, cfg.Signing.Algorithm)
	assert.Equal(t, 2*time.Second, cfg.Keys.LockTimeout)
}

func TestLoadWithOverrides_FileModes(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOverrides(context.Background(), &Config{
		Keys: KeysConfig{PrivateFileMode: 0o400, PublicFileMode: 0o640},
	})
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o400), cfg.Keys.PrivateFileMode)
	assert.Equal(t, os.FileMode(0o640), cfg.Keys.PublicFileMode)
}

func TestLoadFromPaths(t *testing.T) {
	t.Setenv("RCLI_SIGNING_ALGORITHM", "")
	require.NoError(t, os.Unsetenv("RCLI_SIGNING_ALGORITHM"))

	global := writeConfig(t, t.TempDir(), "signing:\n  algorithm: ed25519\n  max_payload_bytes: 10\n")
	project := writeConfig(t, t.TempDir(), "signing:\n  max_payload_bytes: 20\n")

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)
	assert.Equal(t, crypto.AlgorithmEd25519, cfg.Signing.Algorithm)
	assert.Equal(t, int64(20), cfg.Signing.MaxPayloadBytes)

	cfg, err = LoadFromPaths(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, crypto.AlgorithmBlake3, cfg.Signing.Algorithm)
}
