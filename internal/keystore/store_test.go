package keystore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rcli/internal/clock"
	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/flock"
	"github.com/mrz1836/rcli/internal/textsign"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir(), Options{
		LockTimeout: 200 * time.Millisecond,
		Clock:       clock.Fixed(fixedNow),
	})
}

func generate(t *testing.T, alg crypto.Algorithm) []crypto.KeyFile {
	t.Helper()
	files, err := textsign.NewGenerator(nil).Generate(alg)
	require.NoError(t, err)
	return files
}

func TestFileStore_SaveEd25519(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	files := generate(t, crypto.AlgorithmEd25519)

	m, err := s.Save(context.Background(), crypto.AlgorithmEd25519, files, false)
	require.NoError(t, err)

	sk, err := os.ReadFile(filepath.Join(s.Dir(), constants.Ed25519PrivateKeyFileName))
	require.NoError(t, err)
	assert.Equal(t, files[0].Data, sk)

	pk, err := os.ReadFile(filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName))
	require.NoError(t, err)
	assert.Equal(t, files[1].Data, pk)

	assert.Equal(t, crypto.AlgorithmEd25519, m.Algorithm)
	assert.Equal(t, textsign.Fingerprint(files[1].Data), m.Fingerprint)
	assert.Equal(t, fixedNow, m.CreatedAt)
	require.Len(t, m.Files, 2)
	assert.Equal(t, "0600", m.Files[0].Mode)
	assert.Equal(t, "0644", m.Files[1].Mode)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(s.Dir(), constants.Ed25519PrivateKeyFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		info, err = os.Stat(filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	}
}

func TestFileStore_ManifestRoundTrip(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	files := generate(t, crypto.AlgorithmBlake3)

	saved, err := s.Save(context.Background(), crypto.AlgorithmBlake3, files, false)
	require.NoError(t, err)

	loaded, err := s.LoadManifest(crypto.AlgorithmBlake3)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.Equal(t, crypto.RoleSecret, loaded.Files[0].Role)

	_, err = s.LoadManifest(crypto.AlgorithmEd25519)
	require.Error(t, err)
}

func TestFileStore_RefusesOverwrite(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	first := generate(t, crypto.AlgorithmBlake3)
	_, err := s.Save(context.Background(), crypto.AlgorithmBlake3, first, false)
	require.NoError(t, err)

	second := generate(t, crypto.AlgorithmBlake3)
	_, err = s.Save(context.Background(), crypto.AlgorithmBlake3, second, false)
	require.ErrorIs(t, err, errors.ErrKeyFileExists)

	data, err := os.ReadFile(filepath.Join(s.Dir(), constants.Blake3KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, first[0].Data, data)

	_, err = s.Save(context.Background(), crypto.AlgorithmBlake3, second, true)
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(s.Dir(), constants.Blake3KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, second[0].Data, data)
}

func TestFileStore_Existing(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	files := generate(t, crypto.AlgorithmEd25519)

	found, err := s.Existing(files, crypto.AlgorithmEd25519)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName), []byte("x"), 0o600))
	found, err = s.Existing(files, crypto.AlgorithmEd25519)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName)}, found)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "keys")
	s := NewFileStore(dir, Options{})

	_, err := s.Save(context.Background(), crypto.AlgorithmBlake3, generate(t, crypto.AlgorithmBlake3), false)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, constants.Blake3KeyFileName))
	assert.NoFileExists(t, filepath.Join(dir, constants.Blake3KeyFileName+".tmp"))
}

func TestFileStore_EmptyFiles(t *testing.T) {
	t.Parallel()
	_, err := newStore(t).Save(context.Background(), crypto.AlgorithmBlake3, nil, false)
	require.ErrorIs(t, err, errors.ErrEmptyValue)
}

func TestFileStore_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newStore(t).Save(ctx, crypto.AlgorithmBlake3, generate(t, crypto.AlgorithmBlake3), false)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_LockTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("lock contention within one process is unix-specific")
	}
	t.Parallel()
	s := newStore(t)

	held, err := flock.Acquire(context.Background(), filepath.Join(s.Dir(), constants.KeyLockFileName), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = held.Release() })

	_, err = s.Save(context.Background(), crypto.AlgorithmBlake3, generate(t, crypto.AlgorithmBlake3), false)
	require.ErrorIs(t, err, errors.ErrLockTimeout)
	assert.NoFileExists(t, filepath.Join(s.Dir(), constants.Blake3KeyFileName))
}

func TestFileStore_SaveRejectsDirectoryTarget(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	old := generate(t, crypto.AlgorithmEd25519)
	_, err := s.Save(context.Background(), crypto.AlgorithmEd25519, old, false)
	require.NoError(t, err)

	pkPath := filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName)
	require.NoError(t, os.Remove(pkPath))
	require.NoError(t, os.MkdirAll(filepath.Join(pkPath, "nested"), 0o750))

	_, err = s.Save(context.Background(), crypto.AlgorithmEd25519, generate(t, crypto.AlgorithmEd25519), true)
	require.ErrorIs(t, err, errors.ErrKeyFileExists)
	assert.Contains(t, err.Error(), "is a directory")

	sk, err := os.ReadFile(filepath.Join(s.Dir(), constants.Ed25519PrivateKeyFileName))
	require.NoError(t, err)
	assert.Equal(t, old[0].Data, sk)
	assertNoLeftovers(t, s.Dir())
}

func TestFileStore_SaveRollsBackOnRenameFailure(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	old := generate(t, crypto.AlgorithmEd25519)
	oldManifest, err := s.Save(context.Background(), crypto.AlgorithmEd25519, old, false)
	require.NoError(t, err)

	// Fail the second file's move into place, after the private key has
	// already been replaced.
	s.rename = func(oldpath, newpath string) error {
		if filepath.Ext(oldpath) == ".tmp" && filepath.Base(newpath) == constants.Ed25519PublicKeyFileName {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrPermission}
		}
		return os.Rename(oldpath, newpath)
	}

	_, err = s.Save(context.Background(), crypto.AlgorithmEd25519, generate(t, crypto.AlgorithmEd25519), true)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrPermission)

	sk, err := os.ReadFile(filepath.Join(s.Dir(), constants.Ed25519PrivateKeyFileName))
	require.NoError(t, err)
	assert.Equal(t, old[0].Data, sk)

	pk, err := os.ReadFile(filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName))
	require.NoError(t, err)
	assert.Equal(t, old[1].Data, pk)

	m, err := s.LoadManifest(crypto.AlgorithmEd25519)
	require.NoError(t, err)
	assert.Equal(t, oldManifest.ID, m.ID)
	assertNoLeftovers(t, s.Dir())
}

func TestFileStore_SaveRollsBackFreshDirectory(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	s.rename = func(oldpath, newpath string) error {
		if filepath.Base(newpath) == constants.Ed25519PublicKeyFileName {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrPermission}
		}
		return os.Rename(oldpath, newpath)
	}

	_, err := s.Save(context.Background(), crypto.AlgorithmEd25519, generate(t, crypto.AlgorithmEd25519), false)
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(s.Dir(), constants.Ed25519PrivateKeyFileName))
	assert.NoFileExists(t, filepath.Join(s.Dir(), constants.Ed25519PublicKeyFileName))
	assertNoLeftovers(t, s.Dir())
}

func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		assert.NotEqual(t, ".tmp", ext, "leftover %s", e.Name())
		assert.NotEqual(t, ".bak", ext, "leftover %s", e.Name())
	}
}
