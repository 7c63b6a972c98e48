//go:build unix

package flock_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/flock"
)

func openLockFile(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test temp dir
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExclusive(t *testing.T) {
	t.Parallel()

	t.Run("second descriptor is refused while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "keys.lock")
		first := openLockFile(t, path)
		second := openLockFile(t, path)

		require.NoError(t, flock.Exclusive(first.Fd()))
		assert.Error(t, flock.Exclusive(second.Fd()))

		require.NoError(t, flock.Unlock(first.Fd()))
		require.NoError(t, flock.Exclusive(second.Fd()))
		require.NoError(t, flock.Unlock(second.Fd()))
	})

	t.Run("Acquire waits for a raw lock to be released", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "keys.lock")
		raw := openLockFile(t, path)
		require.NoError(t, flock.Exclusive(raw.Fd()))

		_, err := flock.Acquire(context.Background(), path, 50*time.Millisecond)
		require.ErrorIs(t, err, errors.ErrLockTimeout)

		go func() {
			time.Sleep(30 * time.Millisecond)
			_ = flock.Unlock(raw.Fd())
		}()

		lock, err := flock.Acquire(context.Background(), path, 2*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release())
	})
}
