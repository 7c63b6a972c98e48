package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/rcli/internal/constants"
)

// This file contains test utilities and mocks for testing CLI functions.

// mockFormRunner implements formRunner so huh forms can be replaced in tests.
type mockFormRunner struct {
	// runErr is the error to return from Run()
	runErr error

	// onRun simulates user input by modifying form values.
	onRun func()
}

// Run executes the mock form, optionally calling the onRun callback.
func (m *mockFormRunner) Run() error {
	if m.onRun != nil {
		m.onRun()
	}
	return m.runErr
}

// mockTerminalCheckFunc returns a function that can replace terminalCheck in tests.
// The returned cleanup function should be deferred to restore the original.
func mockTerminalCheckFunc(isTerminal bool) func() {
	original := terminalCheck
	terminalCheck = func() bool { return isTerminal }
	return func() { terminalCheck = original }
}

// mockConfirmForm replaces the overwrite prompt with one that answers answer.
// It returns a pointer that reports whether the prompt was shown.
func mockConfirmForm(t *testing.T, answer bool, runErr error) *bool {
	t.Helper()
	shown := new(bool)
	original := createOverwriteConfirmForm
	createOverwriteConfirmForm = func(_ string, confirm *bool) formRunner {
		return &mockFormRunner{
			runErr: runErr,
			onRun: func() {
				*shown = true
				*confirm = answer
			},
		}
	}
	t.Cleanup(func() { createOverwriteConfirmForm = original })
	return shown
}

// isolateConfig points configuration at empty temp directories and returns
// a working directory for the test. Tests using it cannot run in parallel.
func isolateConfig(t *testing.T) string {
	t.Helper()
	t.Setenv(constants.HomeEnvVar, t.TempDir())
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
	wd := t.TempDir()
	t.Chdir(wd)
	return wd
}
