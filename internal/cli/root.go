// Package cli provides the command-line interface for rcli.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Before that it returns a zero-value
// logger that discards all output.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the rcli CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "rcli",
		Short: "rcli - a toolbox of small command-line utilities",
		Long: `rcli is a collection of command-line utilities.

The text commands generate key material, sign text and verify signatures
with BLAKE3 keyed hashing (a shared-secret MAC) or Ed25519 (public-key
signatures).`,
		Version: formatVersion(info),
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFlags(cmd); err != nil {
				return err
			}

			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		// Errors are reported by Execute in the selected output format.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)
	cmd.SetFlagErrorFunc(flagError)

	AddTextCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// Any returned error has already been reported to the user; pass it to
// ExitCodeForError to get the process exit code.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()

	err := cmd.ExecuteContext(ctx)

	if err != nil {
		w := cmd.ErrOrStderr()
		if flags.Output == OutputJSON {
			w = cmd.OutOrStdout()
		}
		reportError(w, flags.Output, err)
	}
	return err
}

// reportError prints the user-facing message for err with its suggested
// action. The raw error text follows as context when it adds detail. A
// signature mismatch is skipped because the verdict has already been
// printed.
func reportError(w io.Writer, format string, err error) {
	if stderrors.Is(err, errors.ErrSignatureMismatch) {
		return
	}

	message, action := errors.Actionable(err)
	ae := tui.NewActionableError(message, action).WithCause(err)
	if detail := err.Error(); detail != message {
		ae.WithContext(detail)
	}
	tui.NewOutput(w, format).Error(ae)
}
