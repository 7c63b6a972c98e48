package cli

import (
	stderrors "errors"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/tui"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution, including a signature
	// that verified.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input: flags, algorithm tags,
	// key lengths or signature encoding.
	ExitInvalidInput = 2
	// ExitSignatureMismatch indicates a well-formed signature that did not verify.
	ExitSignatureMismatch = 3
	// ExitInterrupted indicates the command was stopped by SIGINT or SIGTERM.
	ExitInterrupted = 130
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = tui.FormatText
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = tui.FormatJSON
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so they can also be set with
// RCLI_ environment variables (e.g., RCLI_OUTPUT, RCLI_VERBOSE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// ExitCodeForError returns the process exit code for err.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if stderrors.Is(err, errors.ErrSignatureMismatch) {
		return ExitSignatureMismatch
	}

	if errors.IsInvalidInput(err) {
		return ExitInvalidInput
	}

	return ExitError
}

// noArgs rejects positional arguments. Cobra reports a stray word on a
// command with subcommands as an unknown command, which is still a usage
// error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return errors.NewExitCode2Error(err)
	}
	return nil
}

// flagError marks flag parsing failures as invalid input.
func flagError(_ *cobra.Command, err error) error {
	return errors.NewExitCode2Error(err)
}

// validateFlags runs cobra's required-flag and flag-group checks early so
// their failures carry the invalid input exit code.
func validateFlags(cmd *cobra.Command) error {
	if err := cmd.ValidateRequiredFlags(); err != nil {
		return errors.NewExitCode2Error(err)
	}
	if err := cmd.ValidateFlagGroups(); err != nil {
		return errors.NewExitCode2Error(err)
	}
	return nil
}
