package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/rcli/internal/config"
	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/input"
)

// maxKeyFileBytes bounds how much of a key source is read. Valid keys are
// far smaller; anything bigger is rejected before the length check.
const maxKeyFileBytes = 64 << 10

// AddTextCommand adds the text command group to the root command.
func AddTextCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Generate keys, sign text and verify signatures",
		Long: `Generate key material, sign arbitrary input and verify signatures.

Two algorithms are supported:
  blake3   BLAKE3 keyed hash. The 32-byte key is a shared secret: anyone
           holding it can both sign and verify.
  ed25519  Ed25519 signatures. Sign with the 32-byte private seed, verify
           with the 32-byte public key.

Signatures are printed as URL-safe base64 without padding.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	addTextGenerateCmd(cmd)
	addTextSignCmd(cmd)
	addTextVerifyCmd(cmd)

	root.AddCommand(cmd)
}

// addFormatFlag registers --format. The empty default defers to signing.algorithm.
func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", "", "signing algorithm (blake3|ed25519); defaults to signing.algorithm")
}

// outputFormat returns the value of the global --output flag.
func outputFormat(cmd *cobra.Command) string {
	if f := cmd.Flag("output"); f != nil {
		return f.Value.String()
	}
	return OutputText
}

// loadTextConfig loads configuration with the command's flag overrides.
// An unsupported --format is reported as such rather than falling back.
func loadTextConfig(ctx context.Context, format, keysDir string) (*config.Config, error) {
	overrides := &config.Config{}
	if format != "" {
		alg, err := crypto.ParseAlgorithm(format)
		if err != nil {
			return nil, err
		}
		overrides.Signing.Algorithm = alg
	}
	overrides.Keys.Dir = keysDir

	return config.LoadWithOverrides(ctx, overrides)
}

// checkStdinUse rejects more than one source reading standard input.
func checkStdinUse(key string, inputs []string) error {
	n := 0
	for _, source := range append([]string{key}, inputs...) {
		if input.IsStdin(source) {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("%w: only one of --key and --input may be %q", errors.ErrConflictingFlags, constants.StdinSentinel)
	}
	return nil
}

// formRunner is an interface that matches huh.Form's Run method.
type formRunner interface {
	Run() error
}

// createOverwriteConfirmForm builds the overwrite prompt. It is a variable
// so tests can replace the interactive form.
//
//nolint:gochecknoglobals // Required for test injection of the confirm form
var createOverwriteConfirmForm = defaultCreateOverwriteConfirmForm

func defaultCreateOverwriteConfirmForm(description string, confirm *bool) formRunner {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Overwrite existing key files?").
				Description(description + "\nThe old keys cannot be recovered.").
				Affirmative("Yes, overwrite").
				Negative("No, cancel").
				Value(confirm),
		),
	)
}

// terminalCheck is a variable for the terminal check function, allowing tests to override it.
//
//nolint:gochecknoglobals // Required for test injection of terminal detection
var terminalCheck = isTerminal

// isTerminal returns true if stdin is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
