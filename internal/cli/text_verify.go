package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/input"
	"github.com/mrz1836/rcli/internal/textsign"
	"github.com/mrz1836/rcli/internal/tui"
)

type textVerifyOptions struct {
	format    string
	key       string
	input     string
	signature string
}

// verifyResult is the JSON form of a verify command result.
type verifyResult struct {
	Algorithm string `json:"algorithm"`
	Source    string `json:"source"`
	Valid     bool   `json:"valid"`
}

func addTextVerifyCmd(parent *cobra.Command) {
	opts := &textVerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature",
		Long: `Verify a signature over an input and print true or false.

For blake3 the key is the shared secret that produced the signature; for
ed25519 it is the public key (ed25519.pk). The command exits 0 when the
signature verifies, 3 when it does not, and 2 when the key or signature
is malformed.

Examples:
  rcli text verify -k blake3.txt -i message.txt --signature <sig>
  echo -n "hello world" | rcli text verify -f ed25519 -k ed25519.pk -s <sig>`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTextVerify(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), outputFormat(cmd), opts)
		},
	}

	addFormatFlag(cmd, &opts.format)
	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "path to the verifying key, or - for stdin")
	cmd.Flags().StringVarP(&opts.input, "input", "i", constants.StdinSentinel, "input to verify, or - for stdin")
	cmd.Flags().StringVarP(&opts.signature, "signature", "s", "", "signature as printed by 'rcli text sign'")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("signature")

	parent.AddCommand(cmd)
}

func runTextVerify(ctx context.Context, w io.Writer, stdin io.Reader, format string, opts *textVerifyOptions) error {
	if err := checkStdinUse(opts.key, []string{opts.input}); err != nil {
		return err
	}

	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	cfg, err := loadTextConfig(ctx, opts.format, "")
	if err != nil {
		return err
	}
	alg := cfg.Signing.Algorithm

	key, err := input.NewReader(stdin, maxKeyFileBytes).ReadAll(ctx, opts.key)
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}

	payload, err := input.NewReader(stdin, cfg.Signing.MaxPayloadBytes).ReadAll(ctx, opts.input)
	if err != nil {
		return err
	}

	valid, err := textsign.Verify(alg, key, payload, opts.signature)
	if err != nil {
		return err
	}

	logger.Info().
		Str("algorithm", alg.String()).
		Str("key_path", opts.key).
		Bool("valid", valid).
		Msg("signature checked")

	if format == OutputJSON {
		if err := tui.NewJSONOutput(w).JSON(verifyResult{Algorithm: alg.String(), Source: opts.input, Valid: valid}); err != nil {
			return err
		}
	} else {
		tui.NewTTYOutput(w).Verdict(valid)
	}

	if !valid {
		return errors.ErrSignatureMismatch
	}
	return nil
}
