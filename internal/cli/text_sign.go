package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/input"
	"github.com/mrz1836/rcli/internal/textsign"
	"github.com/mrz1836/rcli/internal/tui"
)

type textSignOptions struct {
	format string
	key    string
	inputs []string
}

// signResult is the JSON form of a sign command result.
type signResult struct {
	Algorithm  string                  `json:"algorithm"`
	Signatures []textsign.SignedSource `json:"signatures"`
}

func addTextSignCmd(parent *cobra.Command) {
	opts := &textSignOptions{}

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign input with a shared secret or private key",
		Long: `Sign one or more inputs and print the signatures.

The key is the raw 32-byte file written by 'rcli text generate': blake3.txt
for blake3, ed25519.sk for ed25519. Use "-" to read the key or a single
input from standard input.

Examples:
  rcli text sign --key blake3.txt --input message.txt
  echo -n "hello world" | rcli text sign -f ed25519 -k ed25519.sk
  rcli text sign -k blake3.txt -i a.txt -i b.txt -i c.txt`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTextSign(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), outputFormat(cmd), opts)
		},
	}

	addFormatFlag(cmd, &opts.format)
	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "path to the signing key, or - for stdin")
	cmd.Flags().StringArrayVarP(&opts.inputs, "input", "i", []string{constants.StdinSentinel}, "input to sign, or - for stdin (repeatable)")
	_ = cmd.MarkFlagRequired("key")

	parent.AddCommand(cmd)
}

func runTextSign(ctx context.Context, w io.Writer, stdin io.Reader, format string, opts *textSignOptions) error {
	if err := checkStdinUse(opts.key, opts.inputs); err != nil {
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

	payloads := input.NewReader(stdin, cfg.Signing.MaxPayloadBytes)
	signed, err := textsign.SignSources(ctx, alg, key, opts.inputs, payloads.ReadAll, cfg.Signing.BatchConcurrency)
	if err != nil {
		return err
	}

	logger.Info().
		Str("algorithm", alg.String()).
		Str("key_path", opts.key).
		Int("inputs", len(signed)).
		Msg("text signed")

	if format == OutputJSON {
		return tui.NewJSONOutput(w).JSON(signResult{Algorithm: alg.String(), Signatures: signed})
	}

	if len(signed) == 1 {
		_, err = fmt.Fprintln(w, signed[0].Signature)
		return err
	}
	for _, s := range signed {
		if _, err := fmt.Fprintf(w, "%s  %s\n", s.Signature, s.Source); err != nil {
			return err
		}
	}
	return nil
}
