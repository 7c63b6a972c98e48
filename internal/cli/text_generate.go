package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/rcli/internal/crypto"
	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/keystore"
	"github.com/mrz1836/rcli/internal/textsign"
	"github.com/mrz1836/rcli/internal/tui"
)

type textGenerateOptions struct {
	format string
	dir    string
	force  bool
}

func addTextGenerateCmd(parent *cobra.Command) {
	opts := &textGenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a shared secret or key pair",
		Long: `Generate new key material and write it to a directory.

blake3 writes blake3.txt (the shared secret). ed25519 writes ed25519.sk
(the private seed) and ed25519.pk (the public key). Each run also writes
<format>.yaml describing the keys. Secret files are created with mode 0600.

Existing files are never replaced silently: you are asked to confirm on a
terminal, and must pass --force otherwise.

Examples:
  rcli text generate --format ed25519 --dir keys
  rcli text generate -f blake3 --force`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTextGenerate(cmd.Context(), cmd.OutOrStdout(), outputFormat(cmd), opts)
		},
	}

	addFormatFlag(cmd, &opts.format)
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory to write keys to; defaults to keys.dir")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite existing key files without asking")

	parent.AddCommand(cmd)
}

func runTextGenerate(ctx context.Context, w io.Writer, format string, opts *textGenerateOptions) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	cfg, err := loadTextConfig(ctx, opts.format, opts.dir)
	if err != nil {
		return err
	}
	alg := cfg.Signing.Algorithm

	files, err := textsign.NewGenerator(nil).Generate(alg)
	if err != nil {
		return err
	}

	store := keystore.NewFileStore(cfg.Keys.Dir, keystore.Options{
		PrivateFileMode: cfg.Keys.PrivateFileMode,
		PublicFileMode:  cfg.Keys.PublicFileMode,
		LockTimeout:     cfg.Keys.LockTimeout,
	})

	force := opts.force
	if !force {
		confirmed, err := confirmOverwrite(store, files, alg, format)
		if err != nil {
			return err
		}
		force = confirmed
	}

	manifest, err := store.Save(ctx, alg, files, force)
	if err != nil {
		return err
	}

	if format == OutputJSON {
		return tui.NewJSONOutput(w).JSON(manifest)
	}

	out := tui.NewTTYOutput(w)
	out.Success(fmt.Sprintf("generated %s key material (id %s)", alg, manifest.ID))
	for _, f := range manifest.Files {
		out.Info(fmt.Sprintf("  %s  %s  %s", f.Mode, f.Role, filepath.Join(store.Dir(), f.Name)))
	}
	out.Info("  fingerprint " + manifest.Fingerprint)
	if alg.IsMAC() {
		out.Warning("blake3 keys are shared secrets: anyone holding the key can sign and verify")
	}
	return nil
}

// confirmOverwrite asks before replacing existing key files. It returns
// true only when there is something to overwrite and the user agreed.
// Without a terminal, or with JSON output, existing files are an error.
func confirmOverwrite(store *keystore.FileStore, files []crypto.KeyFile, alg crypto.Algorithm, format string) (bool, error) {
	existing, err := store.Existing(files, alg)
	if err != nil || len(existing) == 0 {
		return false, err
	}

	summary := describeExisting(store, alg, existing)
	if format == OutputJSON || !terminalCheck() {
		return false, fmt.Errorf("%w: %s", errors.ErrKeyFileExists, summary)
	}

	var confirm bool
	if err := createOverwriteConfirmForm(summary, &confirm).Run(); err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	if !confirm {
		return false, errors.ErrOperationCanceled
	}
	return true, nil
}

// describeExisting names the files about to be replaced and, when the
// manifest from the previous run is readable, the key set they belong to.
func describeExisting(store *keystore.FileStore, alg crypto.Algorithm, existing []string) string {
	summary := fmt.Sprintf("%v", existing)
	m, err := store.LoadManifest(alg)
	if err != nil {
		return summary
	}
	return fmt.Sprintf("%s (key %s created %s, fingerprint %s)",
		summary, m.ID, m.CreatedAt.Format(time.RFC3339), m.Fingerprint)
}
