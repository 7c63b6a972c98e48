// Package keystore persists generated key material to a directory.
// Each algorithm owns a fixed set of raw key files plus a YAML manifest
// describing them. Writes are atomic and serialized with a directory lock.
package keystore

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/rcli/internal/clock"
	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
	"github.com/mrz1836/rcli/internal/ctxutil"
	"github.com/mrz1836/rcli/internal/errors"
	"github.com/mrz1836/rcli/internal/flock"
	"github.com/mrz1836/rcli/internal/textsign"
)

// Manifest describes one saved set of key files.
type Manifest struct {
	ID          string           `json:"id" yaml:"id"`
	Algorithm   crypto.Algorithm `json:"algorithm" yaml:"algorithm"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at"`
	Fingerprint string           `json:"fingerprint" yaml:"fingerprint"`
	Files       []ManifestFile   `json:"files" yaml:"files"`
}

// ManifestFile is a single key file entry in a Manifest.
type ManifestFile struct {
	Name string         `json:"name" yaml:"name"`
	Role crypto.KeyRole `json:"role" yaml:"role"`
	Mode string         `json:"mode" yaml:"mode"`
}

// Options controls how a Store writes files.
type Options struct {
	PrivateFileMode os.FileMode
	PublicFileMode  os.FileMode
	LockTimeout     time.Duration

	// Clock stamps manifests. Defaults to clock.RealClock.
	Clock clock.Clock
}

// FileStore writes key files into a single directory.
type FileStore struct {
	dir    string
	opts   Options
	rename func(oldpath, newpath string) error
}

// NewFileStore creates a FileStore rooted at dir. Zero option values fall
// back to the package defaults.
func NewFileStore(dir string, opts Options) *FileStore {
	if opts.PrivateFileMode == 0 {
		opts.PrivateFileMode = constants.SecretKeyFileMode
	}
	if opts.PublicFileMode == 0 {
		opts.PublicFileMode = constants.PublicKeyFileMode
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = constants.DefaultKeyLockTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	return &FileStore{dir: dir, opts: opts, rename: os.Rename}
}

// Dir returns the directory the store writes into.
func (s *FileStore) Dir() string {
	return s.dir
}

// Existing returns the paths that saving files for alg would replace. A
// directory in place of a key file is an error, forced or not.
func (s *FileStore) Existing(files []crypto.KeyFile, alg crypto.Algorithm) ([]string, error) {
	var found []string
	for _, name := range s.targetNames(files, alg) {
		path := filepath.Join(s.dir, name)
		info, err := os.Lstat(path)
		switch {
		case err == nil && info.IsDir():
			return nil, fmt.Errorf("%w: %s is a directory", errors.ErrKeyFileExists, path)
		case err == nil:
			found = append(found, path)
		case stderrors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return found, nil
}

// Save writes files and a manifest for alg. Existing files are only
// replaced when force is set; otherwise ErrKeyFileExists is returned and
// nothing is written.
func (s *FileStore) Save(ctx context.Context, alg crypto.Algorithm, files []crypto.KeyFile, force bool) (*Manifest, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no key files to save: %w", errors.ErrEmptyValue)
	}

	if err := os.MkdirAll(s.dir, constants.KeyDirMode); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	lock, err := flock.Acquire(ctx, filepath.Join(s.dir, constants.KeyLockFileName), s.opts.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	existing, err := s.Existing(files, alg)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !force {
		return nil, fmt.Errorf("%w: %v", errors.ErrKeyFileExists, existing)
	}

	manifest := &Manifest{
		ID:          uuid.New().String(),
		Algorithm:   alg,
		CreatedAt:   s.opts.Clock.Now().UTC(),
		Fingerprint: textsign.Fingerprint(publicPart(files)),
	}

	logger := zerolog.Ctx(ctx)
	staged := make([]stagedFile, 0, len(files)+1)
	discard := func() {
		for _, st := range staged {
			_ = os.Remove(st.tmp)
		}
	}

	for _, f := range files {
		mode := s.modeFor(f.Role)
		st, err := stage(filepath.Join(s.dir, f.Name), f.Data, mode)
		if err != nil {
			discard()
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		staged = append(staged, st)
		manifest.Files = append(manifest.Files, ManifestFile{
			Name: f.Name,
			Role: f.Role,
			Mode: fmt.Sprintf("%#o", mode.Perm()),
		})
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		discard()
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	st, err := stage(s.manifestPath(alg), data, s.opts.PublicFileMode)
	if err != nil {
		discard()
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	staged = append(staged, st)

	if err := s.commit(staged); err != nil {
		return nil, err
	}
	for _, st := range staged {
		logger.Debug().
			Str("file", st.path).
			Msg("key file written")
	}

	logger.Info().
		Str("key_id", manifest.ID).
		Str("algorithm", alg.String()).
		Str("fingerprint", manifest.Fingerprint).
		Str("dir", s.dir).
		Msg("key material saved")

	return manifest, nil
}

// LoadManifest reads the manifest previously saved for alg.
func (s *FileStore) LoadManifest(alg crypto.Algorithm) (*Manifest, error) {
	path := s.manifestPath(alg)
	data, err := os.ReadFile(path) //#nosec G304 -- path is built from the store dir and a fixed name
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

func (s *FileStore) manifestPath(alg crypto.Algorithm) string {
	return filepath.Join(s.dir, alg.String()+constants.KeyManifestSuffix)
}

func (s *FileStore) targetNames(files []crypto.KeyFile, alg crypto.Algorithm) []string {
	names := make([]string, 0, len(files)+1)
	for _, f := range files {
		names = append(names, f.Name)
	}
	return append(names, filepath.Base(s.manifestPath(alg)))
}

func (s *FileStore) modeFor(role crypto.KeyRole) os.FileMode {
	if role.Sensitive() {
		return s.opts.PrivateFileMode
	}
	return s.opts.PublicFileMode
}

// publicPart returns the key that identifies a key set: the public key when
// there is one, otherwise the only file.
func publicPart(files []crypto.KeyFile) []byte {
	for _, f := range files {
		if f.Role == crypto.RolePublic {
			return f.Data
		}
	}
	return files[0].Data
}

// stagedFile is a fully written temp file waiting to replace path.
type stagedFile struct {
	tmp    string
	path   string
	backup string
}

// stage writes data to a temp file next to path and syncs it. The mode is
// applied explicitly so the process umask cannot widen it.
func stage(path string, data []byte, perm os.FileMode) (stagedFile, error) {
	st := stagedFile{tmp: path + ".tmp", path: path}
	f, err := os.OpenFile(st.tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return st, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(st.tmp)
		return st, fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		_ = os.Remove(st.tmp)
		return st, fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(st.tmp)
		return st, fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(st.tmp)
		return st, fmt.Errorf("failed to close file: %w", err)
	}
	return st, nil
}

// commit moves every staged file into place. Existing targets are first
// moved aside to a backup. If any step fails, files already committed are
// restored from their backups (or removed when there was none) and the
// remaining temp files are deleted, so the key set on disk is either
// entirely old or entirely new.
func (s *FileStore) commit(staged []stagedFile) error {
	for i := range staged {
		if err := s.commitOne(&staged[i]); err != nil {
			for j := i - 1; j >= 0; j-- {
				restore(staged[j])
			}
			for _, st := range staged[i:] {
				_ = os.Remove(st.tmp)
			}
			return fmt.Errorf("failed to replace %s: %w", filepath.Base(staged[i].path), err)
		}
	}
	for _, st := range staged {
		if st.backup != "" {
			_ = os.Remove(st.backup)
		}
	}
	return nil
}

func (s *FileStore) commitOne(st *stagedFile) error {
	if _, err := os.Lstat(st.path); err == nil {
		backup := st.path + ".bak"
		if err := s.rename(st.path, backup); err != nil {
			return err
		}
		st.backup = backup
	}
	if err := s.rename(st.tmp, st.path); err != nil {
		if st.backup != "" {
			_ = os.Rename(st.backup, st.path)
			st.backup = ""
		}
		return err
	}
	return nil
}

// restore undoes a committed file.
func restore(st stagedFile) {
	if st.backup != "" {
		_ = os.Rename(st.backup, st.path)
		return
	}
	_ = os.Remove(st.path)
}
