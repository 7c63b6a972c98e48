// Package input resolves a source identifier (a file path, or "-" for
// standard input) to the full byte content of that source.
//
// Payloads are read completely into memory before any signing work starts.
// An optional size limit guards against unbounded input.
package input

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/ctxutil"
	"github.com/mrz1836/rcli/internal/errors"
)

// SourceUnavailableError is returned when a source cannot be opened or read.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("reading %s: %v", describe(e.Source), e.Err)
}

// Unwrap returns errors.ErrSourceUnavailable and the underlying error.
func (e *SourceUnavailableError) Unwrap() []error {
	return []error{errors.ErrSourceUnavailable, e.Err}
}

// Reader reads whole sources into memory.
type Reader struct {
	stdin    io.Reader
	maxBytes int64
}

// NewReader creates a Reader that uses stdin for the "-" sentinel.
// maxBytes <= 0 disables the size limit.
func NewReader(stdin io.Reader, maxBytes int64) *Reader {
	return &Reader{stdin: stdin, maxBytes: maxBytes}
}

// IsStdin reports whether source refers to standard input.
func IsStdin(source string) bool {
	return source == constants.StdinSentinel
}

// Check verifies that source is either the stdin sentinel or an existing
// regular file, without reading it.
func Check(source string) error {
	if source == "" {
		return errors.Wrap(errors.ErrEmptyValue, "input path")
	}
	if IsStdin(source) {
		return nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return &SourceUnavailableError{Source: source, Err: err}
	}
	if info.IsDir() {
		return &SourceUnavailableError{Source: source, Err: fmt.Errorf("%s is a directory", source)}
	}
	return nil
}

// ReadAll returns the full content of source. Content larger than the
// configured limit fails with errors.ErrPayloadTooLarge.
func (r *Reader) ReadAll(ctx context.Context, source string) ([]byte, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := Check(source); err != nil {
		return nil, err
	}

	var src io.Reader
	if IsStdin(source) {
		if r.stdin == nil {
			return nil, &SourceUnavailableError{Source: source, Err: os.ErrInvalid}
		}
		src = r.stdin
	} else {
		f, err := os.Open(source) //#nosec G304 -- path is supplied by the user on purpose
		if err != nil {
			return nil, &SourceUnavailableError{Source: source, Err: err}
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	data, err := r.readLimited(src)
	if err != nil {
		if stderrors.Is(err, errors.ErrPayloadTooLarge) {
			return nil, fmt.Errorf("%s: %w", describe(source), err)
		}
		return nil, &SourceUnavailableError{Source: source, Err: err}
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", describe(source)).
		Int("bytes", len(data)).
		Msg("input read")

	return data, nil
}

func (r *Reader) readLimited(src io.Reader) ([]byte, error) {
	if r.maxBytes <= 0 {
		return io.ReadAll(src)
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(src, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > r.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", errors.ErrPayloadTooLarge, r.maxBytes)
	}
	return buf.Bytes(), nil
}

func describe(source string) string {
	if IsStdin(source) {
		return "standard input"
	}
	return source
}
