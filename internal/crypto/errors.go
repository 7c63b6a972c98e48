package crypto

import (
	"fmt"

	"github.com/mrz1836/rcli/internal/errors"
)

// UnsupportedAlgorithmError is returned for an unrecognized algorithm tag.
type UnsupportedAlgorithmError struct {
	Tag string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported algorithm %q (expected one of %v)", e.Tag, Algorithms())
}

// Unwrap returns errors.ErrUnsupportedAlgorithm.
func (e *UnsupportedAlgorithmError) Unwrap() error {
	return errors.ErrUnsupportedAlgorithm
}

// KeyLengthError is returned when key material has the wrong length.
type KeyLengthError struct {
	Algorithm Algorithm
	Role      KeyRole
	Want      int
	Got       int
}

func (e *KeyLengthError) Error() string {
	return fmt.Sprintf("%s %s key must be %d bytes, got %d", e.Algorithm, e.Role, e.Want, e.Got)
}

// Unwrap returns errors.ErrKeyLength.
func (e *KeyLengthError) Unwrap() error {
	return errors.ErrKeyLength
}

// MalformedSignatureError is returned when a candidate signature cannot be
// decoded or has the wrong length. It is distinct from a failed check.
type MalformedSignatureError struct {
	Algorithm Algorithm
	Reason    string
	Err       error
}

func (e *MalformedSignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s signature: %s: %v", e.Algorithm, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s signature: %s", e.Algorithm, e.Reason)
}

// Unwrap returns errors.ErrMalformedSignature and the decode error, if any.
func (e *MalformedSignatureError) Unwrap() []error {
	if e.Err != nil {
		return []error{errors.ErrMalformedSignature, e.Err}
	}
	return []error{errors.ErrMalformedSignature}
}

// EntropyError is returned when the random source fails during generation.
type EntropyError struct {
	Err error
}

func (e *EntropyError) Error() string {
	return fmt.Sprintf("reading random source: %v", e.Err)
}

// Unwrap returns errors.ErrEntropyUnavailable and the underlying read error.
func (e *EntropyError) Unwrap() []error {
	return []error{errors.ErrEntropyUnavailable, e.Err}
}

func lengthReason(want, got int) string {
	return fmt.Sprintf("expected %d bytes, got %d", want, got)
}
