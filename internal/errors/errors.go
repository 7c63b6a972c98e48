// Package errors provides centralized error handling for rcli.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUnsupportedAlgorithm indicates that an algorithm tag did not match
	// any known signing algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrKeyLength indicates that key material does not have the exact length
	// required by the selected algorithm.
	ErrKeyLength = errors.New("invalid key length")

	// ErrMalformedSignature indicates that a candidate signature could not be
	// decoded, or decoded to the wrong number of bytes.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrSourceUnavailable indicates that a payload or key source could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEntropyUnavailable indicates that the secure random source failed
	// while generating key material.
	ErrEntropyUnavailable = errors.New("entropy unavailable")

	// ErrSignatureMismatch indicates that a well-formed signature did not verify.
	// It is only produced at the CLI boundary; the verifier itself reports a
	// mismatch as a false result.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrPayloadTooLarge indicates that a payload exceeded the configured size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrKeyFileExists indicates that a key file would be overwritten.
	ErrKeyFileExists = errors.New("key file already exists")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidSigning indicates an invalid signing configuration value.
	ErrConfigInvalidSigning = errors.New("invalid signing configuration")

	// ErrConfigInvalidKeys indicates an invalid key storage configuration value.
	ErrConfigInvalidKeys = errors.New("invalid keys configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrConflictingFlags indicates that mutually exclusive flag values were used.
	ErrConflictingFlags = errors.New("conflicting flags")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrOperationCanceled indicates that the user canceled an interactive prompt.
	ErrOperationCanceled = errors.New("operation canceled")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// IsInvalidInput reports whether err describes malformed user input rather
// than a runtime failure. Bad algorithm tags, wrong key lengths and
// undecodable signatures all fall in this class.
func IsInvalidInput(err error) bool {
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm),
		errors.Is(err, ErrKeyLength),
		errors.Is(err, ErrMalformedSignature),
		errors.Is(err, ErrConflictingFlags),
		errors.Is(err, ErrInvalidOutputFormat),
		errors.Is(err, ErrEmptyValue):
		return true
	default:
		return IsExitCode2Error(err)
	}
}
