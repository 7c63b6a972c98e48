// Package testutil provides testing utilities for rcli.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import (
	"errors"
	"io"
)

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockEntropy indicates a mock random source failed (used in tests).
	ErrMockEntropy = errors.New("random source failed")

	// ErrMockRead indicates a mock reader failed (used in tests).
	ErrMockRead = errors.New("read failed")
)

// FailingReader is an io.Reader that always fails with ErrMockEntropy.
type FailingReader struct{}

// Read implements io.Reader.
func (FailingReader) Read([]byte) (int, error) {
	return 0, ErrMockEntropy
}

// ErrReader returns an io.Reader that fails with ErrMockRead after yielding prefix.
func ErrReader(prefix []byte) io.Reader {
	return io.MultiReader(&onceReader{b: prefix}, &errReader{})
}

type onceReader struct{ b []byte }

func (r *onceReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}

type errReader struct{}

func (*errReader) Read([]byte) (int, error) {
	return 0, ErrMockRead
}

// CountingReader yields an incrementing byte sequence starting at Next.
// It gives tests a reproducible stand-in for a random source.
type CountingReader struct {
	Next byte
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.Next
		r.Next++
	}
	return len(p), nil
}
