// Package keyed implements the BLAKE3 keyed-hash signing scheme.
//
// This is a message authentication code, not a public-key signature: the
// 32-byte key is a shared secret and whoever holds it can both sign and
// verify. Tags are deterministic for a given key and payload.
package keyed

import (
	"crypto/subtle"
	"io"

	"lukechampine.com/blake3"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
)

// Scheme implements crypto.Scheme with keyed BLAKE3.
type Scheme struct{}

// New returns the keyed BLAKE3 scheme.
func New() *Scheme {
	return &Scheme{}
}

// Algorithm returns crypto.AlgorithmBlake3.
func (s *Scheme) Algorithm() crypto.Algorithm {
	return crypto.AlgorithmBlake3
}

// Generate returns a single random 32-byte secret.
func (s *Scheme) Generate(rand io.Reader) ([]crypto.KeyFile, error) {
	key, err := crypto.ReadEntropy(rand, crypto.KeySize)
	if err != nil {
		return nil, err
	}
	return []crypto.KeyFile{{
		Name: constants.Blake3KeyFileName,
		Role: crypto.RoleSecret,
		Data: key,
	}}, nil
}

// Sign returns the 32-byte keyed BLAKE3 digest of payload.
func (s *Scheme) Sign(key, payload []byte) ([]byte, error) {
	if err := crypto.CheckKeyLength(crypto.AlgorithmBlake3, crypto.RoleSecret, key, crypto.KeySize); err != nil {
		return nil, err
	}
	return sum(key, payload), nil
}

// Verify recomputes the digest and compares it to signature in constant time.
func (s *Scheme) Verify(key, payload, signature []byte) (bool, error) {
	if err := crypto.CheckKeyLength(crypto.AlgorithmBlake3, crypto.RoleSecret, key, crypto.KeySize); err != nil {
		return false, err
	}
	if err := crypto.CheckSignatureLength(crypto.AlgorithmBlake3, signature); err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(sum(key, payload), signature) == 1, nil
}

// sum assumes key is exactly crypto.KeySize bytes.
func sum(key, payload []byte) []byte {
	h := blake3.New(crypto.Blake3SignatureSize, key)
	_, _ = h.Write(payload)
	return h.Sum(nil)
}
