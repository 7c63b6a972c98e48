// Package textsign implements key generation, signing and verification of
// arbitrary byte payloads for every algorithm in internal/crypto.
//
// All operations are pure functions of their inputs apart from the entropy
// consumed by generation. They keep no state and may run concurrently.
//
// Note that AlgorithmBlake3 "signatures" are MACs: the key that signs also
// verifies, so they authenticate only between holders of the shared secret.
package textsign

import (
	"crypto/rand"
	"io"

	"github.com/mrz1836/rcli/internal/crypto"
	"github.com/mrz1836/rcli/internal/crypto/keyed"
	"github.com/mrz1836/rcli/internal/crypto/native"
)

// SchemeFor returns the implementation for alg.
func SchemeFor(alg crypto.Algorithm) (crypto.Scheme, error) {
	switch alg {
	case crypto.AlgorithmBlake3:
		return keyed.New(), nil
	case crypto.AlgorithmEd25519:
		return native.New(), nil
	default:
		return nil, &crypto.UnsupportedAlgorithmError{Tag: alg.String()}
	}
}

// Generator produces new key material.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a Generator reading entropy from r.
// A nil r uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate returns the named key buffers for alg: one shared secret for
// BLAKE3, or a private seed and public key for Ed25519. Entropy failures
// wrap errors.ErrEntropyUnavailable and are not retried.
func (g *Generator) Generate(alg crypto.Algorithm) ([]crypto.KeyFile, error) {
	scheme, err := SchemeFor(alg)
	if err != nil {
		return nil, err
	}
	return scheme.Generate(g.rand)
}

// Sign returns the raw signature of payload. For Ed25519, key is the 32-byte
// seed; for BLAKE3 it is the 32-byte secret.
func Sign(alg crypto.Algorithm, key, payload []byte) ([]byte, error) {
	scheme, err := SchemeFor(alg)
	if err != nil {
		return nil, err
	}
	return scheme.Sign(key, payload)
}

// SignText is Sign with the signature rendered as URL-safe unpadded base64.
func SignText(alg crypto.Algorithm, key, payload []byte) (string, error) {
	sig, err := Sign(alg, key, payload)
	if err != nil {
		return "", err
	}
	return crypto.EncodeSignature(sig), nil
}

// Verify decodes signature from its text form and checks it against payload.
// For Ed25519, key is the 32-byte public key.
//
// A signature that does not match returns (false, nil). Undecodable text,
// wrong signature length and wrong key length are errors and are detected
// before any cryptographic work.
func Verify(alg crypto.Algorithm, key, payload []byte, signature string) (bool, error) {
	scheme, err := SchemeFor(alg)
	if err != nil {
		return false, err
	}
	if err := crypto.CheckKeyLength(alg, verifyRole(alg), key, alg.VerifyingKeySize()); err != nil {
		return false, err
	}
	sig, err := crypto.DecodeSignature(alg, signature)
	if err != nil {
		return false, err
	}
	return scheme.Verify(key, payload, sig)
}

func verifyRole(alg crypto.Algorithm) crypto.KeyRole {
	if alg.IsMAC() {
		return crypto.RoleSecret
	}
	return crypto.RolePublic
}

func signRole(alg crypto.Algorithm) crypto.KeyRole {
	if alg.IsMAC() {
		return crypto.RoleSecret
	}
	return crypto.RolePrivate
}
