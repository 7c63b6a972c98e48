// Package native provides Ed25519 signing using standard crypto libraries.
//
// Signing keys are 32-byte seeds; the full key pair is derived from the seed
// on every call. Verification takes the 32-byte public key.
package native

import (
	"crypto/ed25519"
	"io"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/crypto"
)

// Scheme implements crypto.Scheme with Ed25519.
type Scheme struct{}

// New returns the Ed25519 scheme.
func New() *Scheme {
	return &Scheme{}
}

// Algorithm returns crypto.AlgorithmEd25519.
func (s *Scheme) Algorithm() crypto.Algorithm {
	return crypto.AlgorithmEd25519
}

// Generate returns a random seed and the public key derived from it, as
// separate files so they can be stored with different permissions.
func (s *Scheme) Generate(rand io.Reader) ([]crypto.KeyFile, error) {
	seed, err := crypto.ReadEntropy(rand, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	pub, err := PublicKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return []crypto.KeyFile{
		{Name: constants.Ed25519PrivateKeyFileName, Role: crypto.RolePrivate, Data: seed},
		{Name: constants.Ed25519PublicKeyFileName, Role: crypto.RolePublic, Data: pub},
	}, nil
}

// Sign derives the key pair from seed and signs payload.
func (s *Scheme) Sign(seed, payload []byte) ([]byte, error) {
	if err := crypto.CheckKeyLength(crypto.AlgorithmEd25519, crypto.RolePrivate, seed, ed25519.SeedSize); err != nil {
		return nil, err
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(seed), payload), nil
}

// Verify checks signature against payload using the public key.
func (s *Scheme) Verify(publicKey, payload, signature []byte) (bool, error) {
	if err := crypto.CheckKeyLength(crypto.AlgorithmEd25519, crypto.RolePublic, publicKey, ed25519.PublicKeySize); err != nil {
		return false, err
	}
	if err := crypto.CheckSignatureLength(crypto.AlgorithmEd25519, signature); err != nil {
		return false, err
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), payload, signature), nil
}

// PublicKeyFromSeed derives the 32-byte public key for seed.
func PublicKeyFromSeed(seed []byte) ([]byte, error) {
	if err := crypto.CheckKeyLength(crypto.AlgorithmEd25519, crypto.RolePrivate, seed, ed25519.SeedSize); err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return []byte(pub), nil
}
