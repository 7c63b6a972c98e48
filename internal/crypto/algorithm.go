// Package crypto defines the signing algorithms supported by rcli and the
// capability interface their implementations satisfy.
//
// Two algorithms are supported and they do not share a trust model:
//
//   - AlgorithmBlake3 is a keyed BLAKE3 hash used as a message authentication
//     code. The 32-byte key is a shared secret: anyone holding it can both
//     produce and check signatures.
//   - AlgorithmEd25519 is an asymmetric signature. Only the holder of the
//     32-byte private seed can sign; anyone with the public key can verify.
package crypto

import (
	"strings"

	"golang.org/x/text/cases"
)

// Algorithm identifies a signing algorithm. The set is closed; the zero value
// is not a valid algorithm.
type Algorithm uint8

const (
	// AlgorithmBlake3 is the keyed-hash (MAC) variant.
	AlgorithmBlake3 Algorithm = iota + 1

	// AlgorithmEd25519 is the asymmetric signature variant.
	AlgorithmEd25519
)

// Fixed sizes, in bytes, shared by both algorithms or specific to one.
const (
	// KeySize is the length of every key buffer: the BLAKE3 secret, the
	// Ed25519 seed and the Ed25519 public key.
	KeySize = 32

	// Blake3SignatureSize is the length of a keyed BLAKE3 digest.
	Blake3SignatureSize = 32

	// Ed25519SignatureSize is the length of an Ed25519 signature.
	Ed25519SignatureSize = 64
)

// Algorithms returns every supported algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmBlake3, AlgorithmEd25519}
}

// ParseAlgorithm maps a case-insensitive tag ("blake3", "ed25519") to an
// Algorithm. Unknown tags return an *UnsupportedAlgorithmError.
func ParseAlgorithm(tag string) (Algorithm, error) {
	folded := cases.Fold().String(strings.TrimSpace(tag))
	for _, alg := range Algorithms() {
		if folded == alg.String() {
			return alg, nil
		}
	}
	return 0, &UnsupportedAlgorithmError{Tag: tag}
}

// String returns the lowercase tag for the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmBlake3:
		return "blake3"
	case AlgorithmEd25519:
		return "ed25519"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	return a == AlgorithmBlake3 || a == AlgorithmEd25519
}

// IsMAC reports whether signatures of this algorithm are symmetric
// authentication tags rather than public-key signatures.
func (a Algorithm) IsMAC() bool {
	return a == AlgorithmBlake3
}

// SigningKeySize returns the key length required to sign.
func (a Algorithm) SigningKeySize() int {
	return KeySize
}

// VerifyingKeySize returns the key length required to verify. For Ed25519
// this is the public key, not the seed.
func (a Algorithm) VerifyingKeySize() int {
	return KeySize
}

// SignatureSize returns the raw signature length, or 0 for an invalid algorithm.
func (a Algorithm) SignatureSize() int {
	switch a {
	case AlgorithmBlake3:
		return Blake3SignatureSize
	case AlgorithmEd25519:
		return Ed25519SignatureSize
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, &UnsupportedAlgorithmError{Tag: a.String()}
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	alg, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}
