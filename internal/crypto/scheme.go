package crypto

import "io"

// KeyRole describes how a generated key buffer must be handled.
type KeyRole string

const (
	// RoleSecret is a shared secret used for both signing and verification.
	RoleSecret KeyRole = "secret"

	// RolePrivate is an asymmetric private seed. Only used for signing.
	RolePrivate KeyRole = "private"

	// RolePublic is an asymmetric public key. Safe to distribute.
	RolePublic KeyRole = "public"
)

// Sensitive reports whether buffers with this role must be kept private.
func (r KeyRole) Sensitive() bool {
	return r != RolePublic
}

// KeyFile is a named key buffer produced by generation. Persisting it is the
// caller's job; Name is the suggested file name.
type KeyFile struct {
	Name string
	Role KeyRole
	Data []byte
}

// Scheme is the capability every signing algorithm implements.
// Implementations must be deterministic: signing the same payload with the
// same key twice produces byte-identical signatures. They hold no mutable
// state and are safe for concurrent use.
type Scheme interface {
	// Algorithm returns the algorithm this scheme implements.
	Algorithm() Algorithm

	// Generate creates new key material, reading entropy from rand.
	Generate(rand io.Reader) ([]KeyFile, error)

	// Sign returns the raw signature of payload under key.
	// A key of the wrong length returns a *KeyLengthError.
	Sign(key, payload []byte) ([]byte, error)

	// Verify reports whether signature is valid for payload under key.
	// A mismatch is (false, nil). Wrong key or signature lengths are errors,
	// never a false result.
	Verify(key, payload, signature []byte) (bool, error)
}

// ReadEntropy reads exactly n bytes from rand. Any failure is wrapped as
// ErrEntropyUnavailable and must not be retried.
func ReadEntropy(rand io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, &EntropyError{Err: err}
	}
	return buf, nil
}

// CheckKeyLength returns a *KeyLengthError when key is not exactly want bytes.
func CheckKeyLength(alg Algorithm, role KeyRole, key []byte, want int) error {
	if len(key) != want {
		return &KeyLengthError{Algorithm: alg, Role: role, Want: want, Got: len(key)}
	}
	return nil
}

// CheckSignatureLength returns a *MalformedSignatureError when sig does not
// have the algorithm's fixed signature length.
func CheckSignatureLength(alg Algorithm, sig []byte) error {
	if want := alg.SignatureSize(); len(sig) != want {
		return &MalformedSignatureError{
			Algorithm: alg,
			Reason:    lengthReason(want, len(sig)),
		}
	}
	return nil
}
