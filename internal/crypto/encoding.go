package crypto

import (
	"encoding/base64"
	"strings"
)

// signatureEncoding is URL-safe base64 without padding. Strict decoding
// rejects non-canonical trailing bits so each signature has one text form.
var signatureEncoding = base64.RawURLEncoding.Strict() //nolint:gochecknoglobals // immutable codec

// EncodeSignature renders raw signature bytes as boundary text.
func EncodeSignature(sig []byte) string {
	return signatureEncoding.EncodeToString(sig)
}

// DecodeSignature parses boundary text for alg. Surrounding whitespace is
// ignored. Undecodable text or a decoded length other than
// alg.SignatureSize() returns a *MalformedSignatureError.
func DecodeSignature(alg Algorithm, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &MalformedSignatureError{Algorithm: alg, Reason: "empty signature"}
	}
	sig, err := signatureEncoding.DecodeString(text)
	if err != nil {
		return nil, &MalformedSignatureError{Algorithm: alg, Reason: "not url-safe unpadded base64", Err: err}
	}
	if err := CheckSignatureLength(alg, sig); err != nil {
		return nil, err
	}
	return sig, nil
}
