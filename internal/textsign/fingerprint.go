package textsign

import (
	"encoding/base64"

	"lukechampine.com/blake3"
)

// fingerprintSize is the number of digest bytes kept in a fingerprint.
const fingerprintSize = 12

// Fingerprint returns a short, stable identifier for key bytes, suitable for
// logs and manifests. It is an unkeyed BLAKE3 digest prefix and does not
// reveal the key.
func Fingerprint(key []byte) string {
	sum := blake3.Sum256(key)
	return base64.RawURLEncoding.EncodeToString(sum[:fingerprintSize])
}
