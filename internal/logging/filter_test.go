package logging

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake key material is built at runtime so secret scanners stay quiet.
func fakeKeyBytes() []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(0xA0 + i)
	}
	return b
}

func fakeHexKey() string    { return hex.EncodeToString(fakeKeyBytes()) }
func fakeBase64Key() string { return base64.RawURLEncoding.EncodeToString(fakeKeyBytes()) }

func TestContainsSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "hex key", input: "loaded " + fakeHexKey(), expected: true},
		{name: "base64 key", input: "loaded " + fakeBase64Key(), expected: true},
		{name: "seed assignment", input: "seed=" + "testonly12345678", expected: true},
		{name: "secret json field", input: `{"secret":"testonly12345678"}`, expected: true},
		{name: "pem block", input: "-----BEGIN " + "PRIVATE KEY-----", expected: true},
		{name: "plain message", input: "key material saved", expected: false},
		{name: "key id field", input: `{"key_id":"0f8fad5b-d9cb-469f-a165-70867728950e"}`, expected: false},
		{name: "short fingerprint", input: "fingerprint=q0FJ3kX9b2mN8pQr", expected: false},
		{name: "file path", input: "/home/user/projects/signing/keys/ed25519.sk", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ContainsSensitiveData(tc.input))
		})
	}
}

func TestFilterSensitiveValue(t *testing.T) {
	t.Parallel()

	out := FilterSensitiveValue("hex " + fakeHexKey() + " b64 " + fakeBase64Key())
	assert.NotContains(t, out, fakeHexKey())
	assert.NotContains(t, out, fakeBase64Key())
	assert.Equal(t, 2, strings.Count(out, RedactedValue))

	assert.Equal(t, "nothing to see", FilterSensitiveValue("nothing to see"))
}

func TestIsSensitiveFieldName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"secret", "SEED", "private_key", "signingKey", "blake3_secret", "key_material"} {
		assert.True(t, IsSensitiveFieldName(name), name)
	}
	for _, name := range []string{"key_path", "algorithm", "fingerprint", "source"} {
		assert.False(t, IsSensitiveFieldName(name), name)
	}
}

func TestSafeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RedactedValue, SafeValue("seed", "anything"))
	assert.Equal(t, "keys/ed25519.pk", SafeValue("key_path", "keys/ed25519.pk"))
	assert.Equal(t, "got "+RedactedValue, SafeValue("detail", "got "+fakeHexKey()))
}

func TestSensitiveDataHook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(NewSensitiveDataHook())

	logger.Info().Msg("loaded " + fakeHexKey())
	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)

	buf.Reset()
	logger.Info().Msg("signature verified")
	assert.NotContains(t, buf.String(), "contains_filtered_data")
}

func TestFilteringWriter_WithZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(NewFilteringWriter(&buf))
	logger.Debug().Str("detail", fakeBase64Key()).Str("algorithm", "blake3").Msg("signed")

	out := buf.String()
	assert.NotContains(t, out, fakeBase64Key())
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, `"algorithm":"blake3"`)
}

func TestFilteringWriter_PreservesWriteLength(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	input := []byte("value " + fakeHexKey())
	n, err := NewFilteringWriter(&buf).Write(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Less(t, buf.Len(), len(input))
}

type failingWriter struct{}

var errWriteFailed = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }

func TestFilteringWriter_PropagatesError(t *testing.T) {
	t.Parallel()

	n, err := NewFilteringWriter(failingWriter{}).Write([]byte("x"))
	require.ErrorIs(t, err, errWriteFailed)
	assert.Zero(t, n)
}
