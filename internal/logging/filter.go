// Package logging provides zerolog helpers that keep key material out of
// log output.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match values that may be key material.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// PEM private key blocks
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]*PRIVATE KEY-----`),

	// Assignments to key-like names: key=..., seed: ..., secret="..."
	regexp.MustCompile(`(?i)\b(secret|seed|private[_-]?key|signing[_-]?key|key)\b"?\s*[:=]\s*["']?[^\s"',}]{8,}["']?`),

	// 32 bytes or more in hex
	regexp.MustCompile(`\b[0-9a-fA-F]{64,}\b`),

	// 32 bytes or more in URL-safe base64
	regexp.MustCompile(`[A-Za-z0-9_-]{43,}`),
}

// sensitiveFieldNames are field names whose values are always redacted.
// Matching is case-insensitive and by substring.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"secret",
	"seed",
	"private_key",
	"privatekey",
	"private-key",
	"signing_key",
	"signingkey",
	"key_material",
	"password",
}

// SensitiveDataHook flags log events whose message looks like it carries
// key material. Zerolog hooks cannot rewrite the message, so the
// FilteringWriter does the actual redaction for file output.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field name indicates key material.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns [REDACTED] for sensitive field names and the filtered
// value otherwise.
//
//	log.Debug().Str("key_path", logging.SafeValue("key_path", path)).Msg("key loaded")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from
// everything written through it. Log files are wrapped with it so key
// material never reaches disk.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success even when the
// filtered output is shorter.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
