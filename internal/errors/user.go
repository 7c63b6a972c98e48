package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Signing & Verification
	// ===================
	{
		err: ErrUnsupportedAlgorithm,
		info: ErrorInfo{
			Message: "The signing algorithm is not supported.",
			Action:  "Use --format blake3 or --format ed25519.",
		},
	},
	{
		err: ErrKeyLength,
		info: ErrorInfo{
			Message: "The key does not have the length required by the algorithm.",
			Action:  "Check that --key points at a file produced by 'rcli text generate' for the same --format.",
		},
	},
	{
		err: ErrMalformedSignature,
		info: ErrorInfo{
			Message: "The signature is not valid URL-safe base64 of the expected length.",
			Action:  "Pass the signature exactly as printed by 'rcli text sign'.",
		},
	},
	{
		err: ErrSignatureMismatch,
		info: ErrorInfo{
			Message: "The signature does not match the input.",
			Action:  "",
		},
	},
	{
		err: ErrEntropyUnavailable,
		info: ErrorInfo{
			Message: "Could not read from the system random source.",
			Action:  "Check that the operating system entropy source is available and retry.",
		},
	},
	{
		err: ErrSourceUnavailable,
		info: ErrorInfo{
			Message: "Could not read the input or key.",
			Action:  "Check the path exists and is readable, or use '-' for standard input.",
		},
	},
	{
		err: ErrPayloadTooLarge,
		info: ErrorInfo{
			Message: "The input is larger than the configured limit.",
			Action:  "Raise signing.max_payload_bytes in the config, or set it to 0 to disable the limit.",
		},
	},

	// ===================
	// Key Files
	// ===================
	{
		err: ErrKeyFileExists,
		info: ErrorInfo{
			Message: "A key file already exists in the output directory.",
			Action:  "Choose a different --dir or pass --force to overwrite.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Could not acquire lock. Another process may be writing keys.",
			Action:  "Wait and try again, or check for stuck processes.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure .rcli/config.yaml exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidSigning,
		info: ErrorInfo{
			Message: "Invalid signing configuration.",
			Action:  "Check the 'signing' section in .rcli/config.yaml for invalid values.",
		},
	},
	{
		err: ErrConfigInvalidKeys,
		info: ErrorInfo{
			Message: "Invalid keys configuration.",
			Action:  "Check the 'keys' section in .rcli/config.yaml for invalid values.",
		},
	},

	// ===================
	// Misc
	// ===================
	{
		err: ErrConflictingFlags,
		info: ErrorInfo{
			Message: "The specified flags cannot be used together.",
			Action:  "Check the command help for valid flag combinations.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation was canceled.",
			Action:  "",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
// This is called once during package init for O(1) direct lookups.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Usage errors from the command line get a pointer to --help. Anything
// else keeps its original message.
func getErrorInfo(err error) ErrorInfo {
	// Fast path: O(1) lookup for direct sentinel errors
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Slow path: errors.Is() for wrapped errors
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	if IsExitCode2Error(err) {
		return ErrorInfo{
			Message: err.Error(),
			Action:  "Run the command with --help to see its flags and arguments.",
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
