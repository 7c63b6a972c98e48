package tui

// ActionableError wraps an error with a suggestion the user can act on.
//
//	err := NewActionableError("invalid key length", "Run: rcli text generate")
//	output.Error(err)
//	// ✗ invalid key length
//	//   ▸ Try: Run: rcli text generate
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion is guidance for resolving the error.
	Suggestion string

	// Context is optional detail appended to the message in parentheses.
	Context string

	// Err is the underlying error, if any.
	Err error
}

// NewActionableError creates a new ActionableError with message and suggestion.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{
		Message:    msg,
		Suggestion: suggestion,
	}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	if e.Context != "" {
		return e.Message + " (" + e.Context + ")"
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ActionableError) Unwrap() error {
	return e.Err
}

// WithContext adds optional context to the error.
func (e *ActionableError) WithContext(ctx string) *ActionableError {
	e.Context = ctx
	return e
}

// WithCause records the underlying error so errors.Is keeps working.
func (e *ActionableError) WithCause(err error) *ActionableError {
	e.Err = err
	return e
}
