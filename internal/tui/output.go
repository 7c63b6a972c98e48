package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Output formats for the global --output flag.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output writes command results either as styled text or as JSON objects.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error, including any suggestion it carries.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Verdict prints the outcome of a signature check.
	Verdict(valid bool)
	// JSON outputs an arbitrary value as JSON.
	JSON(v any) error
}

// NewOutput creates the Output for format. Anything but "json" is text.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// TTYOutput provides styled output for terminal displays.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a new TTYOutput. It respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render(IconSuccess+" "+msg))
}

// Error prints an error message. An ActionableError also gets its
// suggestion on a second, dimmed line.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render(IconError+" "+err.Error()))

	var ae *ActionableError
	if errors.As(err, &ae) && ae.Suggestion != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+IconHint+" Try: "+ae.Suggestion))
	}
}

// Warning prints a warning message.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render(IconWarning+" "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Verdict prints "true" or "false". The word is always present so scripts
// can read it with or without color.
func (o *TTYOutput) Verdict(valid bool) {
	if valid {
		_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("true"))
		return
	}
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("false"))
}

// JSON outputs a value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeIndented(o.w, v)
}

// JSONOutput writes every message as a JSON object on its own line.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Context    string `json:"context,omitempty"`
}

type jsonVerdict struct {
	Type  string `json:"type"`
	Valid bool   `json:"valid"`
}

// Success outputs {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs {"type":"error","message":...} with suggestion and context
// when the error is an ActionableError.
func (o *JSONOutput) Error(err error) {
	out := jsonError{Type: "error", Message: err.Error()}

	var ae *ActionableError
	if errors.As(err, &ae) {
		out.Suggestion = ae.Suggestion
		out.Context = ae.Context
	}

	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(out)
}

// Warning outputs {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// Verdict outputs {"type":"verification","valid":...}.
func (o *JSONOutput) Verdict(valid bool) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonVerdict{Type: "verification", Valid: valid})
}

// JSON outputs an arbitrary value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeIndented(o.w, v)
}

func encodeIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
