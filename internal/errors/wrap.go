package errors

import "fmt"

// Wrap prefixes err with msg, keeping it matchable with errors.Is.
// A nil err returns nil so it can be used inline:
//
//	return errors.Wrap(err, "failed to read key")
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
