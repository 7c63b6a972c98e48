// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context error if ctx is done, nil otherwise.
// Commands call it at entry so a canceled invocation does no I/O.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
