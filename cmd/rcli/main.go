// Package main provides the entry point for the rcli CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/rcli/internal/cli"
	"github.com/mrz1836/rcli/internal/signal"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // Build metadata injected by the linker
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	code := cli.ExitCodeForError(err)
	if h.Interrupted() {
		code = cli.ExitInterrupted
	}
	h.Stop()

	os.Exit(code)
}
