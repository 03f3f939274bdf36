package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/footprint/internal/export"
	"github.com/UnknownOlympus/footprint/internal/footprints"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	// exitCritical is reported when the input file is missing or the output
	// file cannot be created.
	exitCritical = -1
)

// main is the entry point of the application.
func main() {
	// Interrupts cancel every in-flight lookup.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, footprints.ErrInputNotFound), errors.Is(err, export.ErrCreateOutput):
		return exitCritical
	default:
		return exitFailure
	}
}
