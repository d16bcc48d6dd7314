package main

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/wippyai/wasm-interface/errors"
)

// Process exit statuses.
const (
	exitOK         = 0
	exitUsage      = 1
	exitFileAccess = 2
	exitDecode     = 3
	exitFailure    = 1 // anything unclassified
)

func exitCode(err error) int {
	phase, ok := errors.PhaseOf(err)
	if !ok {
		return exitFailure
	}
	switch phase {
	case errors.PhaseUsage:
		return exitUsage
	case errors.PhaseLoad:
		return exitFileAccess
	case errors.PhaseDecode, errors.PhaseValidate:
		return exitDecode
	default:
		return exitFailure
	}
}

// printError writes a single "error: ..." line. Usage errors show only
// their detail; other errors show the full chain.
func printError(w io.Writer, err error) {
	msg := err.Error()
	var e *errors.Error
	if stderrors.As(err, &e) && e.Phase == errors.PhaseUsage {
		msg = e.Detail
	}
	fmt.Fprintln(w, errorPrefix(w), msg)
}
