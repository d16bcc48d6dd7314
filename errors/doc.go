// Package errors provides structured error types for wasm-interface.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries an optional location path, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("import section").
//		Detail("unknown import kind 0x%02x", kind).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Wrap(errors.PhaseLoad, errors.KindIO, cause, "read module")
//	err := errors.Usage("expected 1 argument, got %d", n)
//
// All errors implement the standard error interface and support errors.Is/As.
// The CLI maps Phase to a process exit status.
package errors
