// Package inspect reports the import and export surface of a WebAssembly module.
//
// An Inspector reads a module file, hands the bytes to a Decoder and renders
// the result as a sorted text report:
//
//	insp := inspect.New(inspect.DefaultOptions())
//	if err := insp.Run(ctx, "module.wasm", os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// prints
//
//	imports:
//	  function env.log
//
//	exports:
//	  function main
//
// Imports render as "<kind> <namespace>.<name>" and exports as
// "<kind> <name>". Each section is sorted byte-wise on its own, so the
// output does not depend on declaration order. Duplicates are kept.
//
// # Decoders
//
// WazeroDecoder compiles the module with wazero, which validates it in
// full, and reads the descriptor lists with the wasm package.
// wazero does not implement exception handling, GC or memory64; with
// DecoderConfig.StructuralFallback (on in DefaultOptions) modules that
// visibly use them are reported from the structural read instead of failing.
// StructuralDecoder skips the engine and checks binary structure only.
// Any other implementation can be plugged in through Options.Decoder or
// DecoderFunc.
//
// # Errors
//
// Failures are *errors.Error values: PhaseLoad when the file cannot be read,
// PhaseDecode when the binary is malformed, PhaseValidate when the engine
// rejects it.
package inspect
