// Package wasminterface reports the import and export surface of WebAssembly modules.
//
// # Architecture Overview
//
//	wasminterface/
//	├── cmd/wasm-interface/  CLI: one module path in, sorted report out
//	├── inspect/             Inspector, Decoder implementations, report rendering
//	├── wasm/                Structural reader for module headers, imports and exports
//	├── errors/              Structured error types (phase + kind)
//	└── internal/wasmtest/   Module builder for tests
//
// # Quick Start
//
//	insp := inspect.New(inspect.DefaultOptions())
//	if err := insp.Run(ctx, "module.wasm", os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// The default decoder compiles the module with wazero, so a module is
// reported only if the engine accepts it. Nothing is instantiated or
// executed, and imports are never resolved.
package wasminterface
