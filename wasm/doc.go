// Package wasm reads the interface of WebAssembly binary modules.
//
// The reader understands exactly as much of the binary format as is needed
// to enumerate a module's imports and exports:
//
//   - the "\0asm" header and version 1
//   - section framing, canonical section order and duplicate detection
//   - the import section, including every descriptor body
//     (function, table, memory, global, tag)
//   - the export section
//
// Descriptor bodies are decoded with post-2.0 proposals in mind: typed
// references with explicit heap types (GC), shared and 64-bit memories
// (threads, memory64) and exception handling tags.
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	iface, err := wasm.ParseInterface(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, imp := range iface.Imports {
//	    fmt.Println(imp.Desc.Kind, imp.Module, imp.Name)
//	}
//
// Errors from malformed input carry the byte position and the section
// being read; see ParseError.
//
// Function bodies, type definitions and other section contents are not
// decoded or validated. Pair ParseInterface with an engine such as wazero
// when full validation is required.
package wasm
