// Command wasm-interface prints the imports and exports of a WebAssembly module.
//
// Usage:
//
//	wasm-interface <path-to-wasm-module>
//
// Output lists imports as "<kind> <module>.<name>" and exports as
// "<kind> <name>", each section sorted:
//
//	imports:
//	  function env.log
//
//	exports:
//	  function main
//
// Exit status is 0 on success, 1 on wrong usage, 2 when the file cannot be
// read and 3 when it is not a valid module.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
