// Package wasmtest builds small WebAssembly modules for tests.
//
// Modules produced by Module.Encode are valid WebAssembly 2.0 as long as
// export indices refer to existing entities, so they compile with wazero.
// Tags require the exception handling proposal, which wazero rejects.
package wasmtest

import "github.com/wippyai/wasm-interface/wasm"

// Import is an imported entity. Descriptor bodies use fixed simple types:
// func () -> (), funcref table, memory with min 1, immutable i32 global.
type Import struct {
	Module string
	Name   string
	Kind   wasm.ExternKind
}

// Export is an exported entity referring to Idx in its kind's index space.
// Imported entities come first in every index space.
type Export struct {
	Name string
	Kind wasm.ExternKind
	Idx  uint32
}

// Module describes a module to encode.
type Module struct {
	Imports  []Import
	Exports  []Export
	Funcs    int // defined functions of type () -> ()
	Tables   int
	Memories int
	Globals  int
	Tags     int
	// SharedMemory marks imported and defined memories as shared (threads).
	SharedMemory bool
}

// Encode returns the binary encoding of m.
func (m Module) Encode() []byte {
	w := &Writer{}
	w.Byte(Header()...)

	needsType := m.Funcs > 0 || m.Tags > 0
	for _, imp := range m.Imports {
		if imp.Kind == wasm.KindFunc || imp.Kind == wasm.KindTag {
			needsType = true
		}
	}
	if needsType {
		// one signature: () -> ()
		w.Section(wasm.SectionType, []byte{0x01, 0x60, 0x00, 0x00})
	}

	if len(m.Imports) > 0 {
		sec := &Writer{}
		sec.U32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.Name(imp.Module).Name(imp.Name).Byte(byte(imp.Kind))
			switch imp.Kind {
			case wasm.KindFunc:
				sec.U32(0)
			case wasm.KindTable:
				sec.Byte(0x70, 0x00, 0x00)
			case wasm.KindMemory:
				m.memoryType(sec)
			case wasm.KindGlobal:
				sec.Byte(0x7f, 0x00)
			case wasm.KindTag:
				sec.Byte(0x00).U32(0)
			}
		}
		w.Section(wasm.SectionImport, sec.Bytes())
	}

	if m.Funcs > 0 {
		sec := &Writer{}
		sec.U32(uint32(m.Funcs))
		for i := 0; i < m.Funcs; i++ {
			sec.U32(0)
		}
		w.Section(wasm.SectionFunction, sec.Bytes())
	}

	if m.Tables > 0 {
		sec := &Writer{}
		sec.U32(uint32(m.Tables))
		for i := 0; i < m.Tables; i++ {
			sec.Byte(0x70, 0x00, 0x00)
		}
		w.Section(wasm.SectionTable, sec.Bytes())
	}

	if m.Memories > 0 {
		sec := &Writer{}
		sec.U32(uint32(m.Memories))
		for i := 0; i < m.Memories; i++ {
			m.memoryType(sec)
		}
		w.Section(wasm.SectionMemory, sec.Bytes())
	}

	if m.Tags > 0 {
		sec := &Writer{}
		sec.U32(uint32(m.Tags))
		for i := 0; i < m.Tags; i++ {
			sec.Byte(0x00).U32(0)
		}
		w.Section(wasm.SectionTag, sec.Bytes())
	}

	if m.Globals > 0 {
		sec := &Writer{}
		sec.U32(uint32(m.Globals))
		for i := 0; i < m.Globals; i++ {
			// i32 const, init: i32.const 0; end
			sec.Byte(0x7f, 0x00, 0x41, 0x00, 0x0b)
		}
		w.Section(wasm.SectionGlobal, sec.Bytes())
	}

	if len(m.Exports) > 0 {
		sec := &Writer{}
		sec.U32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.Name(exp.Name).Byte(byte(exp.Kind)).U32(exp.Idx)
		}
		w.Section(wasm.SectionExport, sec.Bytes())
	}

	if m.Funcs > 0 {
		sec := &Writer{}
		sec.U32(uint32(m.Funcs))
		for i := 0; i < m.Funcs; i++ {
			// size 2: no locals, end
			sec.Byte(0x02, 0x00, 0x0b)
		}
		w.Section(wasm.SectionCode, sec.Bytes())
	}

	return w.Bytes()
}

func (m Module) memoryType(w *Writer) {
	if m.SharedMemory {
		// shared memories must declare a maximum
		w.Byte(wasm.LimitsHasMax|wasm.LimitsShared, 0x01, 0x01)
		return
	}
	w.Byte(wasm.LimitsNoMax, 0x01)
}
