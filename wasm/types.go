package wasm

import "fmt"

// ExternKind identifies the kind of an imported or exported entity.
type ExternKind byte

// String returns the lower-case kind name used in interface reports.
func (k ExternKind) String() string {
	switch k {
	case KindFunc:
		return "function"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	case KindTag:
		return "tag"
	default:
		return fmt.Sprintf("kind(0x%02x)", byte(k))
	}
}

// Valid reports whether k is one of the defined kinds.
func (k ExternKind) Valid() bool {
	return k <= KindTag
}

// Interface is the import/export surface of a module, in declaration order.
type Interface struct {
	Imports []Import
	Exports []Export
	// DefinesTags is set when the module has a tag section.
	DefinesTags bool
}

// Proposal names reported by Interface.Proposals.
const (
	ProposalExceptions = "exception-handling"
	ProposalGC         = "gc"
	ProposalMemory64   = "memory64"
)

// Proposals lists the post-2.0 proposals the module visibly depends on,
// judging by its tag section and its import and export descriptors.
// Function bodies are not inspected, so the result may be incomplete.
func (i *Interface) Proposals() []string {
	var exceptions, gc, memory64 bool
	exceptions = i.DefinesTags
	for _, imp := range i.Imports {
		switch imp.Desc.Kind {
		case KindTag:
			exceptions = true
		case KindTable:
			gc = gc || isTypedRef(imp.Desc.Table.ElemType)
			memory64 = memory64 || imp.Desc.Table.Limits.Memory64
		case KindMemory:
			memory64 = memory64 || imp.Desc.Memory.Limits.Memory64
		case KindGlobal:
			gc = gc || isTypedRef(imp.Desc.Global.ValType)
		}
	}
	for _, exp := range i.Exports {
		if exp.Kind == KindTag {
			exceptions = true
		}
	}

	var out []string
	if exceptions {
		out = append(out, ProposalExceptions)
	}
	if gc {
		out = append(out, ProposalGC)
	}
	if memory64 {
		out = append(out, ProposalMemory64)
	}
	return out
}

func isTypedRef(t byte) bool {
	return t == RefNullPrefix || t == RefPrefix
}

// Import describes an imported item.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Only the field matching Kind is set; TypeIdx is used by functions and tags.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	TypeIdx uint32
	Kind    ExternKind
}

// TableType describes a table with element type and size limits.
type TableType struct {
	Limits   Limits
	ElemType byte
	HeapType int64 // set when ElemType is RefPrefix or RefNullPrefix
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType  byte
	HeapType int64
	Mutable  bool
}

// Export describes an exported item.
type Export struct {
	Name string
	Kind ExternKind
	Idx  uint32
}
