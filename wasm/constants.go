package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Sections must appear in canonical order (see sectionOrder), except custom sections.
const (
	SectionCustom    byte = 0  // Custom section (can appear anywhere)
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
	SectionTag       byte = 13 // Tag section (exception handling)
)

// Import/Export descriptor kinds identify the type of imported or exported item.
const (
	KindFunc   ExternKind = 0 // Function import/export
	KindTable  ExternKind = 1 // Table import/export
	KindMemory ExternKind = 2 // Memory import/export
	KindGlobal ExternKind = 3 // Global import/export
	KindTag    ExternKind = 4 // Tag import/export (exception handling)
)

// Reference type prefixes that carry an explicit heap type (GC proposal).
const (
	RefNullPrefix byte = 0x63 // (ref null ht)
	RefPrefix     byte = 0x64 // (ref ht)
)

// Limits flags
const (
	LimitsNoMax    byte = 0x00
	LimitsHasMax   byte = 0x01
	LimitsShared   byte = 0x02
	LimitsMemory64 byte = 0x04

	limitsKnownFlags = LimitsHasMax | LimitsShared | LimitsMemory64
)
