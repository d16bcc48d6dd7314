package wasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/wippyai/wasm-interface/wasm/internal/binary"
)

// Parsing errors returned by ParseInterface.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
	ErrSectionOrder   = errors.New("section out of order")
	ErrUnknownSection = errors.New("unknown section id")
	ErrSectionSize    = errors.New("section size mismatch")
	ErrInvalidKind    = errors.New("invalid import/export kind")
)

// ParseError reports a malformed module with the byte position and section.
type ParseError = binary.ParseError

// ParseInterface decodes the import and export sections of a WebAssembly
// binary module. All other sections are checked for framing and ordering
// only; their contents are skipped.
func ParseInterface(data []byte) (*Interface, error) {
	r := binary.NewReader(data)

	// Check magic number
	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, r.WrapError("header", ErrInvalidMagic)
	}

	// Check version
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, r.WrapError("header", fmt.Errorf("%w: %d", ErrInvalidVersion, version))
	}

	iface := &Interface{}
	var lastSectionOrder int

	for {
		sectionID, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, r.WrapError("section header", err)
		}

		name := sectionName(sectionID)

		// Custom sections can appear anywhere
		if sectionID != SectionCustom {
			order := sectionOrder(sectionID)
			if order == 0 {
				return nil, r.WrapError("section header", fmt.Errorf("%w: %d", ErrUnknownSection, sectionID))
			}
			if order <= lastSectionOrder {
				return nil, r.WrapError(name, ErrSectionOrder)
			}
			lastSectionOrder = order
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError(name, err)
		}

		sr, err := r.Sub(int(sectionSize))
		if err != nil {
			return nil, r.WrapError(name, err)
		}

		switch sectionID {
		case SectionCustom:
			// Name only; the payload is opaque.
			if _, err := sr.ReadName(); err != nil {
				return nil, sr.WrapError(name, err)
			}
			continue
		case SectionImport:
			iface.Imports, err = parseImportSection(sr)
		case SectionExport:
			iface.Exports, err = parseExportSection(sr)
		case SectionTag:
			iface.DefinesTags = true
			continue
		default:
			continue
		}
		if err != nil {
			return nil, sr.WrapError(name, err)
		}
		if sr.Len() != 0 {
			return nil, sr.WrapError(name, fmt.Errorf("%w: %d trailing bytes", ErrSectionSize, sr.Len()))
		}
	}

	return iface, nil
}

// sectionOrder returns the canonical ordering for a section ID, or 0 if unknown.
// Sections must appear in canonical order, which differs from section IDs.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6 // Tag comes after Memory, before Global
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11 // DataCount must come before Code
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 0
	}
}

func sectionName(id byte) string {
	switch id {
	case SectionCustom:
		return "custom section"
	case SectionType:
		return "type section"
	case SectionImport:
		return "import section"
	case SectionFunction:
		return "function section"
	case SectionTable:
		return "table section"
	case SectionMemory:
		return "memory section"
	case SectionGlobal:
		return "global section"
	case SectionExport:
		return "export section"
	case SectionStart:
		return "start section"
	case SectionElement:
		return "element section"
	case SectionCode:
		return "code section"
	case SectionData:
		return "data section"
	case SectionDataCount:
		return "data count section"
	case SectionTag:
		return "tag section"
	default:
		return fmt.Sprintf("section %d", id)
	}
}

func parseImportSection(r *binary.Reader) ([]Import, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	// Each import needs at least 4 bytes; cap the preallocation by what is left.
	imports := make([]Import, 0, min(int(count), r.Len()/4))
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadByte()
		if err != nil {
			return nil, unexpectedEOF(err)
		}

		kind := ExternKind(b)
		imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

		switch kind {
		case KindFunc:
			imp.Desc.TypeIdx, err = r.ReadU32()
			if err != nil {
				return nil, err
			}
		case KindTable:
			table, err := readTableType(r)
			if err != nil {
				return nil, err
			}
			imp.Desc.Table = &table
		case KindMemory:
			limits, err := readLimits(r)
			if err != nil {
				return nil, err
			}
			imp.Desc.Memory = &MemoryType{Limits: limits}
		case KindGlobal:
			global, err := readGlobalType(r)
			if err != nil {
				return nil, err
			}
			imp.Desc.Global = &global
		case KindTag:
			imp.Desc.TypeIdx, err = readTagType(r)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: 0x%02x for import %s.%s", ErrInvalidKind, b, module, name)
		}

		imports = append(imports, imp)
	}
	return imports, nil
}

func parseExportSection(r *binary.Reader) ([]Export, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	exports := make([]Export, 0, min(int(count), r.Len()/3))
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadByte()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		kind := ExternKind(b)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: 0x%02x for export %s", ErrInvalidKind, b, name)
		}
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{Name: name, Kind: kind, Idx: idx})
	}
	return exports, nil
}

func readLimits(r *binary.Reader) (Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return Limits{}, unexpectedEOF(err)
	}
	if flags&^limitsKnownFlags != 0 {
		return Limits{}, fmt.Errorf("invalid limits flags 0x%02x", flags)
	}

	memory64 := flags&LimitsMemory64 != 0
	l := Limits{
		Shared:   flags&LimitsShared != 0,
		Memory64: memory64,
	}

	if memory64 {
		l.Min, err = r.ReadU64()
		if err != nil {
			return Limits{}, err
		}
		if flags&LimitsHasMax != 0 {
			maxVal, err := r.ReadU64()
			if err != nil {
				return Limits{}, err
			}
			l.Max = &maxVal
		}
	} else {
		minVal, err := r.ReadU32()
		if err != nil {
			return Limits{}, err
		}
		l.Min = uint64(minVal)
		if flags&LimitsHasMax != 0 {
			maxVal, err := r.ReadU32()
			if err != nil {
				return Limits{}, err
			}
			max64 := uint64(maxVal)
			l.Max = &max64
		}
	}

	if l.Max != nil && l.Min > *l.Max {
		return Limits{}, fmt.Errorf("limits min (%d) exceeds max (%d)", l.Min, *l.Max)
	}

	return l, nil
}

func readTableType(r *binary.Reader) (TableType, error) {
	elemType, heapType, err := readRefType(r)
	if err != nil {
		return TableType{}, err
	}
	limits, err := readLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: elemType, HeapType: heapType, Limits: limits}, nil
}

// readRefType reads a reference type that may be 0x63/0x64 with heap type
func readRefType(r *binary.Reader) (byte, int64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, unexpectedEOF(err)
	}
	if b == RefNullPrefix || b == RefPrefix {
		heapType, err := r.ReadS64()
		if err != nil {
			return 0, 0, err
		}
		return b, heapType, nil
	}
	return b, 0, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	valType, heapType, err := readRefType(r)
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, unexpectedEOF(err)
	}
	if mut > 1 {
		return GlobalType{}, fmt.Errorf("invalid global mutability 0x%02x", mut)
	}
	return GlobalType{ValType: valType, HeapType: heapType, Mutable: mut == 1}, nil
}

func readTagType(r *binary.Reader) (uint32, error) {
	attribute, err := r.ReadByte()
	if err != nil {
		return 0, unexpectedEOF(err)
	}
	if attribute != 0 {
		return 0, fmt.Errorf("invalid tag attribute 0x%02x", attribute)
	}
	return r.ReadU32()
}

// unexpectedEOF converts a clean end of section into a truncation error.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
