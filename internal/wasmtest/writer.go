package wasmtest

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for WASM binary encoding.
type Writer struct {
	buf bytes.Buffer
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Byte writes single bytes.
func (w *Writer) Byte(b ...byte) *Writer {
	w.buf.Write(b)
	return w
}

// U32 writes an unsigned LEB128 encoded uint32.
func (w *Writer) U32(v uint32) *Writer {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return w
		}
	}
}

// S64 writes a signed LEB128 encoded int64.
func (w *Writer) S64(v int64) *Writer {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && (b&0x40) == 0) || (v == -1 && (b&0x40) != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.buf.WriteByte(b)
	}
	return w
}

// Name writes a length-prefixed name. The bytes are written as given,
// so tests can produce invalid UTF-8.
func (w *Writer) Name(s string) *Writer {
	w.U32(uint32(len(s)))
	w.buf.WriteString(s)
	return w
}

// Section writes a section with its id and size prefix.
func (w *Writer) Section(id byte, payload []byte) *Writer {
	w.buf.WriteByte(id)
	w.U32(uint32(len(payload)))
	w.buf.Write(payload)
	return w
}

// Header returns the module preamble: magic and version 1.
func Header() []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], 0x6D736100)
	binary.LittleEndian.PutUint32(buf[4:], 1)
	return buf[:]
}

// Raw assembles a module from a header followed by the given sections.
func Raw(sections ...[]byte) []byte {
	w := &Writer{}
	w.Byte(Header()...)
	for _, s := range sections {
		w.Byte(s...)
	}
	return w.Bytes()
}

// Section returns a single encoded section.
func Section(id byte, payload []byte) []byte {
	return (&Writer{}).Section(id, payload).Bytes()
}
