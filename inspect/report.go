package inspect

import (
	"bytes"
	"io"
	"slices"
)

// Report is the rendered, sorted interface of a module.
type Report struct {
	Imports []string
	Exports []string
}

// RenderImport formats an import as "<kind> <namespace>.<name>".
func RenderImport(d ImportDescriptor) string {
	return d.Kind.String() + " " + d.Namespace + "." + d.Name
}

// RenderExport formats an export as "<kind> <name>".
func RenderExport(d ExportDescriptor) string {
	return d.Kind.String() + " " + d.Name
}

// NewReport renders every descriptor of iface and sorts imports and
// exports independently in byte-wise order.
func NewReport(iface *Interface) *Report {
	r := &Report{
		Imports: make([]string, 0, len(iface.Imports)),
		Exports: make([]string, 0, len(iface.Exports)),
	}
	for _, d := range iface.Imports {
		r.Imports = append(r.Imports, RenderImport(d))
	}
	for _, d := range iface.Exports {
		r.Exports = append(r.Exports, RenderExport(d))
	}
	slices.Sort(r.Imports)
	slices.Sort(r.Exports)
	return r
}

// Bytes returns the report text:
//
//	imports:
//	  <line>
//
//	exports:
//	  <line>
func (r *Report) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("imports:\n")
	for _, line := range r.Imports {
		buf.WriteString("  ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteString("\nexports:\n")
	for _, line := range r.Exports {
		buf.WriteString("  ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// String returns the report text.
func (r *Report) String() string {
	return string(r.Bytes())
}

// WriteTo writes the report to w in a single write.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
