package inspect

import "github.com/wippyai/wasm-interface/wasm"

// ImportDescriptor is one entity a module needs from its host.
type ImportDescriptor struct {
	Namespace string
	Name      string
	Kind      wasm.ExternKind
}

// ExportDescriptor is one entity a module provides to its host.
type ExportDescriptor struct {
	Name string
	Kind wasm.ExternKind
}

// Interface is the decoded import/export surface of a module in
// declaration order. Duplicates are kept.
type Interface struct {
	Imports []ImportDescriptor
	Exports []ExportDescriptor
}

func interfaceOf(m *wasm.Interface) *Interface {
	iface := &Interface{
		Imports: make([]ImportDescriptor, 0, len(m.Imports)),
		Exports: make([]ExportDescriptor, 0, len(m.Exports)),
	}
	for _, imp := range m.Imports {
		iface.Imports = append(iface.Imports, ImportDescriptor{
			Namespace: imp.Module,
			Name:      imp.Name,
			Kind:      imp.Desc.Kind,
		})
	}
	for _, exp := range m.Exports {
		iface.Exports = append(iface.Exports, ExportDescriptor{
			Name: exp.Name,
			Kind: exp.Kind,
		})
	}
	return iface
}
