package inspect

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-interface/errors"
	"github.com/wippyai/wasm-interface/wasm"
)

// DecoderConfig holds configuration for the wazero-backed decoder
type DecoderConfig struct {
	// EnableThreads enables the WebAssembly threads proposal (experimental).
	// Modules declaring shared memories only compile with this set.
	EnableThreads bool

	// StructuralFallback reports modules that wazero rejects, provided the
	// structural reader accepts them and they visibly use a proposal wazero
	// does not implement (exception handling, GC, memory64). Engine
	// validation is skipped for those modules.
	StructuralFallback bool

	// Logger defaults to the package Logger.
	Logger *zap.Logger
}

// WazeroDecoder compiles modules with wazero for validation, then reads
// the descriptor lists with the wasm package. wazero's public API only
// enumerates functions and memories; those are cross-checked against the
// structural reader.
type WazeroDecoder struct {
	runtimeCfg wazero.RuntimeConfig
	fallback   bool
	logger     *zap.Logger
}

// NewWazeroDecoder creates a decoder. A nil cfg uses WebAssembly 2.0 features.
func NewWazeroDecoder(cfg *DecoderConfig) *WazeroDecoder {
	// The interpreter skips native code generation, which validation does not need.
	d := &WazeroDecoder{runtimeCfg: wazero.NewRuntimeConfigInterpreter()}
	if cfg == nil {
		return d
	}
	if cfg.EnableThreads {
		d.runtimeCfg = d.runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
	}
	d.fallback = cfg.StructuralFallback
	d.logger = cfg.Logger
	return d
}

// Decode implements Decoder.
func (d *WazeroDecoder) Decode(ctx context.Context, data []byte) (*Interface, error) {
	log := loggerOr(d.logger)

	rt := wazero.NewRuntimeWithConfig(ctx, d.runtimeCfg)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		if d.fallback && ctx.Err() == nil {
			if m, ok := engineUnsupported(log, data, err); ok {
				logDecoded(log, "structural", m)
				return interfaceOf(m), nil
			}
		}
		return nil, errors.Wrap(errors.PhaseValidate, errors.KindInvalidData, err, "compile module")
	}
	defer compiled.Close(ctx)

	m, err := parseInterface(data)
	if err != nil {
		return nil, err
	}

	if err := crossCheck(compiled, m); err != nil {
		log.Debug("wazero and structural reader disagree", zap.Error(err))
		return nil, err
	}

	logDecoded(log, "wazero", m)
	return interfaceOf(m), nil
}

func (d *WazeroDecoder) withLogger(l *zap.Logger) Decoder {
	c := *d
	c.logger = l
	return &c
}

// engineUnsupported parses a module wazero failed to compile. It succeeds
// only when the module is structurally sound and depends on a proposal
// wazero lacks, so the compile failure says nothing about its validity.
func engineUnsupported(log *zap.Logger, data []byte, compileErr error) (*wasm.Interface, bool) {
	m, err := wasm.ParseInterface(data)
	if err != nil {
		return nil, false
	}
	proposals := m.Proposals()
	if len(proposals) == 0 {
		return nil, false
	}
	log.Info("engine validation skipped",
		zap.Strings("proposals", proposals),
		zap.Error(errors.Unsupported(errors.PhaseValidate, "wazero lacks "+strings.Join(proposals, ", "))),
		zap.NamedError("compile_error", compileErr))
	return m, true
}

// crossCheck compares what wazero reports for functions and memories with
// the structural reader's result.
func crossCheck(compiled wazero.CompiledModule, m *wasm.Interface) error {
	var wantFuncImports, wantMemImports, wantFuncExports, wantMemExports []string
	for _, imp := range m.Imports {
		switch imp.Desc.Kind {
		case wasm.KindFunc:
			wantFuncImports = append(wantFuncImports, importKey(imp.Module, imp.Name))
		case wasm.KindMemory:
			wantMemImports = append(wantMemImports, memoryKey(imp.Module, imp.Name, imp.Desc.Memory.Limits))
		}
	}
	for _, exp := range m.Exports {
		switch exp.Kind {
		case wasm.KindFunc:
			wantFuncExports = append(wantFuncExports, exp.Name)
		case wasm.KindMemory:
			wantMemExports = append(wantMemExports, exp.Name)
		}
	}

	var gotFuncImports, gotMemImports []string
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		gotFuncImports = append(gotFuncImports, importKey(module, name))
	}
	for _, def := range compiled.ImportedMemories() {
		module, name, _ := def.Import()
		limits := wasm.Limits{Min: uint64(def.Min())}
		if maxPages, ok := def.Max(); ok {
			max64 := uint64(maxPages)
			limits.Max = &max64
		}
		gotMemImports = append(gotMemImports, memoryKey(module, name, limits))
	}

	checks := []struct {
		what      string
		want, got []string
	}{
		{"imported functions", wantFuncImports, gotFuncImports},
		{"imported memories", wantMemImports, gotMemImports},
		{"exported functions", wantFuncExports, mapKeys(compiled.ExportedFunctions())},
		{"exported memories", wantMemExports, mapKeys(compiled.ExportedMemories())},
	}
	for _, c := range checks {
		slices.Sort(c.want)
		slices.Sort(c.got)
		if !slices.Equal(c.want, c.got) {
			return errors.InvalidData(errors.PhaseValidate, []string{c.what},
				fmt.Sprintf("engine reports [%s], binary declares [%s]",
					strings.Join(c.got, ", "), strings.Join(c.want, ", ")))
		}
	}
	return nil
}

func importKey(module, name string) string {
	return module + "." + name
}

func memoryKey(module, name string, l wasm.Limits) string {
	if l.Max == nil {
		return fmt.Sprintf("%s.%s{min=%d}", module, name, l.Min)
	}
	return fmt.Sprintf("%s.%s{min=%d,max=%d}", module, name, l.Min, *l.Max)
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
