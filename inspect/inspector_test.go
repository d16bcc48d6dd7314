package inspect_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	ierrors "github.com/wippyai/wasm-interface/errors"
	"github.com/wippyai/wasm-interface/inspect"
	"github.com/wippyai/wasm-interface/internal/wasmtest"
	"github.com/wippyai/wasm-interface/wasm"
)

func writeModule(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.wasm")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func decoders() map[string]inspect.Decoder {
	return map[string]inspect.Decoder{
		"wazero":     inspect.NewWazeroDecoder(nil),
		"structural": inspect.StructuralDecoder{},
	}
}

func logModule() []byte {
	return wasmtest.Module{
		Imports: []wasmtest.Import{{Module: "env", Name: "log", Kind: wasm.KindFunc}},
		Funcs:   1,
		Exports: []wasmtest.Export{{Name: "main", Kind: wasm.KindFunc, Idx: 1}},
	}.Encode()
}

func TestRunSingleImportAndExport(t *testing.T) {
	path := writeModule(t, logModule())

	for name, dec := range decoders() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), path, &out)
			require.NoError(t, err)
			assert.Equal(t, "imports:\n  function env.log\n\nexports:\n  function main\n", out.String())
		})
	}
}

func TestRunEmptyModule(t *testing.T) {
	path := writeModule(t, wasmtest.Module{}.Encode())

	for name, dec := range decoders() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), path, &out)
			require.NoError(t, err)
			assert.Equal(t, "imports:\n\nexports:\n", out.String())
		})
	}
}

func TestRunAllCoreKindsSorted(t *testing.T) {
	path := writeModule(t, wasmtest.Module{
		Imports: []wasmtest.Import{
			{Module: "wasi", Name: "fd_write", Kind: wasm.KindFunc},
			{Module: "env", Name: "memory", Kind: wasm.KindMemory},
			{Module: "env", Name: "__indirect_function_table", Kind: wasm.KindTable},
			{Module: "env", Name: "__stack_pointer", Kind: wasm.KindGlobal},
			{Module: "env", Name: "abort", Kind: wasm.KindFunc},
		},
		Funcs:   2,
		Globals: 1,
		Exports: []wasmtest.Export{
			{Name: "_start", Kind: wasm.KindFunc, Idx: 3},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
			{Name: "add", Kind: wasm.KindFunc, Idx: 2},
			{Name: "table", Kind: wasm.KindTable, Idx: 0},
			{Name: "counter", Kind: wasm.KindGlobal, Idx: 1},
		},
	}.Encode())

	want := "imports:\n" +
		"  function env.abort\n" +
		"  function wasi.fd_write\n" +
		"  global env.__stack_pointer\n" +
		"  memory env.memory\n" +
		"  table env.__indirect_function_table\n" +
		"\n" +
		"exports:\n" +
		"  function _start\n" +
		"  function add\n" +
		"  global counter\n" +
		"  memory memory\n" +
		"  table table\n"

	for name, dec := range decoders() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), path, &out))
			assert.Equal(t, want, out.String())
		})
	}
}

func TestRunIgnoresDeclarationOrder(t *testing.T) {
	imports := []wasmtest.Import{
		{Module: "b", Name: "x", Kind: wasm.KindFunc},
		{Module: "a", Name: "y", Kind: wasm.KindFunc},
		{Module: "a", Name: "x", Kind: wasm.KindFunc},
	}
	reversed := []wasmtest.Import{imports[2], imports[1], imports[0]}

	insp := inspect.New(inspect.Options{Decoder: inspect.NewWazeroDecoder(nil)})

	var first, second bytes.Buffer
	require.NoError(t, insp.Run(context.Background(), writeModule(t, wasmtest.Module{Imports: imports}.Encode()), &first))
	require.NoError(t, insp.Run(context.Background(), writeModule(t, wasmtest.Module{Imports: reversed}.Encode()), &second))

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, "imports:\n  function a.x\n  function a.y\n  function b.x\n\nexports:\n", first.String())
}

func TestRunIsIdempotent(t *testing.T) {
	path := writeModule(t, logModule())
	insp := inspect.New(inspect.DefaultOptions())

	var first, second bytes.Buffer
	require.NoError(t, insp.Run(context.Background(), path, &first))
	require.NoError(t, insp.Run(context.Background(), path, &second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRunDuplicateImports(t *testing.T) {
	path := writeModule(t, wasmtest.Module{
		Imports: []wasmtest.Import{
			{Module: "env", Name: "f", Kind: wasm.KindFunc},
			{Module: "env", Name: "f", Kind: wasm.KindFunc},
		},
	}.Encode())

	var out bytes.Buffer
	require.NoError(t, inspect.New(inspect.DefaultOptions()).Run(context.Background(), path, &out))
	assert.Equal(t, "imports:\n  function env.f\n  function env.f\n\nexports:\n", out.String())
}

func TestRunMissingFile(t *testing.T) {
	called := false
	dec := inspect.DecoderFunc(func(context.Context, []byte) (*inspect.Interface, error) {
		called = true
		return &inspect.Interface{}, nil
	})

	path := filepath.Join(t.TempDir(), "missing.wasm")
	var out bytes.Buffer
	err := inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), path, &out)

	require.Error(t, err)
	assert.False(t, called, "decoder must not run when the read fails")
	assert.Empty(t, out.String())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, &ierrors.Error{Phase: ierrors.PhaseLoad, Kind: ierrors.KindNotFound})
	assert.Contains(t, err.Error(), "missing.wasm")
}

func TestRunUnreadablePath(t *testing.T) {
	// A directory cannot be read as a file.
	var out bytes.Buffer
	err := inspect.New(inspect.Options{Decoder: inspect.StructuralDecoder{}}).Run(context.Background(), t.TempDir(), &out)

	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.ErrorIs(t, err, &ierrors.Error{Phase: ierrors.PhaseLoad, Kind: ierrors.KindIO})
}

func TestRunMalformedContent(t *testing.T) {
	inputs := map[string][]byte{
		"empty":       {},
		"wrong magic": {0x7f, 'E', 'L', 'F', 0x01, 0x00, 0x00, 0x00},
		"text":        []byte("(module)"),
		"truncated":   logModule()[:20],
	}
	wantPhase := map[string]ierrors.Phase{
		"wazero":     ierrors.PhaseValidate,
		"structural": ierrors.PhaseDecode,
	}

	for decName, dec := range decoders() {
		for inputName, data := range inputs {
			t.Run(decName+"/"+inputName, func(t *testing.T) {
				var out bytes.Buffer
				err := inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), writeModule(t, data), &out)

				require.Error(t, err)
				assert.Empty(t, out.String())
				phase, ok := ierrors.PhaseOf(err)
				require.True(t, ok, "expected a structured error, got %v", err)
				assert.Equal(t, wantPhase[decName], phase)
			})
		}
	}
}

func TestRunCustomDecoder(t *testing.T) {
	var got []byte
	dec := inspect.DecoderFunc(func(_ context.Context, data []byte) (*inspect.Interface, error) {
		got = data
		return &inspect.Interface{
			Imports: []inspect.ImportDescriptor{{Namespace: "host", Name: "z", Kind: wasm.KindTag}},
			Exports: []inspect.ExportDescriptor{{Name: "e", Kind: wasm.KindGlobal}},
		}, nil
	})

	path := writeModule(t, []byte("anything"))
	var out bytes.Buffer
	require.NoError(t, inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), path, &out))

	assert.Equal(t, []byte("anything"), got)
	assert.Equal(t, "imports:\n  tag host.z\n\nexports:\n  global e\n", out.String())
}

func TestRunDecoderErrorPassedThrough(t *testing.T) {
	boom := errors.New("boom")
	dec := inspect.DecoderFunc(func(context.Context, []byte) (*inspect.Interface, error) {
		return nil, boom
	})

	var out bytes.Buffer
	err := inspect.New(inspect.Options{Decoder: dec}).Run(context.Background(), writeModule(t, logModule()), &out)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRunWriteFailure(t *testing.T) {
	err := inspect.New(inspect.DefaultOptions()).Run(context.Background(), writeModule(t, logModule()), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write report")
	assert.Contains(t, err.Error(), "closed pipe")
}

func TestInspectLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	insp := inspect.New(inspect.Options{
		Decoder: inspect.StructuralDecoder{},
		Logger:  zap.New(core),
	})

	path := writeModule(t, logModule())
	report, err := insp.Inspect(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"function env.log"}, report.Imports)

	read := logs.FilterMessage("read module").All()
	require.Len(t, read, 1)
	assert.Equal(t, path, read[0].ContextMap()["path"])
	assert.EqualValues(t, len(logModule()), read[0].ContextMap()["bytes"])

	done := logs.FilterMessage("inspected module").All()
	require.Len(t, done, 1)
	assert.EqualValues(t, 1, done[0].ContextMap()["imports"])
	assert.EqualValues(t, 1, done[0].ContextMap()["exports"])
}

func TestOptionsLoggerReachesDecoder(t *testing.T) {
	path := writeModule(t, logModule())

	for name, dec := range decoders() {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			insp := inspect.New(inspect.Options{Decoder: dec, Logger: zap.New(core)})

			_, err := insp.Inspect(context.Background(), path)
			require.NoError(t, err)

			entries := logs.FilterMessage("decoded module interface").All()
			require.Len(t, entries, 1)
			assert.Equal(t, name, entries[0].ContextMap()["decoder"])
		})
	}
}

func TestRunTagModuleWithDefaultOptions(t *testing.T) {
	path := writeModule(t, wasmtest.Module{
		Imports: []wasmtest.Import{{Module: "env", Name: "exn", Kind: wasm.KindTag}},
		Exports: []wasmtest.Export{{Name: "exn", Kind: wasm.KindTag, Idx: 0}},
	}.Encode())

	var out bytes.Buffer
	require.NoError(t, inspect.New(inspect.DefaultOptions()).Run(context.Background(), path, &out))
	assert.Equal(t, "imports:\n  tag env.exn\n\nexports:\n  tag exn\n", out.String())
}

func TestPackageLogger(t *testing.T) {
	prev := inspect.Logger()
	t.Cleanup(func() { inspect.SetLogger(prev) })

	core, logs := observer.New(zapcore.DebugLevel)
	inspect.SetLogger(zap.New(core))

	_, err := inspect.NewWazeroDecoder(nil).Decode(context.Background(), logModule())
	require.NoError(t, err)

	entries := logs.FilterMessage("decoded module interface").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "wazero", entries[0].ContextMap()["decoder"])

	inspect.SetLogger(nil)
	assert.NotNil(t, inspect.Logger())
	_, err = inspect.StructuralDecoder{}.Decode(context.Background(), logModule())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}
