package inspect

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-interface/errors"
	"github.com/wippyai/wasm-interface/wasm"
)

// Decoder turns module bytes into its interface. Implementations fail on
// malformed input and must not execute any module code.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (*Interface, error)
}

// loggingDecoder is implemented by decoders that can log to an
// inspector's logger.
type loggingDecoder interface {
	withLogger(l *zap.Logger) Decoder
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, data []byte) (*Interface, error)

// Decode calls f(ctx, data).
func (f DecoderFunc) Decode(ctx context.Context, data []byte) (*Interface, error) {
	return f(ctx, data)
}

// StructuralDecoder reads the interface with the wasm package alone.
// It checks binary structure but does not validate function bodies or types,
// so it accepts modules using proposals an engine may not support.
type StructuralDecoder struct {
	// Logger defaults to the package Logger.
	Logger *zap.Logger
}

// Decode implements Decoder.
func (d StructuralDecoder) Decode(ctx context.Context, data []byte) (*Interface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := parseInterface(data)
	if err != nil {
		return nil, err
	}
	logDecoded(loggerOr(d.Logger), "structural", m)
	return interfaceOf(m), nil
}

func (d StructuralDecoder) withLogger(l *zap.Logger) Decoder {
	d.Logger = l
	return d
}

func parseInterface(data []byte) (*wasm.Interface, error) {
	m, err := wasm.ParseInterface(data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse module interface")
	}
	return m, nil
}

func logDecoded(log *zap.Logger, decoder string, m *wasm.Interface) {
	log.Debug("decoded module interface",
		zap.String("decoder", decoder),
		zap.Int("imports", len(m.Imports)),
		zap.Int("exports", len(m.Exports)))
}
