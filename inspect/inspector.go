package inspect

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-interface/errors"
)

// Options configures an Inspector.
type Options struct {
	// Decoder parses module bytes. Defaults to a WazeroDecoder.
	Decoder Decoder
	// Logger receives debug records, including those of the built-in
	// decoders. Defaults to the package Logger.
	Logger *zap.Logger
}

// DefaultOptions returns the default inspector configuration: a wazero
// decoder with the threads proposal enabled that falls back to the
// structural reader for proposals wazero does not implement.
func DefaultOptions() Options {
	return Options{
		Decoder: NewWazeroDecoder(&DecoderConfig{
			EnableThreads:      true,
			StructuralFallback: true,
		}),
	}
}

// Inspector reads a module file and reports its imports and exports.
// It holds no per-run state and is safe for concurrent use if its Decoder is.
type Inspector struct {
	decoder Decoder
	logger  *zap.Logger
}

// New creates an Inspector. Zero fields in opts take their defaults.
func New(opts Options) *Inspector {
	if opts.Decoder == nil {
		opts.Decoder = DefaultOptions().Decoder
	}
	if opts.Logger == nil {
		opts.Logger = Logger()
	} else if d, ok := opts.Decoder.(loggingDecoder); ok {
		opts.Decoder = d.withLogger(opts.Logger)
	}
	return &Inspector{decoder: opts.Decoder, logger: opts.Logger}
}

// Inspect reads the module at path, decodes it and renders its report.
func (i *Inspector) Inspect(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFound(errors.PhaseLoad, "module", path, err)
		}
		return nil, errors.New(errors.PhaseLoad, errors.KindIO).
			Path(path).
			Detail("read module").
			Cause(err).
			Build()
	}
	i.logger.Debug("read module", zap.String("path", path), zap.Int("bytes", len(data)))

	iface, err := i.decoder.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("inspected module",
		zap.String("path", path),
		zap.Int("imports", len(iface.Imports)),
		zap.Int("exports", len(iface.Exports)))

	return NewReport(iface), nil
}

// Run inspects the module at path and writes the report to w.
// Nothing is written unless inspection succeeds.
func (i *Inspector) Run(ctx context.Context, path string, w io.Writer) error {
	report, err := i.Inspect(ctx, path)
	if err != nil {
		return err
	}
	if _, err := report.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
