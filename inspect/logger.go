package inspect

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nopLogger     = zap.NewNop()
	packageLogger atomic.Pointer[zap.Logger]
)

// Logger returns the fallback logger used by inspectors and decoders that
// were not given one. It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	if l := packageLogger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger replaces the fallback logger. A nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	packageLogger.Store(l)
}

// loggerOr returns l, or the fallback logger when l is nil.
func loggerOr(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
