package cbor

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the package logger. It is a no-op logger unless
// SetLogger was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the package logger. Passing nil restores the
// no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// logSticky records the first error of an encode or decode context.
func logSticky(context string, err error, offset, depth int) {
	if ce := Logger().Check(zap.DebugLevel, "cbor: context entered error state"); ce != nil {
		ce.Write(
			zap.String("context", context),
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("depth", depth),
		)
	}
}
