// Package logging builds the console logger used by the CLI.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level picks the log level from the CLI verbosity flags. Quiet wins over
// verbose.
func Level(verbose, quiet bool) zapcore.Level {
	switch {
	case quiet:
		return zapcore.ErrorLevel
	case verbose:
		return zapcore.DebugLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to w. Timestamps are omitted: the
// output is meant for a terminal, next to the CLI's own messages.
func New(w io.Writer, verbose, quiet bool) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		Level(verbose, quiet),
	)
	return zap.New(core)
}
