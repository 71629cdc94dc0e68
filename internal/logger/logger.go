package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// ZapLogger adapts zap to printf-style calls.
type ZapLogger struct {
	Logger *zap.Logger
}

func (z *ZapLogger) Printf(format string, args ...interface{}) {
	z.Logger.Info(fmt.Sprintf(format, args...))
}

func (z *ZapLogger) Debug(format string, args ...interface{}) {
	z.Logger.Debug(fmt.Sprintf(format, args...))
}

func (z *ZapLogger) Info(format string, args ...interface{}) {
	z.Logger.Info(fmt.Sprintf(format, args...))
}

func (z *ZapLogger) Warn(format string, args ...interface{}) {
	z.Logger.Warn(fmt.Sprintf(format, args...))
}

func (z *ZapLogger) Error(format string, args ...interface{}) {
	z.Logger.Error(fmt.Sprintf(format, args...))
}

func (z *ZapLogger) Fatal(format string, args ...interface{}) {
	z.Logger.Fatal(fmt.Sprintf(format, args...))
}

// With returns a child logger carrying the given fields, e.g. a session id.
func (z *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{Logger: z.Logger.With(fields...)}
}

func (z *ZapLogger) Sync() error {
	return z.Logger.Sync()
}

// NewLogger builds a production logger, or a development one when debug is
// set.
func NewLogger(debug bool) *ZapLogger {
	build := zap.NewProduction
	if debug {
		build = zap.NewDevelopment
	}
	zl, err := build()

	if err != nil {
		panic(err)
	}

	return &ZapLogger{
		Logger: zl,
	}
}

// NewNop discards everything; used in tests.
func NewNop() *ZapLogger {
	return &ZapLogger{Logger: zap.NewNop()}
}
