package log

import "context"

// noopLogger discards all log records. It is used whenever a nil logger is
// passed to an SDK constructor.
type noopLogger struct{}

var _ Logger = (*noopLogger)(nil)

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func (noopLogger) Debug(context.Context, string, ...interface{}) {}
func (noopLogger) Info(context.Context, string, ...interface{})  {}
func (noopLogger) Warn(context.Context, string, ...interface{})  {}
func (noopLogger) Error(context.Context, string, ...interface{}) {}
