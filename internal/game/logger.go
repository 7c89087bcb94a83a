package game

// Logger is the minimal printf-style logging contract the engine needs.
// Nakama's runtime.Logger satisfies it directly; internal/logging provides
// a zap-backed implementation for standalone use.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
