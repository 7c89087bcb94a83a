// Package logging adapts zap to the engine's logger interface for runs
// outside the Nakama runtime, which brings its own logger.
package logging

import (
	"go.uber.org/zap"

	"liargame/internal/game"
)

// ZapLogger wraps a zap sugared logger behind game.Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a production-config zap logger. Set debug for development
// output with debug level enabled.
func New(debug bool) (*ZapLogger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: logger.Sugar()}, nil
}

// Wrap adapts an existing zap logger.
func Wrap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

var _ game.Logger = (*ZapLogger)(nil)

func (l *ZapLogger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *ZapLogger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *ZapLogger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *ZapLogger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

// Sync flushes buffered log entries. Call on shutdown.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }
