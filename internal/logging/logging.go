// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger. Commands log with the key/value helpers
// (Infow, Warnw, Debugw).
type Logger struct {
	*zap.SugaredLogger
}

// Options describes logger construction parameters.
type Options struct {
	// Level is a zap level name such as debug, info, warn or error.
	// Empty means info.
	Level string
	// Verbose forces debug level and adds caller information.
	Verbose bool
}

// NewLogger returns a console logger writing to stderr. It never fails:
// if the logger cannot be built, a no-op logger is returned instead.
func NewLogger(verbose bool) *Logger {
	logger, err := New(Options{Verbose: verbose})
	if err != nil {
		return NewNop()
	}
	return logger
}

// New builds a logger from opts.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""
	encoderCfg.StacktraceKey = ""

	var zapOpts []zap.Option
	if opts.Verbose {
		level = zapcore.DebugLevel
		encoderCfg.TimeKey = "T"
		encoderCfg.CallerKey = "C"
		zapOpts = append(zapOpts, zap.AddCaller())
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)

	return &Logger{zap.New(core, zapOpts...).Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// ParseLevel maps a config level name to a zap level. It accepts every
// name zapcore does, plus "warning" for warn. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", level)
	}
	return lvl, nil
}
