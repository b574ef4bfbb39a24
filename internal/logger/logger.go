// Package logger builds the zap loggers used across the advisor binaries.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger at the given level. Console mode uses a colored,
// human-readable encoder for terminal use; json mode emits one JSON object
// per line for log shippers.
func New(level string, json bool) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}

// Must returns a console logger at the given level and panics when the
// configuration cannot be built. Intended for main() wiring.
func Must(level string) *zap.Logger {
	log, err := New(level, false)
	if err != nil {
		panic(fmt.Sprintf("logger init failed: %v", err))
	}
	return log
}

// Nop returns a disabled logger for tests and optional dependencies.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel maps a level string to a zap level, defaulting unknown
// values to info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}
