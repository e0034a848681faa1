package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry.
const ServiceName = "travelbuddy-relay"

// New builds a zap logger. format "json" selects the production encoder,
// anything else the human-readable development one. Stack traces are kept
// for errors only; provider warnings are frequent and expected.
func New(levelStr, format string, opts ...zap.Option) *zap.Logger {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))

	opts = append([]zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}, opts...)
	logger, err := cfg.Build(opts...)
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", ServiceName))
}

// ParseLevel maps LOG_LEVEL values onto zap levels, defaulting to info.
func ParseLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}
