package logging

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const loggerKey = contextKey("logger")

var defaultLogger = NewLogger()

// NewLogger builds the process logger. PERCEPT_LOG_MODE=production switches
// to the sampling JSON config, PERCEPT_LOG_LEVEL overrides the level.
func NewLogger() *zap.SugaredLogger {
	var config zap.Config
	if strings.EqualFold(os.Getenv("PERCEPT_LOG_MODE"), "production") {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	if level := os.Getenv("PERCEPT_LOG_LEVEL"); level != "" {
		var l zapcore.Level
		if err := l.Set(strings.ToLower(level)); err == nil {
			config.Level = zap.NewAtomicLevelAt(l)
		}
	}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in the context, or the process
// default when none is set.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
		return logger
	}
	return defaultLogger
}
