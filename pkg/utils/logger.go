package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON production logger at the given level
// ("debug", "info", "warn", "error").
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func MustLogger(level string) *zap.Logger {
	l, err := NewLogger(level)
	if err != nil {
		// fall back rather than refuse to start over a typo
		l, _ = zap.NewProduction()
		l.Warn("invalid log level, using info", zap.String("level", level))
	}
	return l
}
