// Package logger builds the zap logger and carries request-scoped loggers through contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/placebook/internal/config"
	"github.com/kailas-cloud/placebook/internal/version"
)

// New creates a zap logger for the given environment.
// prod defaults to JSON at info; local, dev and docker default to colored console at debug.
// cfg.Level and cfg.Format override those defaults.
func New(env string, cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	switch env {
	case "prod":
		zc = zap.NewProductionConfig()
	case "local", "dev", "docker":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	switch cfg.Format {
	case "":
	case "json":
		zc.Encoding = "json"
		zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	case "console":
		zc.Encoding = "console"
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	zc.InitialFields = map[string]any{
		"service": "placebook",
		"version": version.Version,
	}

	l, err := zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
