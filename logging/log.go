package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger  *zap.Logger
	sugared *zap.SugaredLogger
)

func init() {
	cfg := newConfig(zapcore.InfoLevel)
	var err error
	logger, err = cfg.Build()
	if err != nil {
		panic(err)
	}
	sugared = logger.Sugar()
}

func newConfig(level zapcore.Level) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	return cfg
}

// Init reconfigures the global logger with the given level string
// ("debug", "info", "warn", "error").
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l, err := newConfig(lvl).Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger = l
	sugared = l.Sugar()
	zap.ReplaceGlobals(l)
	return nil
}

// L returns the global raw logger.
func L() *zap.Logger {
	return logger
}

// S returns the global sugared logger.
func S() *zap.SugaredLogger {
	return sugared
}

// Named returns a child of the global logger with the given name.
func Named(name string) *zap.Logger {
	return logger.Named(name)
}
