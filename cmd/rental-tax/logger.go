package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/rental-tax/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logConfigs maps the logging.format values to their zap base configuration.
var logConfigs = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// initializeLogger builds the CLI logger. A non-empty --log-level replaces the
// configured level.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	name := loggingConfig.Level
	if logLevelOverride != "" {
		name = logLevelOverride
	}
	level, err := logLevel(name)
	if err != nil {
		return nil, err
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}
	newConfig, ok := logConfigs[format]
	if !ok {
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig := newConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if path := loggingConfig.OutputFile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
		}
		zapConfig.OutputPaths = []string{path}
		zapConfig.ErrorOutputPaths = []string{path}
	}

	return zapConfig.Build()
}

// logLevel parses a level name, defaulting to info. Levels above error are
// rejected since they would turn ordinary log calls into panics or exits.
func logLevel(name string) (zapcore.Level, error) {
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil || level > zapcore.ErrorLevel {
		return level, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}
