// Package logging builds the zap logger used by the command line tool.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger at level. development switches to the
// console encoder with caller and stack details. Output goes to stderr
// unless paths are given.
func New(level string, development bool, paths ...string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = lvl
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	config.OutputPaths = paths
	config.ErrorOutputPaths = paths

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Verbose lowers a level to debug when verbose is set.
func Verbose(level string, verbose bool) string {
	if verbose {
		return zapcore.DebugLevel.String()
	}
	return level
}
