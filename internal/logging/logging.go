// Package logging configures the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity selects how much of the run is logged.
type Verbosity int

const (
	// Default logs warnings and errors.
	Default Verbosity = iota
	// Verbose raises the level to info.
	Verbose
	// Quiet logs errors only.
	Quiet
)

// Init installs the global logger. It is safe to call more than once; each
// call replaces the previously installed logger. When logfile is empty,
// output goes to stderr.
func Init(v Verbosity, logfile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	switch v {
	case Verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case Quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	if logfile != "" {
		cfg.OutputPaths = []string{logfile}
		cfg.ErrorOutputPaths = []string{logfile}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
