package slogutil

import (
	"io"
	"log/slog"
	"os"

	"karmad/internal/config"
)

// NewFromConfig builds the process logger from the logging config and CLI
// verbosity flags. It always logs to stderr at the verbosity-derived level;
// when a log file is configured it tees into that file at the configured
// file level, with rotation if a max size is set.
//
// The returned Closer owns the log file (nil when logging only to stderr).
func NewFromConfig(cfg config.LoggingConfig, verbosity int, quiet bool) (*slog.Logger, io.Closer, error) {
	stderrHandler := NewFlatHandler(os.Stderr, &slog.HandlerOptions{
		Level: LevelFromVerbosity(verbosity, quiet),
	})

	if cfg.File == "" {
		return slog.New(stderrHandler), nil, nil
	}

	fileLogger, closer, err := NewFileLoggerWithRotation(
		cfg.File, LevelFromString(cfg.Level), cfg.MaxSize, cfg.MaxBackups, cfg.Compress)
	if err != nil {
		return nil, nil, err
	}

	return NewTeeLogger(stderrHandler, fileLogger.Handler()), closer, nil
}
