package logging

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"github.com/xaitan80/minihttpd/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger from cfg. Logs go to stderr, or to a
// rotating file when file logging is on (plus stderr in debug mode). The
// returned closer releases the log file.
func New(cfg config.LogConfig, debug bool) (zerolog.Logger, io.Closer) {
	debug = debug || cfg.Debug
	if !cfg.LogToFile {
		return NewLogger(debug, os.Stderr), nopCloser{}
	}

	fileLogger := &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}

	var output io.Writer = fileLogger
	if debug {
		output = io.MultiWriter(fileLogger, os.Stderr)
	}
	return NewLogger(debug, output), fileLogger
}

// NewLogger creates a new zerolog logger with the specified debug level
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithComponent returns a logger with the component field set
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
