package logger

import (
	"io"

	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// Logger represents the main logger with configuration
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
	closers []io.Closer
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// GetConfig returns the configuration the logger was built with
func (l *Logger) GetConfig() LoggerConfig {
	return l.config
}

// Close releases file writers, if any
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New creates a new logger instance from the application config
func New(cfg config.LogConfig) (*Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}

// NewWithRunID creates a new logger whose file output is organized under the run ID
func NewWithRunID(cfg config.LogConfig, runID string) (*Logger, error) {
	return NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID(runID).
		Build()
}
