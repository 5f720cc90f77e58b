package logger

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterFactory creates writers based on format
type WriterFactory struct {
	strategies map[LogFormat]WriterStrategy
}

// NewWriterFactory creates a new writer factory
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    jsonStrategy{},
			FormatConsole: terminalLines,
			FormatText:    terminalText,
		},
	}
}

// CreateConsoleWriter wraps out (stderr when nil) for terminal output
func (wf *WriterFactory) CreateConsoleWriter(config LoggerConfig, out io.Writer) io.Writer {
	if out == nil {
		out = os.Stderr
	}
	strategy, exists := wf.strategies[config.Format]
	if !exists {
		strategy = terminalLines
	}
	return strategy.CreateWriter(out, config.NoColor)
}

// CreateFileWriter creates a rotating file writer. The returned closer releases the file.
func (wf *WriterFactory) CreateFileWriter(config LoggerConfig) (io.Writer, io.Closer) {
	finalPath := wf.buildLogPath(config)

	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		finalPath = config.FilePath
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   finalPath,
		MaxSize:    config.MaxSizeMB,
		LocalTime:  true,
		MaxBackups: config.MaxBackups,
	}

	if config.Format == FormatJSON {
		return jsonStrategy{}.CreateWriter(lumberjackLogger, true), lumberjackLogger
	}
	return fileLines.CreateWriter(lumberjackLogger, true), lumberjackLogger
}

// buildLogPath constructs the final log file path with the run subdirectory if enabled
func (wf *WriterFactory) buildLogPath(config LoggerConfig) string {
	if !config.UseSubdirs || config.RunID == "" {
		return config.FilePath
	}

	baseDir := filepath.Dir(config.FilePath)
	fileName := filepath.Base(config.FilePath)
	return filepath.Join(baseDir, "runs", config.RunID, fileName)
}
