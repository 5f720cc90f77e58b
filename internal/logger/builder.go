package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/axeaudit/internal/common"
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config        LoggerConfig
	factory       *WriterFactory
	consoleOutput io.Writer
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:  DefaultLoggerConfig(),
		factory: NewWriterFactory(),
	}
}

// WithConfig sets the logger configuration from the application config
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	runID, noColor := lb.config.RunID, lb.config.NoColor
	lb.config = ConvertConfig(cfg)
	lb.config.RunID = runID
	lb.config.NoColor = lb.config.NoColor || noColor
	return lb
}

func (lb *LoggerBuilder) WithLevel(level zerolog.Level) *LoggerBuilder {
	lb.config.Level = level
	return lb
}

func (lb *LoggerBuilder) WithFormat(format LogFormat) *LoggerBuilder {
	lb.config.Format = format
	return lb
}

func (lb *LoggerBuilder) WithConsole(enabled bool) *LoggerBuilder {
	lb.config.EnableConsole = enabled
	return lb
}

// WithConsoleOutput redirects console output, stderr by default
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.consoleOutput = w
	return lb
}

func (lb *LoggerBuilder) WithFile(path string, maxSizeMB, maxBackups int) *LoggerBuilder {
	lb.config.EnableFile = path != ""
	lb.config.FilePath = path
	lb.config.MaxSizeMB = maxSizeMB
	lb.config.MaxBackups = maxBackups
	return lb
}

// WithNoColor strips colour from terminal output
func (lb *LoggerBuilder) WithNoColor(noColor bool) *LoggerBuilder {
	lb.config.NoColor = noColor
	return lb
}

// WithRunID sets the run ID used to organize log files per audit run
func (lb *LoggerBuilder) WithRunID(runID string) *LoggerBuilder {
	lb.config.RunID = runID
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if err := lb.validateConfig(); err != nil {
		return nil, err
	}

	writers, closers := lb.createWriters()
	if len(writers) == 0 {
		return nil, common.NewError("no output writers configured")
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	logCtx := zerolog.New(multiWriter).
		Level(lb.config.Level).
		With().
		Timestamp()
	if lb.config.RunID != "" {
		logCtx = logCtx.Str(RunIDField, lb.config.RunID)
	}
	zerologInstance := logCtx.Logger()

	lb.configureStandardLog(zerologInstance)

	return &Logger{
		zerolog: zerologInstance,
		config:  lb.config,
		closers: closers,
	}, nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return common.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}

	if lb.config.EnableFile && lb.config.MaxSizeMB <= 0 {
		return common.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}

	return nil
}

func (lb *LoggerBuilder) createWriters() ([]io.Writer, []io.Closer) {
	var writers []io.Writer
	var closers []io.Closer

	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config, lb.consoleOutput))
	}

	if lb.config.EnableFile {
		fileWriter, closer := lb.factory.CreateFileWriter(lb.config)
		writers = append(writers, fileWriter)
		closers = append(closers, closer)
	}

	return writers, closers
}

// configureStandardLog routes the standard library logger (used by some drivers) through zerolog
func (lb *LoggerBuilder) configureStandardLog(logger zerolog.Logger) {
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)
}
