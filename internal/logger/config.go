package logger

import "github.com/rs/zerolog"

// LoggerConfig is the resolved logger setup derived from config.LogConfig.
type LoggerConfig struct {
	Level  zerolog.Level
	Format LogFormat
	// NoColor strips ANSI codes from terminal output. Files are always plain.
	NoColor bool

	EnableConsole bool
	EnableFile    bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int

	// RunID is attached to every event as RunIDField. With UseSubdirs the
	// log file moves to <dir>/runs/<RunID>/.
	RunID      string
	UseSubdirs bool
}

// LogFormat names an output encoding as it appears in config files.
type LogFormat string

const (
	FormatJSON    LogFormat = "json"
	FormatConsole LogFormat = "console"
	FormatText    LogFormat = "text"
)

func (lf LogFormat) String() string {
	if lf == "" {
		return string(FormatConsole)
	}
	return string(lf)
}

// DefaultLoggerConfig logs info and above to a coloured terminal.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:         zerolog.InfoLevel,
		Format:        FormatConsole,
		EnableConsole: true,
		MaxSizeMB:     100,
		MaxBackups:    3,
		UseSubdirs:    true,
	}
}
