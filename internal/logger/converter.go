package logger

import (
	"github.com/aleister1102/axeaudit/internal/config"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

// ConvertConfig converts application config to logger config
func ConvertConfig(cfg config.LogConfig) LoggerConfig {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		NoColor:       termenv.EnvNoColor(),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     orDefault(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups:    orDefault(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
		UseSubdirs:    true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
