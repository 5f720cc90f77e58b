package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/axeaudit/internal/common"
	"gopkg.in/yaml.v3"
)

// maxConfigFileSize caps the size of a config file accepted by the loader.
const maxConfigFileSize = 10 * 1024 * 1024

type GlobalConfig struct {
	AuditConfig    AuditConfig    `json:"audit_config,omitempty" yaml:"audit_config,omitempty"`
	BrowserConfig  BrowserConfig  `json:"browser_config,omitempty" yaml:"browser_config,omitempty"`
	EngineConfig   EngineConfig   `json:"engine_config,omitempty" yaml:"engine_config,omitempty"`
	LogConfig      LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ReporterConfig ReporterConfig `json:"reporter_config,omitempty" yaml:"reporter_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		AuditConfig:    NewDefaultAuditConfig(),
		BrowserConfig:  NewDefaultBrowserConfig(),
		EngineConfig:   NewDefaultEngineConfig(),
		LogConfig:      NewDefaultLogConfig(),
		ReporterConfig: NewDefaultReporterConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// YAML is used when the file extension is .yaml or .yml, JSON otherwise.
// With no file found the defaults are returned.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	data, err := loadConfigFileContent(filePath)
	if err != nil {
		return nil, err
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// loadConfigFileContent reads the config file, refusing directories and oversized files
func loadConfigFileContent(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
		}
		return nil, common.WrapError(err, "failed to stat config file")
	}
	if info.IsDir() {
		return nil, common.NewValidationError("config_file", filePath, "config path is a directory")
	}
	if info.Size() > maxConfigFileSize {
		return nil, common.NewValidationError("config_file", filePath, "config file is too large")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}
	return data, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// BrowserConfig controls how pages are opened before an audit.
type BrowserConfig struct {
	Driver              string   `json:"driver,omitempty" yaml:"driver,omitempty" validate:"omitempty,driver"`
	ChromePath          string   `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	UserDataDir         string   `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	Headless            bool     `json:"headless" yaml:"headless"`
	WindowWidth         int      `json:"window_width,omitempty" yaml:"window_width,omitempty" validate:"omitempty,min=100"`
	WindowHeight        int      `json:"window_height,omitempty" yaml:"window_height,omitempty" validate:"omitempty,min=100"`
	PageLoadTimeoutSecs int      `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"omitempty,min=1"`
	WaitAfterLoadMs     int      `json:"wait_after_load_ms,omitempty" yaml:"wait_after_load_ms,omitempty" validate:"omitempty,min=0"`
	IgnoreHTTPSErrors   bool     `json:"ignore_https_errors" yaml:"ignore_https_errors"`
	PoolSize            int      `json:"pool_size,omitempty" yaml:"pool_size,omitempty" validate:"omitempty,min=1"`
	UserAgent           string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	BrowserArgs         []string `json:"browser_args,omitempty" yaml:"browser_args,omitempty"`
}

func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Driver:              DefaultBrowserDriver,
		Headless:            true,
		WindowWidth:         DefaultBrowserWindowWidth,
		WindowHeight:        DefaultBrowserWindowHeight,
		PageLoadTimeoutSecs: DefaultBrowserPageLoadTimeoutSecs,
		WaitAfterLoadMs:     DefaultBrowserWaitAfterLoadMs,
		IgnoreHTTPSErrors:   false,
		PoolSize:            DefaultBrowserPoolSize,
		UserAgent:           DefaultBrowserUserAgent,
		BrowserArgs:         []string{},
	}
}

// EngineConfig tells where the axe-core script comes from. SourcePath wins over SourceURL.
type EngineConfig struct {
	SourcePath       string `json:"source_path,omitempty" yaml:"source_path,omitempty" validate:"omitempty,fileexists"`
	SourceURL        string `json:"source_url,omitempty" yaml:"source_url,omitempty" validate:"omitempty,url"`
	FetchTimeoutSecs int    `json:"fetch_timeout_secs,omitempty" yaml:"fetch_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxSourceSizeMB  int    `json:"max_source_size_mb,omitempty" yaml:"max_source_size_mb,omitempty" validate:"omitempty,min=1"`
	// Proxy and InsecureSkipVerify apply to the SourceURL download only.
	Proxy              string `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

func NewDefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SourcePath:       "",
		SourceURL:        DefaultEngineSourceURL,
		FetchTimeoutSecs: DefaultEngineFetchTimeoutSecs,
		MaxSourceSizeMB:  DefaultEngineMaxSourceSizeMB,
	}
}

// AuditConfig holds knobs applied around each audit call.
type AuditConfig struct {
	TimeoutSecs int `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	// ConfigurationFile is a JSON object handed to axe.configure before the run.
	ConfigurationFile string `json:"configuration_file,omitempty" yaml:"configuration_file,omitempty" validate:"omitempty,fileexists"`
	ResetBeforeRun    bool   `json:"reset_before_run" yaml:"reset_before_run"`
}

func NewDefaultAuditConfig() AuditConfig {
	return AuditConfig{
		TimeoutSecs:       DefaultAuditTimeoutSecs,
		ConfigurationFile: "",
		ResetBeforeRun:    false,
	}
}

type ReporterConfig struct {
	Format      string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,reportformat"`
	OutputDir   string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	ReportTitle string `json:"report_title,omitempty" yaml:"report_title,omitempty"`
	NoColor     bool   `json:"no_color" yaml:"no_color"`
}

func NewDefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		Format:      DefaultReporterFormat,
		OutputDir:   DefaultReporterOutputDir,
		ReportTitle: DefaultReportTitle,
		NoColor:     false,
	}
}

type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty" validate:"omitempty,min=0"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty" validate:"omitempty,min=1"`
}

func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile, // stderr only
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}
