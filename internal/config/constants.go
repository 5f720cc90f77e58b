package config

const (
	// Browser Defaults
	DefaultBrowserDriver              = "rod"
	DefaultBrowserWindowWidth         = 1920
	DefaultBrowserWindowHeight        = 1080
	DefaultBrowserPageLoadTimeoutSecs = 30
	DefaultBrowserWaitAfterLoadMs     = 500
	DefaultBrowserPoolSize            = 1
	DefaultBrowserUserAgent           = "Mozilla/5.0 (compatible; axeaudit/1.0)"

	// Engine Defaults
	DefaultEngineSourceURL        = "https://cdnjs.cloudflare.com/ajax/libs/axe-core/4.10.2/axe.min.js"
	DefaultEngineFetchTimeoutSecs = 30
	DefaultEngineMaxSourceSizeMB  = 10

	// Audit Defaults
	DefaultAuditTimeoutSecs = 120

	// Reporter Defaults
	DefaultReporterFormat    = "console"
	DefaultReporterOutputDir = "reports/axe"
	DefaultReportTitle       = "Accessibility Audit Report"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// RunIDLayout stamps each invocation; log files land under runs/<id>/.
	RunIDLayout = "20060102-150405"

	// ConfigPathEnv overrides the config file search when the flag is not set.
	ConfigPathEnv = "AXEAUDIT_CONFIG"
)

// Supported browser drivers
const (
	DriverRod      = "rod"
	DriverChromedp = "chromedp"
)

// Supported report formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatHTML    = "html"
)
