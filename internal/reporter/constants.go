package reporter

const (
	// Embedded asset paths
	DefaultReportTemplateName = "report.html.tmpl"
	EmbeddedTemplatePath      = "templates/report.html.tmpl"
	EmbeddedCSSPath           = "assets/css/report.css"

	// Report file extensions
	JSONExtension = ".json"
	HTMLExtension = ".html"

	// File permissions
	DirPermissions  = 0755
	FilePermissions = 0644

	// Console and HTML rendering
	MaxElementLabelLength = 80
	GeneratedAtLayout     = "2006-01-02 15:04:05"
	fileTimestampLayout   = "20060102-150405"
)

// Impact levels reported by the engine, most severe first.
const (
	ImpactCritical = "critical"
	ImpactSerious  = "serious"
	ImpactModerate = "moderate"
	ImpactMinor    = "minor"
)
