package config

// Application constants
const (
	// Application Info
	AppName = "Startup Insights"

	// EnvPrefix namespaces every environment variable, e.g. STARTUP_DATA_FILE.
	EnvPrefix = "STARTUP"

	// File Paths (relative to the base directory)
	DefaultDataFile     = "startups_with_coordinates.csv"
	DefaultReportsDir   = "reports"
	DefaultChartsDir    = "reports/charts"
	DefaultLogsDir      = "logs"
	DefaultWorkbookFile = "startup_insights.xlsx"

	// MapFileName is the fixed output name of the interactive map export.
	MapFileName = "circle_marker_cluster_map.html"
)
