// Package constants provides shared constants for the finance-ratios application.
package constants

// Ratio computation constants
const (
	// QuartersPerYear annualizes quarterly flow figures.
	QuartersPerYear = 4
	// DaysPerYear converts turnover ratios into day counts.
	DaysPerYear = 365
	// ImputedInterestRate is applied to long-term debt when no interest
	// expense is reported.
	ImputedInterestRate = 0.05
	// ImputedDepreciationRate is applied to operating income when no
	// depreciation is reported for EV/EBITDA.
	ImputedDepreciationRate = 0.10
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
	// RatioTolerance is the tolerance for comparing computed ratios.
	RatioTolerance = 1e-9
)

// Health rating thresholds, inclusive lower bounds on the 0-100 score.
const (
	ExcellentThreshold = 80.0
	GoodThreshold      = 60.0
	FairThreshold      = 40.0
)

// Data quality constants
const (
	// MissingValuePenalty is subtracted per missing cell.
	MissingValuePenalty = 5.0
	// MaxMissingPenalty caps the missing-value penalty.
	MaxMissingPenalty = 50.0
	// OutlierPenalty is subtracted per outlier cell.
	OutlierPenalty = 2.0
	// MaxOutlierPenalty caps the outlier penalty.
	MaxOutlierPenalty = 30.0
	// OutlierIQRMultiplier is the Tukey fence multiplier.
	OutlierIQRMultiplier = 1.5
	// CurrencyTolerance is the tolerance for accounting identities (one unit).
	CurrencyTolerance = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"
	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
	// OutputFormatMarkdown is the Markdown report format
	OutputFormatMarkdown = "markdown"
	// OutputFormatHTML is the HTML report format
	OutputFormatHTML = "html"
	// OutputFormatPDF is the PDF report format
	OutputFormatPDF = "pdf"
	// OutputFormatXLSX is the Excel workbook format
	OutputFormatXLSX = "xlsx"
)

// OutputFormats lists every supported output format in display order.
var OutputFormats = []string{
	OutputFormatPretty,
	OutputFormatCSV,
	OutputFormatJSON,
	OutputFormatMarkdown,
	OutputFormatHTML,
	OutputFormatPDF,
	OutputFormatXLSX,
}

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
	// DefaultPasswordEnv names the environment variable holding the SMTP password.
	DefaultPasswordEnv = "SMTP_PASSWORD"
	// DefaultSMTPPort is the submission port used when none is configured.
	DefaultSMTPPort = 587
	// DefaultDecimalPlaces is the number of decimals shown for ratios.
	DefaultDecimalPlaces = 3
	// DefaultReportTitle heads generated reports.
	DefaultReportTitle = "Financial Ratio Analysis Report"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"
	// DefaultMaxUploadSizeBytes is the default maximum upload size for CSV data (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024
)
