// Package constants provides shared constants for the mortgage-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of fraction digits shown for currency
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// CurrencySymbol is the symbol prefixed to formatted amounts
	CurrencySymbol = "£"
)

// Repayment type constants, matching the values submitted by the form.
const (
	// RepaymentTypeRepayment selects the standard amortizing formula
	RepaymentTypeRepayment = "repayment"

	// RepaymentTypeInterestOnly selects the interest-only formula
	RepaymentTypeInterestOnly = "interest only"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML scenario files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimitCapacity is the default number of requests allowed per client per window
	DefaultRateLimitCapacity = 60

	// DefaultRateLimitWindow is the default refill window for the rate limiter
	DefaultRateLimitWindow = "1m"

	// CacheBackendMemory keeps calculation results in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps calculation results in Redis
	CacheBackendRedis = "redis"

	// CacheBackendNone disables result caching
	CacheBackendNone = "none"
)
