package constants

// Application Information
const (
	AppName    = "Chronicle Content API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix  = "chronicle:"
	CacheKeyPages   = CacheKeyPrefix + "pages:"
	CacheKeySites   = CacheKeyPrefix + "sites:"
	SearchKeyPrefix = CacheKeyPrefix + "search:"
	SearchKeyTerm   = SearchKeyPrefix + "term:"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
