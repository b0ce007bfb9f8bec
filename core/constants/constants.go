package constants

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Scheduling defaults
const (
	DefaultGridStepMinutes = 30
	DefaultMaxResults      = 10
	DefaultSearchDays      = 7
)
