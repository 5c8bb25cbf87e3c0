package config

// Default values for configuration.
const (
	// Telegram defaults.
	// Идентификаторы приложения MTProto; могут быть переопределены в конфиге.
	DefaultAPIID       = 27161938
	DefaultAPIHash     = "25540bdf9a27dc0da066770a1d5b12c5"
	DefaultSessionFile = "session.json"

	// Database defaults
	DefaultDatabasePath = "db.sqlite3"

	// Report defaults
	DefaultFetchTimeoutSeconds = 60
	DefaultPidFile             = "residents-admin-table.pid"
	DefaultLogFile             = "residents-admin-table.log"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)
