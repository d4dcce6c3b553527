// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvDBHost is the environment variable for the database host
	EnvDBHost = "DB_HOST"
	// EnvDBUser is the environment variable for the database user
	EnvDBUser = "DB_USER"
	// EnvDBPassword is the environment variable for the database password
	EnvDBPassword = "DB_PASSWORD"
	// EnvDBName is the environment variable for the database name
	EnvDBName = "DB_NAME"
	// EnvDBPort is the environment variable for the database port
	EnvDBPort = "DB_PORT"

	// EnvPort is the environment variable for the API listen port
	EnvPort = "PORT"
	// EnvLogLevel is the environment variable for the log level
	EnvLogLevel = "LOG_LEVEL"

	// EnvHiggsfieldAPIKey is the environment variable for the Higgsfield API key
	EnvHiggsfieldAPIKey = "HIGGSFIELD_API_KEY"
	// EnvHiggsfieldAPIURL is the environment variable for the Higgsfield API base URL
	EnvHiggsfieldAPIURL = "HIGGSFIELD_API_URL"
	// EnvTopviewAPIKey is the environment variable for the TopView API key
	EnvTopviewAPIKey = "TOPVIEW_API_KEY"
	// EnvTopviewAPIURL is the environment variable for the TopView API base URL
	EnvTopviewAPIURL = "TOPVIEW_API_URL"
	// EnvWebhookBaseURL is the environment variable for the externally reachable
	// base URL providers deliver callbacks to
	EnvWebhookBaseURL = "WEBHOOK_BASE_URL"

	// EnvServerAddress is the environment variable the CLI reads for the
	// target API server address
	EnvServerAddress = "ADPULSE_SERVER_ADDRESS"
)
