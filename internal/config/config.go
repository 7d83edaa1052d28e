package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Firebase / Firestore
	FirebaseAPIKey            string
	FirebaseAuthDomain        string
	FirebaseProjectID         string
	FirebaseStorageBucket     string
	FirebaseMessagingSenderID string
	FirebaseAppID             string
	FirebaseMeasurementID     string
	FirebaseAccessToken       string
	FirestoreBaseURL          string

	// Collection
	OutputDir       string
	RequestMinDelay time.Duration

	// Archive
	StorageType string // "none", "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort string
	APIHost string

	// CLI
	APIEndpoint string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	delay, err := time.ParseDuration(getEnv("REQUEST_MIN_DELAY", "0s"))
	if err != nil {
		return nil, &ConfigError{Field: "REQUEST_MIN_DELAY", Message: "must be a duration such as 250ms"}
	}

	return &Config{
		FirebaseAPIKey:            getEnv("FIREBASE_API_KEY", ""),
		FirebaseAuthDomain:        getEnv("FIREBASE_AUTH_DOMAIN", ""),
		FirebaseProjectID:         getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseStorageBucket:     getEnv("FIREBASE_STORAGE_BUCKET", ""),
		FirebaseMessagingSenderID: getEnv("FIREBASE_MESSAGING_SENDER_ID", ""),
		FirebaseAppID:             getEnv("FIREBASE_APP_ID", ""),
		FirebaseMeasurementID:     getEnv("FIREBASE_MEASUREMENT_ID", ""),
		FirebaseAccessToken:       getEnv("FIREBASE_ACCESS_TOKEN", ""),
		FirestoreBaseURL:          getEnv("FIRESTORE_BASE_URL", "https://firestore.googleapis.com/v1"),
		OutputDir:                 getEnv("OUTPUT_DIR", "."),
		RequestMinDelay:           delay,
		StorageType:               getEnv("STORAGE_TYPE", "none"),
		SQLitePath:                getEnv("SQLITE_PATH", "./ops.db"),
		PostgresURL:               getEnv("POSTGRES_URL", ""),
		APIPort:                   getEnv("API_PORT", "8080"),
		APIHost:                   getEnv("API_HOST", "localhost"),
		APIEndpoint:               getEnv("API_ENDPOINT", "http://localhost:8080"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		LogFormat:                 getEnv("LOG_FORMAT", "console"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the archive settings. Firebase settings are checked
// by the name resolver on first use.
func (c *Config) Validate() error {
	switch c.StorageType {
	case "none", "sqlite", "postgres":
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'none', 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	return nil
}

// ArchiveEnabled reports whether runs are archived
func (c *Config) ArchiveEnabled() bool {
	return c.StorageType == "sqlite" || c.StorageType == "postgres"
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
