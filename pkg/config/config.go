package config

import (
	"os"
	"strconv"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port                    string
	Env                     string
	StorageBackend          string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	FirebaseCredentialsPath string
	ModerationEnabled       bool
	PostMaxLength           int
	TimelinePageSize        int
}

// Load reads the configuration from environment variables, applying defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		StorageBackend:          getEnv("STORAGE_BACKEND", "memory"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DB", "plantlife"),
		JWTSecret:               getEnv("JWT_SECRET", "dev-secret-change-me"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		ModerationEnabled:       getEnvBool("MODERATION_ENABLED", true),
		PostMaxLength:           getEnvInt("POST_MAX_LENGTH", 500),
		TimelinePageSize:        getEnvInt("TIMELINE_PAGE_SIZE", 50),
	}
}

// IsDevelopment reports whether the server runs in development mode, which
// relaxes things like OTP delivery.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
