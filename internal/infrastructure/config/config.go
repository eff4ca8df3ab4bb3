// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Reservations
	ConfirmationNumbers []string
	FirstName           string
	LastName            string

	// Scheduling
	PollInterval  time.Duration
	CheckInOffset time.Duration
	SameDayBuffer time.Duration
	CheckFares    string

	// Airline API
	APIBaseURL string

	// Notifications
	NotificationURL string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (airport timezone table)
	PostgresDSN string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		ConfirmationNumbers: getEnvAsList("CONFIRMATION_NUMBERS"),
		FirstName:           getEnv("PASSENGER_FIRST_NAME", ""),
		LastName:            getEnv("PASSENGER_LAST_NAME", ""),

		PollInterval:  time.Duration(getEnvAsInt("POLL_INTERVAL", 600)) * time.Second,
		CheckInOffset: time.Duration(getEnvAsInt("CHECKIN_OFFSET_HOURS", 24)) * time.Hour,
		SameDayBuffer: time.Duration(getEnvAsInt("SAME_DAY_BUFFER_MINUTES", 5)) * time.Minute,
		CheckFares:    getEnv("CHECK_FARES", "no"),

		APIBaseURL: getEnv("API_BASE_URL", "https://mobile.southwest.com/api"),

		NotificationURL: getEnv("NOTIFICATION_URL", ""),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "checkin"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
