package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is built once at process
// start and passed explicitly into the components that need it.
type Config struct {
	ServerPort             int
	DatabasePath           string
	JWTSecret              []byte
	TokenTTL               time.Duration
	DefaultReminderMinutes int
	RequireVerification    bool // When set, login is refused until the email link is visited
	ResendAPIKey           string
	EmailFrom              string
	AppBaseURL             string // Used to build verification links
	ReminderCron           string // Cadence of the reminder scan, standard cron syntax
}

// ErrMissingJWTSecret is returned when JWT_SECRET is absent. Starting
// without a signing secret would invalidate every issued token, so this is
// treated as a fatal startup condition.
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is not set")

// Load loads configuration from the environment (and a .env file if one
// exists) or sets defaults.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is fine, real env wins anyway.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	ttlHours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, err
	}

	reminderMinutes, err := strconv.Atoi(getEnv("DEFAULT_REMINDER_MINUTES", "30"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:             port,
		DatabasePath:           getEnv("DATABASE_PATH", "./remindly.db"),
		JWTSecret:              []byte(secret),
		TokenTTL:               time.Duration(ttlHours) * time.Hour,
		DefaultReminderMinutes: reminderMinutes,
		RequireVerification:    getEnv("REQUIRE_VERIFICATION", "false") == "true",
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		EmailFrom:              getEnv("EMAIL_FROM", "Remindly <reminders@remindly.local>"),
		AppBaseURL:             getEnv("APP_BASE_URL", "http://localhost:8080"),
		ReminderCron:           getEnv("REMINDER_CRON", "*/5 * * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
