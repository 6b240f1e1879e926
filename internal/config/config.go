package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Remote institute API
	APIBaseURL string
	APITimeout time.Duration

	// Session / snapshot cache
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration
	SnapshotTTL   time.Duration

	// Conflict checking
	ConflictDebounce time.Duration

	// Planning grid
	PlanningDayStart string
	PlanningDayEnd   string
	SlotMinutes      int
	SlotHeightPx     int
	MinBandHeightPx  int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		APIBaseURL: getEnv("API_BASE_URL", "https://api.leregarddemanon.fr"),
		APITimeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		SnapshotTTL:   getEnvAsDuration("SNAPSHOT_TTL", 15*time.Minute),

		ConflictDebounce: getEnvAsDuration("CONFLICT_DEBOUNCE", 300*time.Millisecond),

		PlanningDayStart: getEnv("PLANNING_DAY_START", "08:00"),
		PlanningDayEnd:   getEnv("PLANNING_DAY_END", "20:00"),
		SlotMinutes:      getEnvAsInt("SLOT_MINUTES", 30),
		SlotHeightPx:     getEnvAsInt("SLOT_HEIGHT_PX", 48),
		MinBandHeightPx:  getEnvAsInt("MIN_BAND_HEIGHT_PX", 18),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
