package confs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port    string
	GinMode string

	// Database. Driver is "sqlite" (dev default) or "postgres".
	DBDriver   string
	DBURL      string // full DSN, wins over the individual parameters
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	JWTSecret string

	MQTTEnabled bool
	MQTTBroker  string
	MQTTPort    int

	UploadDir      string
	RollupInterval time.Duration
}

// Load reads .env if present and builds the typed config from the
// environment. The JWT secret is the only hard requirement.
func Load() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBURL:          os.Getenv("DB_URL"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		SQLitePath:     getEnv("SQLITE_PATH", "smartdrishti.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MQTTEnabled:    getEnvBool("MQTT_ENABLED", true),
		MQTTBroker:     getEnv("MQTT_BROKER", "localhost"),
		MQTTPort:       getEnvInt("MQTT_PORT", 1883),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		RollupInterval: getEnvDuration("ROLLUP_INTERVAL", 15*time.Minute),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
