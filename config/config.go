package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the typed settings the server needs at startup.
type Config struct {
	Port           string
	DBDriver       string
	DatabaseURL    string
	SQLitePath     string
	MaxImportBytes int64
	LoginRateLimit int
	FrontendURL    string
	AdminURL       string
}

func LoadEnv() error {
	// A .env file is optional; deployed environments set variables directly.
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// Load reads the configuration from the environment, falling back to the
// defaults below for anything unset.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("SQLITE_PATH", "seatsync.db")
	v.SetDefault("MAX_IMPORT_BYTES", 5<<20)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)

	return &Config{
		Port:           v.GetString("PORT"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		MaxImportBytes: v.GetInt64("MAX_IMPORT_BYTES"),
		LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),
		FrontendURL:    v.GetString("FRONTEND_URL"),
		AdminURL:       v.GetString("ADMIN_URL"),
	}
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	cfg := Load()

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: use %q or %q", cfg.DBDriver, DriverPostgres, DriverSQLite)
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if cfg.MaxImportBytes <= 0 {
		return fmt.Errorf("MAX_IMPORT_BYTES must be positive, got %d", cfg.MaxImportBytes)
	}

	if cfg.DBDriver == DriverSQLite {
		log.Printf("WARNING: DB_DRIVER=sqlite, using %s (intended for development only)", cfg.SQLitePath)
	}
	if cfg.FrontendURL == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_PASSWORD") == "" {
		log.Println("WARNING: ADMIN_PASSWORD not set - default admin will use the built-in password")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
