package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the feedback service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	AdminUser         string
	AdminPasswordHash string
	AdminPassword     string
	SessionTTL        time.Duration
	ExportTextStyle   string
}

// Load reads an optional .env file and parses configuration values from the
// current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values, and reports every missing or invalid entry at once.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadFromEnv()
}

func loadFromEnv() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:feedback.db",
		AdminUser:       "admin",
		SessionTTL:      12 * time.Hour,
		ExportTextStyle: "tabular",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("FEEDBACK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "FEEDBACK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("FEEDBACK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if user := strings.TrimSpace(os.Getenv("FEEDBACK_ADMIN_USER")); user != "" {
		cfg.AdminUser = user
	}

	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("FEEDBACK_ADMIN_PASSWORD_HASH"))
	cfg.AdminPassword = os.Getenv("FEEDBACK_ADMIN_PASSWORD")
	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "" {
		missing = append(missing, "FEEDBACK_ADMIN_PASSWORD_HASH or FEEDBACK_ADMIN_PASSWORD")
	}
	if cfg.AdminPasswordHash != "" && !strings.HasPrefix(cfg.AdminPasswordHash, "$argon2id$") {
		invalid = append(invalid, "FEEDBACK_ADMIN_PASSWORD_HASH")
	}

	if ttlValue := strings.TrimSpace(os.Getenv("FEEDBACK_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "FEEDBACK_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if style := strings.TrimSpace(os.Getenv("FEEDBACK_EXPORT_TEXT_STYLE")); style != "" {
		switch style {
		case "tabular", "narrative":
			cfg.ExportTextStyle = style
		default:
			invalid = append(invalid, "FEEDBACK_EXPORT_TEXT_STYLE")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables hold invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
