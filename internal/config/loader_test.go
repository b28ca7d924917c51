package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearFeedbackEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FEEDBACK_HTTP_PORT",
		"FEEDBACK_SQLITE_DSN",
		"FEEDBACK_ADMIN_USER",
		"FEEDBACK_ADMIN_PASSWORD_HASH",
		"FEEDBACK_ADMIN_PASSWORD",
		"FEEDBACK_SESSION_TTL",
		"FEEDBACK_EXPORT_TEXT_STYLE",
	} {
		// t.Setenv registers the restore, the unset gives each subtest a
		// clean slate.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearFeedbackEnv(t)
		t.Setenv("FEEDBACK_ADMIN_PASSWORD", "letmein")

		cfg, err := loadFromEnv()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:feedback.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.AdminUser != "admin" {
			t.Fatalf("expected default admin user, got %q", cfg.AdminUser)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected default session TTL, got %s", cfg.SessionTTL)
		}
		if cfg.ExportTextStyle != "tabular" {
			t.Fatalf("expected tabular export style, got %q", cfg.ExportTextStyle)
		}
		if cfg.AdminPassword != "letmein" {
			t.Fatalf("expected plaintext password passthrough, got %q", cfg.AdminPassword)
		}
	})

	t.Run("errors when no admin credential is configured", func(t *testing.T) {
		clearFeedbackEnv(t)

		_, err := loadFromEnv()
		if err == nil {
			t.Fatal("expected error when no admin credential is set")
		}
		if !strings.Contains(err.Error(), "FEEDBACK_ADMIN_PASSWORD_HASH or FEEDBACK_ADMIN_PASSWORD") {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reads explicit values", func(t *testing.T) {
		clearFeedbackEnv(t)
		t.Setenv("FEEDBACK_HTTP_PORT", "9090")
		t.Setenv("FEEDBACK_SQLITE_DSN", "file:/var/lib/feedback/feedback.db")
		t.Setenv("FEEDBACK_ADMIN_USER", "operator")
		t.Setenv("FEEDBACK_ADMIN_PASSWORD_HASH", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
		t.Setenv("FEEDBACK_SESSION_TTL", "45m")
		t.Setenv("FEEDBACK_EXPORT_TEXT_STYLE", "narrative")

		cfg, err := loadFromEnv()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/var/lib/feedback/feedback.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.AdminUser != "operator" {
			t.Fatalf("unexpected admin user: %q", cfg.AdminUser)
		}
		if !strings.HasPrefix(cfg.AdminPasswordHash, "$argon2id$") {
			t.Fatalf("unexpected password hash: %q", cfg.AdminPasswordHash)
		}
		if cfg.SessionTTL != 45*time.Minute {
			t.Fatalf("expected 45m TTL, got %s", cfg.SessionTTL)
		}
		if cfg.ExportTextStyle != "narrative" {
			t.Fatalf("expected narrative style, got %q", cfg.ExportTextStyle)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		cases := map[string]string{
			"FEEDBACK_HTTP_PORT":           "-1",
			"FEEDBACK_SESSION_TTL":         "soon",
			"FEEDBACK_EXPORT_TEXT_STYLE":   "xml",
			"FEEDBACK_ADMIN_PASSWORD_HASH": "plaintext",
		}
		for key, value := range cases {
			t.Run(key, func(t *testing.T) {
				clearFeedbackEnv(t)
				t.Setenv("FEEDBACK_ADMIN_PASSWORD", "letmein")
				t.Setenv(key, value)

				_, err := loadFromEnv()
				if err == nil {
					t.Fatalf("expected error for %s=%q", key, value)
				}
				if !strings.Contains(err.Error(), key) {
					t.Fatalf("expected error naming %s, got %q", key, err.Error())
				}
			})
		}
	})
}
