package config

import (
	"os"
	"testing"
	"time"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it switches the working
// directory for the rest of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Chdir restore: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	unset(t, "PORT", "TZ", "DB_DRIVER", "DB_PATH", "WEATHER_API_KEY", "WEATHER_TIMEOUT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" || cfg.DBPath != "soil.db" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.WeatherTimeout != 10*time.Second {
		t.Errorf("WeatherTimeout = %v", cfg.WeatherTimeout)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location = %v", cfg.Location())
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	unset(t, "DB_DRIVER")
	t.Setenv("PORT", "9090")
	t.Setenv("TZ", "Asia/Kolkata")
	t.Setenv("WEATHER_API_KEY", "secret")
	t.Setenv("WEATHER_TIMEOUT", "3s")
	t.Setenv("LOG_DEV", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || !cfg.LogDev || cfg.WeatherTimeout != 3*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Location().String() != "Asia/Kolkata" {
		t.Errorf("Location = %v", cfg.Location())
	}
	if r := cfg.Redacted(); r.WeatherAPIKey != "***" || cfg.WeatherAPIKey != "secret" {
		t.Errorf("Redacted = %q, original = %q", r.WeatherAPIKey, cfg.WeatherAPIKey)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TZ", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown timezone")
	}

	t.Setenv("TZ", "UTC")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}

	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
