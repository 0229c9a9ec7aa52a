package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Timezone       string        `env:"TZ" envDefault:"UTC"`
	DBDriver       string        `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite|postgres
	DBPath         string        `env:"DB_PATH" envDefault:"soil.db"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	WeatherAPIKey  string        `env:"WEATHER_API_KEY"`
	WeatherBaseURL string        `env:"WEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5/weather"`
	WeatherTimeout time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`
	StaticDir      string        `env:"STATIC_DIR" envDefault:"static"`
	ImportPath     string        `env:"IMPORT_PATH"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogDev         bool          `env:"LOG_DEV" envDefault:"false"`

	loc *time.Location
}

func Load() (AppConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return AppConfig{}, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return AppConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return AppConfig{}, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc
	return cfg, nil
}

// Location is the timezone used for "today" (default reading date, export
// filenames). Falls back to UTC on a zero config.
func (c AppConfig) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	if c.WeatherAPIKey != "" {
		c.WeatherAPIKey = "***"
	}
	if c.DatabaseURL != "" {
		c.DatabaseURL = "***"
	}
	return c
}
