package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds every externally supplied setting. It is built once in main
// and passed into the packages that need it; nothing below main reads the
// environment directly.
type Config struct {
	Port        string
	DatabaseDSN string
	JWTSecret   string
	Domain      string

	AllowedOrigins []string

	// BypassGroupAuth disables the membership and admin gates on group
	// routes. Intended for local development against seed data only; it is
	// off unless BYPASS_GROUP_AUTH=true is set explicitly.
	BypassGroupAuth bool

	// CalendarLocation is the timezone used to compute calendar month
	// boundaries. Defaults to UTC.
	CalendarLocation *time.Location
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             os.Getenv("PORT"),
		DatabaseDSN:      os.Getenv("DATABASE_DSN"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		Domain:           os.Getenv("DOMAIN"),
		BypassGroupAuth:  os.Getenv("BYPASS_GROUP_AUTH") == "true",
		CalendarLocation: time.UTC,
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if tz := os.Getenv("CALENDAR_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid CALENDAR_TZ %q: %w", tz, err)
		}
		cfg.CalendarLocation = loc
	}

	cfg.AllowedOrigins = make([]string, len(defaultOrigins))
	copy(cfg.AllowedOrigins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	return cfg, nil
}
