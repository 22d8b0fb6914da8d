package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the local application configuration, loaded from environment
// variables. Remote, admin-editable settings live in SiteConfig instead.
type Config struct {
	// APIBaseURL is the root of the remote GestióGastos API,
	// e.g. http://localhost:8000/api.
	APIBaseURL string
	// HTTPTimeout bounds every gateway call.
	HTTPTimeout time.Duration

	DefaultLanguage string
	DefaultTheme    string

	// ViewTablePath optionally points at a YAML override of the
	// view permission table.
	ViewTablePath string

	// LoginEmail and LoginPassword seed the initial login performed by the
	// entry point. Empty means start unauthenticated.
	LoginEmail    string
	LoginPassword string
}

// Load reads the configuration from the environment, logging and falling
// back to defaults for anything unset or malformed.
func Load() *Config {
	cfg := &Config{
		APIBaseURL:      os.Getenv("GESTIO_API_URL"),
		DefaultLanguage: os.Getenv("GESTIO_LANGUAGE"),
		DefaultTheme:    os.Getenv("GESTIO_THEME"),
		ViewTablePath:   os.Getenv("GESTIO_VIEW_TABLE"),
		LoginEmail:      os.Getenv("GESTIO_LOGIN_EMAIL"),
		LoginPassword:   os.Getenv("GESTIO_LOGIN_PASSWORD"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000/api"
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "es"
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = "light"
	}

	cfg.HTTPTimeout = 10 * time.Second
	if raw := os.Getenv("GESTIO_HTTP_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			log.Printf("Invalid GESTIO_HTTP_TIMEOUT_SECONDS %q, using default 10s", raw)
		} else {
			cfg.HTTPTimeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg
}
