/*
Package configs is responsible for loading and parsing the application's configuration settings.

All settings come from environment variables, parsed with envconfig. Defaults
target local development; production deployments set ENVIRONMENT and
ALLOWED_ORIGINS explicitly.
*/
package configs

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        int    `envconfig:"PORT" default:"8080"`

	// Security Settings
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	// WsConnectRate and WsConnectBurst bound how fast a single IP may open
	// WebSocket connections (token bucket, events per second / burst size).
	WsConnectRate  float64 `envconfig:"WS_CONNECT_RATE" default:"0.2"`
	WsConnectBurst int     `envconfig:"WS_CONNECT_BURST" default:"5"`

	// ProfanityWords overrides the built-in forbidden word list when set.
	ProfanityWords []string `envconfig:"PROFANITY_WORDS"`

	// StaticDir is the directory the client assets are served from.
	StaticDir string `envconfig:"STATIC_DIR" default:"public"`
}

// LoadConfig reads and validates the application configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment configuration: %w", err)
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (1024-65535) to avoid privileged ports", cfg.Port)
	}

	if cfg.Environment != "development" && len(cfg.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS environment variable is required in %s environment", cfg.Environment)
	}

	return cfg, nil
}
