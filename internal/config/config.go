// Package config loads all environment-based configuration.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// secretMinLen is the minimum length for the JWT and time-token secrets.
// Shorter secrets do not give HMAC-SHA256 enough entropy to resist
// brute force.
const secretMinLen = 16

// Config holds all environment-based configuration for the server.
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	DBPath    string `env:"DB_PATH" envDefault:"contributor-cards.db"`
	StaticDir string `env:"STATIC_DIR" envDefault:"web/static"`

	// BaseURL is the public address the OAuth providers redirect back to.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// FrontendOrigin is where the browser lands after a completed login.
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:8080"`

	// CORSOrigins is a comma-separated list of origins allowed to make
	// credentialed cross-origin requests.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	OhMyGPTClientID     string `env:"OHMYGPT_CLIENT_ID"`
	OhMyGPTClientSecret string `env:"OHMYGPT_CLIENT_SECRET"`

	// JWTSecret signs session credentials; TokenSecret derives the
	// time tokens for the internal lookup endpoint. They are separate
	// so one can rotate without invalidating the other.
	JWTSecret   string `env:"JWT_SECRET"`
	TokenSecret string `env:"TOKEN_SECRET"`

	// Environment controls log format and cookie security.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"GITHUB_CLIENT_ID":      c.GitHubClientID,
		"GITHUB_CLIENT_SECRET":  c.GitHubClientSecret,
		"OHMYGPT_CLIENT_ID":     c.OhMyGPTClientID,
		"OHMYGPT_CLIENT_SECRET": c.OhMyGPTClientSecret,
		"JWT_SECRET":            c.JWTSecret,
		"TOKEN_SECRET":          c.TokenSecret,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		// Map iteration order is random; sort for a stable message.
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if len(c.JWTSecret) < secretMinLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", secretMinLen)
	}
	if len(c.TokenSecret) < secretMinLen {
		return fmt.Errorf("TOKEN_SECRET must be at least %d characters", secretMinLen)
	}

	return nil
}

// CallbackURL returns the redirect URI registered with a provider.
func (c *Config) CallbackURL(provider string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/auth/" + provider + "/callback"
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
