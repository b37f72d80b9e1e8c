package auth

import (
	"fmt"
	"os"
)

// Env maps environment variable names to auth configuration fields.
type Env struct {
	Issuer   string
	ClientID string
}

// Config defines OIDC verification settings.
type Config struct {
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
}

// Finalize applies environment overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overlays non-zero values from overlay onto c.
func (c *Config) Merge(overlay *Config) {
	if overlay == nil {
		return
	}

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}

	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

func (c *Config) loadEnv(env *Env) {
	if value := os.Getenv(env.Issuer); value != "" {
		c.Issuer = value
	}

	if value := os.Getenv(env.ClientID); value != "" {
		c.ClientID = value
	}
}

func (c *Config) validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("auth issuer is required")
	}

	if c.ClientID == "" {
		return fmt.Errorf("auth client id is required")
	}

	return nil
}
