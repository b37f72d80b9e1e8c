package storage

import (
	"fmt"
	"os"
)

// Env maps environment variable names to storage configuration fields.
type Env struct {
	ConnectionString string
	ContainerName    string
}

// Config defines blob storage configuration.
type Config struct {
	ConnectionString string `toml:"connection_string"`
	ContainerName    string `toml:"container_name"`
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
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

	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}

	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "deal-documents"
	}
}

func (c *Config) loadEnv(env *Env) {
	if value := os.Getenv(env.ConnectionString); value != "" {
		c.ConnectionString = value
	}

	if value := os.Getenv(env.ContainerName); value != "" {
		c.ContainerName = value
	}
}

func (c *Config) validate() error {
	if c.ConnectionString == "" {
		return fmt.Errorf("storage connection string is required")
	}

	return nil
}
