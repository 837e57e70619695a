package speech

import (
	"fmt"
	"os"

	"github.com/ledgercast/ledgercast/internal/pipeline"
)

// Config holds speech synthesis connection parameters.
type Config struct {
	Endpoint       string `toml:"endpoint"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	Format         string `toml:"format"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Endpoint string
	APIKey   string
	Model    string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.Endpoint == "" {
		c.Endpoint = "https://api.openai.com/v1/audio/speech"
	}
	if c.Format == "" {
		c.Format = pipeline.FormatName
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 120
	}

	if env != nil {
		c.loadEnv(env)
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.TimeoutSeconds > 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
}

func (c *Config) validate() error {
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	// The audio pipeline stitches and labels one fixed container format, so
	// synthesis must produce that format.
	if c.Format != pipeline.FormatName {
		return fmt.Errorf("format %q unsupported, synthesis must produce %s", c.Format, pipeline.FormatName)
	}
	return nil
}
