package articles

import "os"

// Config holds article fetching parameters.
type Config struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxBodyBytes   int64  `toml:"max_body_bytes"`
}

// Env maps config fields to environment variable names.
type Env struct {
	UserAgent string
}

// Finalize applies defaults and environment overrides.
func (c *Config) Finalize(env *Env) error {
	if c.UserAgent == "" {
		c.UserAgent = "ledgercast/1.0"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 << 20
	}

	if env != nil && env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}

	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.TimeoutSeconds > 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
	if overlay.MaxBodyBytes > 0 {
		c.MaxBodyBytes = overlay.MaxBodyBytes
	}
}
