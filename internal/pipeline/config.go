package pipeline

import "os"

// Config holds audio pipeline tool paths and scratch directory.
type Config struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	TempDir     string `toml:"temp_dir"`
}

// Env maps config fields to environment variable names.
type Env struct {
	FFmpegPath  string
	FFprobePath string
	TempDir     string
}

// Finalize applies defaults and environment overrides.
func (c *Config) Finalize(env *Env) error {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}

	if env != nil {
		c.loadEnv(env)
	}

	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.FFmpegPath != "" {
		c.FFmpegPath = overlay.FFmpegPath
	}
	if overlay.FFprobePath != "" {
		c.FFprobePath = overlay.FFprobePath
	}
	if overlay.TempDir != "" {
		c.TempDir = overlay.TempDir
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.FFmpegPath != "" {
		if v := os.Getenv(env.FFmpegPath); v != "" {
			c.FFmpegPath = v
		}
	}
	if env.FFprobePath != "" {
		if v := os.Getenv(env.FFprobePath); v != "" {
			c.FFprobePath = v
		}
	}
	if env.TempDir != "" {
		if v := os.Getenv(env.TempDir); v != "" {
			c.TempDir = v
		}
	}
}
