// Package config loads and finalizes the Ledgercast service configuration.
// Configuration flows from config.toml, an optional per-environment overlay
// (config.<env>.toml), and LEDGERCAST_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ledgercast/ledgercast/internal/articles"
	"github.com/ledgercast/ledgercast/internal/llm"
	"github.com/ledgercast/ledgercast/internal/pipeline"
	"github.com/ledgercast/ledgercast/internal/speech"
	"github.com/ledgercast/ledgercast/internal/workflow"
	"github.com/ledgercast/ledgercast/pkg/database"
	"github.com/ledgercast/ledgercast/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLedgercastEnv             = "LEDGERCAST_ENV"
	EnvLedgercastShutdownTimeout = "LEDGERCAST_SHUTDOWN_TIMEOUT"
	EnvLedgercastVersion         = "LEDGERCAST_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "LEDGERCAST_DB_HOST",
	Port:            "LEDGERCAST_DB_PORT",
	Name:            "LEDGERCAST_DB_NAME",
	User:            "LEDGERCAST_DB_USER",
	Password:        "LEDGERCAST_DB_PASSWORD",
	SSLMode:         "LEDGERCAST_DB_SSL_MODE",
	MaxOpenConns:    "LEDGERCAST_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LEDGERCAST_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LEDGERCAST_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LEDGERCAST_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "LEDGERCAST_STORAGE_CONTAINER_NAME",
	ConnectionString: "LEDGERCAST_STORAGE_CONNECTION_STRING",
}

var articlesEnv = &articles.Env{
	UserAgent: "LEDGERCAST_ARTICLES_USER_AGENT",
}

var pipelineEnv = &pipeline.Env{
	FFmpegPath:  "LEDGERCAST_FFMPEG_PATH",
	FFprobePath: "LEDGERCAST_FFPROBE_PATH",
	TempDir:     "LEDGERCAST_TEMP_DIR",
}

var llmEnv = &llm.Env{
	Endpoint: "LEDGERCAST_LLM_ENDPOINT",
	APIKey:   "LEDGERCAST_LLM_API_KEY",
	Model:    "LEDGERCAST_LLM_MODEL",
}

var speechEnv = &speech.Env{
	Endpoint: "LEDGERCAST_SPEECH_ENDPOINT",
	APIKey:   "LEDGERCAST_SPEECH_API_KEY",
	Model:    "LEDGERCAST_SPEECH_MODEL",
}

// Config is the root configuration for the Ledgercast service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Articles        articles.Config   `toml:"articles"`
	Pipeline        pipeline.Config   `toml:"pipeline"`
	LLM             llm.Config        `toml:"llm"`
	Speech          speech.Config     `toml:"speech"`
	Generation      workflow.Settings `toml:"generation"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the LEDGERCAST_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLedgercastEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}

	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Articles.Merge(&overlay.Articles)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.LLM.Merge(&overlay.LLM)
	c.Speech.Merge(&overlay.Speech)
	c.Generation.Merge(&overlay.Generation)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Articles.Finalize(articlesEnv); err != nil {
		return fmt.Errorf("articles: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Speech.Finalize(speechEnv); err != nil {
		return fmt.Errorf("speech: %w", err)
	}
	if err := c.Generation.Finalize(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLedgercastShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLedgercastVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLedgercastEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
