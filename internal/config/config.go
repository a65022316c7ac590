// Package config loads and validates the engine configuration from a YAML
// file. A config directory can be sealed with a BLAKE3 checksum manifest;
// Load verifies a seal when one is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete hq configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	API      APIConfig      `yaml:"api,omitempty"`
	Events   EventsConfig   `yaml:"events,omitempty"`
	REPL     REPLConfig     `yaml:"repl,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// LockPath, when set, is a PID lock file guaranteeing a single
	// engine instance.
	LockPath string `yaml:"lock_path,omitempty"`
}

// DispatchConfig tunes the dispatch queue.
type DispatchConfig struct {
	// PoolLimit bounds concurrent command invocations.
	PoolLimit int `yaml:"pool_limit"`
	// PollInterval bounds how long the idle worker sleeps between
	// stop-request checks.
	PollInterval time.Duration `yaml:"poll_interval"`
	// SubmitTimeout caps how long the API's synchronous dispatch endpoint
	// waits for a callback.
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
}

// APIConfig defines HTTP API server settings.
type APIConfig struct {
	Enabled bool          `yaml:"enabled"`
	Listen  string        `yaml:"listen"`
	Auth    APIAuthConfig `yaml:"auth"`
}

// APIAuthConfig defines API authentication settings.
type APIAuthConfig struct {
	// APIKey is the bearer token required on every API request when set.
	APIKey string `yaml:"api_key"`
}

// EventsConfig tunes the in-memory event hub.
type EventsConfig struct {
	// Buffer is the ring-buffer capacity for recent events.
	Buffer int `yaml:"buffer"`
}

// REPLConfig tunes the interactive console.
type REPLConfig struct {
	Prompt string `yaml:"prompt"`
}

// Defaults returns a configuration with every tunable at its default.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "hq",
			LogLevel:  "info",
			LogFormat: "text",
		},
		Dispatch: DispatchConfig{
			PoolLimit:     64,
			PollInterval:  100 * time.Millisecond,
			SubmitTimeout: 30 * time.Second,
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8080",
		},
		Events: EventsConfig{
			Buffer: 256,
		},
		REPL: REPLConfig{
			Prompt: "hq> ",
		},
	}
}

// Load reads and parses configuration from path. A directory path is
// resolved to config.yaml inside it. Missing fields take their defaults.
// When the config directory carries a seal manifest, every sealed file is
// verified before the parsed config is returned.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s", absPath)
	}
	if info.IsDir() {
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := VerifySeal(filepath.Dir(absPath)); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for values the engine cannot run with.
func Validate(cfg *Config) error {
	if cfg.Service.Name == "" {
		return fmt.Errorf("service.name must not be empty")
	}
	switch cfg.Service.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("service.log_level must be one of debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}
	switch cfg.Service.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("service.log_format must be text or json (got %q)", cfg.Service.LogFormat)
	}
	if cfg.Dispatch.PoolLimit <= 0 {
		return fmt.Errorf("dispatch.pool_limit must be positive (got %d)", cfg.Dispatch.PoolLimit)
	}
	if cfg.Dispatch.PollInterval <= 0 {
		return fmt.Errorf("dispatch.poll_interval must be positive (got %s)", cfg.Dispatch.PollInterval)
	}
	if cfg.Dispatch.SubmitTimeout <= 0 {
		return fmt.Errorf("dispatch.submit_timeout must be positive (got %s)", cfg.Dispatch.SubmitTimeout)
	}
	if cfg.API.Enabled && cfg.API.Listen == "" {
		return fmt.Errorf("api.listen must be set when api.enabled is true")
	}
	if cfg.Events.Buffer <= 0 {
		return fmt.Errorf("events.buffer must be positive (got %d)", cfg.Events.Buffer)
	}
	return nil
}
