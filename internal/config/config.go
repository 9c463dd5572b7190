// Package config provides configuration types, defaults and persistence for hubctl.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/hubctl/internal/log"
)

// Config holds all configuration options for hubctl.
type Config struct {
	// PortalURL is where the portal serves /config.
	PortalURL string `mapstructure:"portal_url"`
	// PortalConfigFile, when set, replaces the HTTP fetch with a local JSON
	// document that is reloaded on change.
	PortalConfigFile string `mapstructure:"portal_config_file"`
	// HubAPIURL overrides hubApiUrl from the portal config.
	HubAPIURL string          `mapstructure:"hub_api_url"`
	SessionDB string          `mapstructure:"session_db"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	UI        UIConfig        `mapstructure:"ui"`
	Flags     map[string]bool `mapstructure:"flags"`
}

// CacheConfig controls the image and version metadata cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Exporter is one of "none", "file", "stdout", "otlp". Default: "file".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/hubctl/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate is in [0.0, 1.0].
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns ~/.config/hubctl/traces/traces.jsonl or ""
// when the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hubctl", "traces", "traces.jsonl")
}

// DefaultSessionDBPath returns ~/.config/hubctl/session.db or "" when the
// home directory is unavailable.
func DefaultSessionDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hubctl", "session.db")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		PortalURL: "http://localhost:3000",
		SessionDB: DefaultSessionDBPath(),
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if cfg.PortalURL == "" && cfg.PortalConfigFile == "" {
		return fmt.Errorf("one of portal_url or portal_config_file is required")
	}
	if cfg.PortalURL != "" {
		if err := validateURL("portal_url", cfg.PortalURL); err != nil {
			return err
		}
	}
	if cfg.HubAPIURL != "" {
		if err := validateURL("hub_api_url", cfg.HubAPIURL); err != nil {
			return err
		}
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	switch cfg.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", cfg.UI.MarkdownStyle)
	}
	return ValidateTracing(cfg.Tracing)
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", key, raw)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on.
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# hubctl configuration

# Portal base URL; its /config document names the Hub API and identity provider
portal_url: http://localhost:3000

# Use a local copy of the portal config instead (reloaded when the file changes)
# portal_config_file: /path/to/config.json

# Override hubApiUrl from the portal config
# hub_api_url: https://api.hub.example.com

# Where the signed-in user is remembered (default: ~/.config/hubctl/session.db)
# session_db: /path/to/session.db

# Image and version metadata cache
cache:
  enabled: true
  ttl: 5m

# UI settings
ui:
  markdown_style: dark  # "dark" (default) or "light"

# Feature flags
# flags:
#   metadata-cache: true
#   auto-relogin: true

# Tracing of Hub API calls
# tracing:
#   enabled: false                 # default: false
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/hubctl/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0               # 0.0-1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
