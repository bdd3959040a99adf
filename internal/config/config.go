// Package config loads runtime configuration from defaults and environment
// variables.
package config

import "time"

// Config is the full runtime configuration for the bridge.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Service  ServiceConfig  `mapstructure:"service"`
	Registry RegistryConfig `mapstructure:"registry"`
	N8N      N8NConfig      `mapstructure:"n8n"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Callback CallbackConfig `mapstructure:"callback"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// ServiceConfig is static build metadata surfaced by /healthz and /v1/meta.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	BuildSHA    string `mapstructure:"build_sha"`
}

// RegistryConfig locates the workflow allowlist artifact.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// N8NConfig locates the external workflow runtime.
type N8NConfig struct {
	WebhookBaseURL string `mapstructure:"webhook_base_url"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	APIKey         string `mapstructure:"api_key"`
}

// JobsConfig holds the intake policy knobs.
type JobsConfig struct {
	MaxTimeoutSeconds  int `mapstructure:"max_timeout_seconds"`
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// CallbackConfig holds the callback verification policy. An empty
// SigningSecret disables enforcement (development mode).
type CallbackConfig struct {
	SigningSecret string `mapstructure:"signing_secret"`
}

// AuditConfig controls callback audit persistence.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}
