package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// envPrefix namespaces the bridge's own environment variables
// (FLOWBIZ_SERVER_PORT, FLOWBIZ_LOG_LEVEL via alias, ...).
const envPrefix = "FLOWBIZ"

// contractEnvBinds maps config keys to the environment variable names fixed
// by the platform contract. These are accepted in addition to the FLOWBIZ_*
// forms.
var contractEnvBinds = map[string]string{
	"server.host":                "APP_HOST",
	"server.port":                "APP_PORT",
	"logging.level":              "APP_LOG_LEVEL",
	"service.environment":        "APP_ENV",
	"service.name":               "FLOWBIZ_SERVICE_NAME",
	"service.version":            "FLOWBIZ_VERSION",
	"service.build_sha":          "FLOWBIZ_BUILD_SHA",
	"registry.path":              "WORKFLOW_REGISTRY_PATH",
	"n8n.webhook_base_url":       "N8N_WEBHOOK_BASE_URL",
	"n8n.api_base_url":           "N8N_API_BASE_URL",
	"n8n.api_key":                "N8N_API_KEY",
	"jobs.max_timeout_seconds":   "JOBS_MAX_TIMEOUT_SECONDS",
	"jobs.rate_limit_per_minute": "JOBS_RATE_LIMIT_PER_MINUTE",
	"callback.signing_secret":    "CALLBACK_SIGNING_SECRET",
	"audit.enabled":              "AUDIT_ENABLED",
	"audit.db_path":              "AUDIT_DB_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	v.SetDefault("service.name", "flowbiz-n8n-bridge")
	v.SetDefault("service.environment", "dev")
	v.SetDefault("service.version", "0.1.0")
	v.SetDefault("service.build_sha", "local")

	v.SetDefault("registry.path", "workflows/registry.json")

	v.SetDefault("n8n.webhook_base_url", "http://127.0.0.1:5678/webhook")
	v.SetDefault("n8n.api_base_url", "http://127.0.0.1:5678/api/v1")
	v.SetDefault("n8n.api_key", "")

	v.SetDefault("jobs.max_timeout_seconds", 3600)
	v.SetDefault("jobs.rate_limit_per_minute", 60)

	v.SetDefault("callback.signing_secret", "")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.db_path", "data/audit.db")
}

// Load builds the effective configuration: defaults overridden by
// environment variables (both FLOWBIZ_* and the contract names).
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range contractEnvBinds {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", name, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
