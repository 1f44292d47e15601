// Package config provides configuration for the chat service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// ModeMock selects the mock LLM gateway (no credential required).
	ModeMock = "MOCK"

	envPrefix = "CONDUIT"
)

// Config holds the service configuration. Values are read from the process
// environment with the CONDUIT_ prefix (e.g. CONDUIT_HTTP_PORT).
type Config struct {
	// Server settings
	HTTPPort int

	// Database. Empty selects the in-memory session store.
	DatabaseURL string

	// LLM gateway settings. APIKey is the one required credential and must
	// never be logged or echoed.
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Mode switches the gateway implementation (MOCK for development).
	Mode string

	// Session maintenance. PurgeInterval of 0 disables the janitor.
	PurgeInterval time.Duration
	SessionMaxAge time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("llm_base_url", "https://api.openai.com")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "gpt-4o-mini")
	v.SetDefault("llm_timeout_ms", 60000)
	v.SetDefault("mode", "")
	v.SetDefault("purge_interval_ms", 0)
	v.SetDefault("session_max_age_ms", int(24*time.Hour/time.Millisecond))
	v.SetDefault("log_level", "info")

	cfg := &Config{
		HTTPPort:      v.GetInt("http_port"),
		DatabaseURL:   v.GetString("database_url"),
		LLMBaseURL:    v.GetString("llm_base_url"),
		LLMAPIKey:     v.GetString("llm_api_key"),
		LLMModel:      v.GetString("llm_model"),
		LLMTimeout:    time.Duration(v.GetInt("llm_timeout_ms")) * time.Millisecond,
		Mode:          strings.ToUpper(v.GetString("mode")),
		PurgeInterval: time.Duration(v.GetInt("purge_interval_ms")) * time.Millisecond,
		SessionMaxAge: time.Duration(v.GetInt("session_max_age_ms")) * time.Millisecond,
		LogLevel:      v.GetString("log_level"),
	}

	if cfg.Mode != ModeMock && cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("%s_LLM_API_KEY is required unless %s_MODE=%s", envPrefix, envPrefix, ModeMock)
	}

	return cfg, nil
}
