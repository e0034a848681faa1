package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

type Config struct {
	Port       string
	Env        string
	AppVersion string
	Log        LogConfig
	Gemini     GeminiConfig
	Redis      RedisConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type GeminiConfig struct {
	APIKey        string
	BaseURL       string
	FastModel     string
	AdvancedModel string
	Backend       string
	Timeout       time.Duration
}

type RedisConfig struct {
	Addr      string
	KeyPrefix string
}

// Development reports whether verbose diagnostics should be enabled.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads the given env files (missing ones are skipped) and then the
// process environment. Values already present in the environment win over
// the files.
func Load(envFiles ...string) (*Config, error) {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:       v.GetString("port"),
		Env:        strings.ToLower(v.GetString("env")),
		AppVersion: v.GetString("app_version"),
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Gemini: GeminiConfig{
			APIKey:        v.GetString("gemini_api_key"),
			BaseURL:       strings.TrimRight(v.GetString("gemini_base_url"), "/"),
			FastModel:     v.GetString("gemini_fast_model"),
			AdvancedModel: v.GetString("gemini_advanced_model"),
			Backend:       strings.ToLower(v.GetString("gemini_backend")),
			Timeout:       v.GetDuration("gemini_timeout"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis_addr"),
			KeyPrefix: v.GetString("redis_key_prefix"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("env", "development")
	v.SetDefault("app_version", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini_fast_model", "gemini-1.5-flash")
	v.SetDefault("gemini_advanced_model", "gemini-1.5-pro")
	v.SetDefault("gemini_backend", BackendREST)
	v.SetDefault("gemini_timeout", "60s")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_key_prefix", "travelbuddy")
}

// An empty API key is allowed: requests still go out and fail at the provider.
func validate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.Gemini.Backend != BackendREST && cfg.Gemini.Backend != BackendSDK {
		return fmt.Errorf("GEMINI_BACKEND must be %q or %q, got %q", BackendREST, BackendSDK, cfg.Gemini.Backend)
	}
	if cfg.Gemini.FastModel == "" || cfg.Gemini.AdvancedModel == "" {
		return fmt.Errorf("GEMINI_FAST_MODEL and GEMINI_ADVANCED_MODEL must be set")
	}
	if cfg.Gemini.Timeout < 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must not be negative")
	}
	return nil
}
