package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables with the CHECKLIST_ prefix.
// Environment variables take precedence over file values. Returns a
// validated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("llm.model_name", "gemini-1.5-flash")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_initial_delay_ms", 1000)
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("quota.max_attempts_per_task", 3)
	v.SetDefault("quota.max_tasks_per_user", 5)

	// Optionally read a config file from the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("CHECKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "CHECKLIST_SERVER_PORT"},
		{"server.log_level", "CHECKLIST_SERVER_LOG_LEVEL"},
		{"llm.gemini_api_key", "CHECKLIST_LLM_GEMINI_API_KEY"},
		{"llm.model_name", "CHECKLIST_LLM_MODEL_NAME"},
		{"llm.max_retries", "CHECKLIST_LLM_MAX_RETRIES"},
		{"llm.retry_initial_delay_ms", "CHECKLIST_LLM_RETRY_INITIAL_DELAY_MS"},
		{"llm.timeout_seconds", "CHECKLIST_LLM_TIMEOUT_SECONDS"},
		{"quota.max_attempts_per_task", "CHECKLIST_QUOTA_MAX_ATTEMPTS_PER_TASK"},
		{"quota.max_tasks_per_user", "CHECKLIST_QUOTA_MAX_TASKS_PER_USER"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	// Unmarshal and validate
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
