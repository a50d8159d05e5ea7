// Package config defines the application configuration and its loading
// rules. Values come from an optional config file and environment variables,
// with environment variables taking precedence.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
	Quota  QuotaConfig  `mapstructure:"quota"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains all Gemini integration settings. The API key is the
// only setting without a default: its absence is fatal at startup.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxRetries is the retry budget for a single generation request.
	// MaxRetries=2 means up to 3 total attempts.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryInitialDelayMs is the wait before the first retry; the delay
	// doubles after each subsequent failure.
	RetryInitialDelayMs int `mapstructure:"retry_initial_delay_ms" validate:"gte=1"`

	// TimeoutSeconds is the hard wall-clock limit on a single upstream
	// attempt, independent of the retry schedule.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=1"`
}

// QuotaConfig contains the daily generation limits.
type QuotaConfig struct {
	// MaxAttemptsPerTask bounds generation attempts per (user, task) pair
	// per calendar day.
	MaxAttemptsPerTask int `mapstructure:"max_attempts_per_task" validate:"required,gte=1"`

	// MaxTasksPerUser bounds the number of distinct tasks a user may
	// generate checklists for per calendar day.
	MaxTasksPerUser int `mapstructure:"max_tasks_per_user" validate:"required,gte=1"`
}
