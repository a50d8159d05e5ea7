package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Environment access means these tests cannot run in parallel with each other.

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CHECKLIST_LLM_GEMINI_API_KEY", "test-api-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.ModelName)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, 1000, cfg.LLM.RetryInitialDelayMs)
	assert.Equal(t, 120, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Quota.MaxAttemptsPerTask)
	assert.Equal(t, 5, cfg.Quota.MaxTasksPerUser)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("CHECKLIST_LLM_GEMINI_API_KEY", "test-api-key")
	t.Setenv("CHECKLIST_SERVER_PORT", "9090")
	t.Setenv("CHECKLIST_SERVER_LOG_LEVEL", "debug")
	t.Setenv("CHECKLIST_LLM_MODEL_NAME", "gemini-2.0-flash")
	t.Setenv("CHECKLIST_LLM_MAX_RETRIES", "4")
	t.Setenv("CHECKLIST_QUOTA_MAX_ATTEMPTS_PER_TASK", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "test-api-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 4, cfg.LLM.MaxRetries)
	assert.Equal(t, 10, cfg.Quota.MaxAttemptsPerTask)
}

func TestLoadFailsWithoutAPIKey(t *testing.T) {
	// An absent (or blank) API key must fail startup.
	t.Setenv("CHECKLIST_LLM_GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GeminiAPIKey")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("CHECKLIST_LLM_GEMINI_API_KEY", "test-api-key")
	t.Setenv("CHECKLIST_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("CHECKLIST_LLM_GEMINI_API_KEY", "test-api-key")
	t.Setenv("CHECKLIST_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Port")
}
