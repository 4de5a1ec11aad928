package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.QuestionBankPath)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 365, cfg.RetentionDays)
	assert.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.EnableHSTS)

	assert.True(t, cfg.JWTSecretGenerated)
	assert.Len(t, cfg.JWTSecret, 64)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"PORT":                "9090",
		"DATABASE_URL":        "postgres://quiz@db/quiz",
		"REDIS_ADDR":          "redis:6379",
		"REDIS_DB":            "2",
		"RATE_LIMIT_PER_MIN":  "10",
		"JWT_SECRET":          "fixed",
		"CORS_ORIGINS":        " https://a.example.com, ,https://b.example.com ",
		"RETENTION_DAYS":      "30",
		"ANALYTICS_CACHE_TTL": "90s",
		"LOG_LEVEL":           "DEBUG",
		"ENABLE_HSTS":         "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://quiz@db/quiz", cfg.DatabaseURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
	assert.Equal(t, "fixed", cfg.JWTSecret)
	assert.False(t, cfg.JWTSecretGenerated)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 90*time.Second, cfg.AnalyticsCacheTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.EnableHSTS)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	_, err := LoadFrom(envOf(map[string]string{
		"RATE_LIMIT_PER_MIN":  "lots",
		"RETENTION_DAYS":      "0",
		"ANALYTICS_CACHE_TTL": "-1m",
		"ENABLE_HSTS":         "maybe",
		"LOG_LEVEL":           "loud",
	}))
	require.Error(t, err)

	appErr := apperrors.ToAppError(err)
	assert.Equal(t, apperrors.CategoryConfiguration, appErr.Category)
	assert.Len(t, appErr.Fields, 5)
	for _, key := range []string{"RATE_LIMIT_PER_MIN", "RETENTION_DAYS", "ANALYTICS_CACHE_TTL", "ENABLE_HSTS", "LOG_LEVEL"} {
		assert.Contains(t, appErr.Fields, key)
	}
}

func TestLoadFromProcessEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}
