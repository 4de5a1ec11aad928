package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/monitoring"
)

// Config is the server configuration, read from the environment
type Config struct {
	Port             string
	DataDir          string
	DatabaseURL      string
	QuestionBankPath string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitPerMin int

	JWTSecret          string
	JWTSecretGenerated bool
	AdminUsername      string
	AdminPasswordHash  string
	TokenTTL           time.Duration

	CORSOrigins    []string
	TrustedProxies []string
	EnableHSTS     bool

	RetentionDays     int
	PrivacyContact    string
	AnalyticsCacheTTL time.Duration
	QuestionsCacheTTL time.Duration

	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	EnablePprof     bool
}

// Load reads the configuration from the process environment
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Every unparsable value is
// reported in a single configuration error.
func LoadFrom(getenv func(string) string) (*Config, error) {
	p := &parser{getenv: getenv, problems: map[string]string{}}

	cfg := &Config{
		Port:             p.str("PORT", "8080"),
		DataDir:          p.str("DATA_DIR", "./data"),
		DatabaseURL:      p.str("DATABASE_URL", ""),
		QuestionBankPath: p.str("QUESTION_BANK_PATH", ""),

		RedisAddr:       p.str("REDIS_ADDR", ""),
		RedisPassword:   p.str("REDIS_PASSWORD", ""),
		RedisDB:         p.integer("REDIS_DB", 0, 0),
		RateLimitPerMin: p.integer("RATE_LIMIT_PER_MIN", 30, 1),

		JWTSecret:         p.str("JWT_SECRET", ""),
		AdminUsername:     p.str("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: p.str("ADMIN_PASSWORD_HASH", ""),
		TokenTTL:          p.duration("ADMIN_TOKEN_TTL", 12*time.Hour),

		CORSOrigins:    p.list("CORS_ORIGINS", []string{"*"}),
		TrustedProxies: p.list("TRUSTED_PROXIES", nil),
		EnableHSTS:     p.boolean("ENABLE_HSTS", false),

		RetentionDays:     p.integer("RETENTION_DAYS", 365, 1),
		PrivacyContact:    p.str("PRIVACY_CONTACT", ""),
		AnalyticsCacheTTL: p.duration("ANALYTICS_CACHE_TTL", 5*time.Minute),
		QuestionsCacheTTL: p.duration("QUESTIONS_CACHE_TTL", 15*time.Minute),

		ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		EnablePprof:     p.boolean("ENABLE_PPROF", false),
	}

	level := strings.ToLower(p.str("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "warning", "error":
		cfg.LogLevel = monitoring.ParseLevel(level)
	default:
		p.problems["LOG_LEVEL"] = fmt.Sprintf("unknown level %q", level)
	}

	if len(p.problems) > 0 {
		appErr := apperrors.NewConfigurationError(p.summary(), nil)
		appErr.Fields = p.problems
		return nil, appErr
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, apperrors.NewConfigurationError("failed to generate JWT secret", err)
		}
		cfg.JWTSecret = secret
		cfg.JWTSecretGenerated = true
	}

	return cfg, nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type parser struct {
	getenv   func(string) string
	problems map[string]string
}

func (p *parser) summary() string {
	keys := make([]string, 0, len(p.problems))
	for k := range p.problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+p.problems[k])
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

func (p *parser) str(key, defaultValue string) string {
	if value := strings.TrimSpace(p.getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (p *parser) integer(key string, defaultValue, minValue int) int {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.problems[key] = fmt.Sprintf("%q is not an integer", raw)
		return defaultValue
	}
	if n < minValue {
		p.problems[key] = fmt.Sprintf("must be at least %d", minValue)
		return defaultValue
	}
	return n
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		p.problems[key] = fmt.Sprintf("%q is not a positive duration", raw)
		return defaultValue
	}
	return d
}

func (p *parser) boolean(key string, defaultValue bool) bool {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.problems[key] = fmt.Sprintf("%q is not a boolean", raw)
		return defaultValue
	}
	return b
}

func (p *parser) list(key string, defaultValue []string) []string {
	raw := p.str(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
