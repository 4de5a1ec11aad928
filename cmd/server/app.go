package main

import (
	"context"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/analytics"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/api"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/auth"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/cache"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/config"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/middleware"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/monitoring"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/privacy"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/ratelimit"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/resilience"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/security"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/survey"
)

// app owns every long-lived component of the server
type app struct {
	cfg     *config.Config
	logger  *monitoring.Logger
	metrics *monitoring.Metrics

	db        *database.DB
	redis     *ratelimit.RedisClient
	limiter   *ratelimit.RateLimiter
	analytics *analytics.Service
	questions *cache.Cache
	privacy   *privacy.Service

	router *gin.Engine
}

// newApp wires storage, services and the HTTP router from cfg
func newApp(ctx context.Context, cfg *config.Config, logger *monitoring.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: monitoring.NewMetrics()}

	bank, err := loadBank(cfg.QuestionBankPath)
	if err != nil {
		return nil, err
	}
	logger.SystemLogger("question_bank_loaded", bank.Title)

	dbCfg := database.Config{DataDir: cfg.DataDir, URL: cfg.DatabaseURL}
	err = resilience.RetryWithConfig(ctx, "database", resilience.StartupRetryConfig(), func() error {
		db, err := database.NewDB(dbCfg)
		if err != nil {
			return err
		}
		a.db = db
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, "failed to initialize database")
	}
	repo := database.NewRepository(a.db)

	authSvc, err := auth.NewService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		a.Close()
		return nil, err
	}
	if !authSvc.Enabled() {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	}
	if cfg.JWTSecretGenerated {
		logger.Warn("JWT_SECRET is not set, using a random secret; admin tokens will not survive a restart")
	}

	// a Redis outage at startup degrades to in-memory limiting
	a.redis, err = ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory rate limiting", "addr", cfg.RedisAddr, "error", err)
	}
	a.limiter = ratelimit.NewRateLimiter(a.redis, ratelimit.Config{SubmissionsPerMin: cfg.RateLimitPerMin}, a.metrics)

	a.analytics = analytics.NewService(repo, cfg.AnalyticsCacheTTL, a.metrics, bank.AxisOrder())
	a.questions = cache.NewCache(cfg.QuestionsCacheTTL)

	a.privacy = privacy.NewService(repo, cfg.RetentionDays, cfg.PrivacyContact)
	a.privacy.OnDelete(a.analytics)
	a.privacy.SetRecorder(a.metrics)

	surveySvc := survey.NewService(repo, bank, a.metrics, logger, survey.WithInvalidators(a.analytics))

	handlers := api.New(api.Deps{
		Survey:      surveySvc,
		Responses:   repo,
		Health:      repo,
		Privacy:     a.privacy,
		Analytics:   a.analytics,
		Auth:        authSvc,
		Limiter:     a.limiter,
		Metrics:     a.metrics,
		Logger:      logger,
		Questions:   a.questions,
		Compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	})

	a.router, err = a.newRouter(handlers)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func loadBank(path string) (*quiz.Bank, error) {
	if path == "" {
		return quiz.DefaultBank(), nil
	}
	return quiz.LoadBank(path)
}

func (a *app) newRouter(h *api.Handlers) (*gin.Engine, error) {
	r := gin.New()

	if err := r.SetTrustedProxies(a.cfg.TrustedProxies); err != nil {
		return nil, errors.NewConfigurationError("invalid TRUSTED_PROXIES", err)
	}

	secCfg := security.DefaultSecurityConfig()
	secCfg.AllowedOrigins = a.cfg.CORSOrigins
	secCfg.TrustedProxies = a.cfg.TrustedProxies
	secCfg.EnableHSTS = a.cfg.EnableHSTS
	sec := security.NewSecurityMiddleware(secCfg)

	// monitoring first so every request is counted
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(a.logger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(sec.SecurityHeaders)
	r.Use(sec.CORSConfig())
	r.Use(sec.RequestTimeout)
	r.Use(sec.LimitBody)
	r.Use(sec.ValidateContentType)

	h.RegisterRoutes(r)

	if a.cfg.EnablePprof {
		mountPprof(r)
	}

	return r, nil
}

// mountPprof serves net/http/pprof under /debug/pprof. Gin cannot register the named
// handlers next to a catch-all, so one route dispatches on the path.
func mountPprof(r *gin.Engine) {
	r.GET("/debug/pprof/*name", func(c *gin.Context) {
		switch strings.TrimPrefix(c.Param("name"), "/") {
		case "cmdline":
			pprof.Cmdline(c.Writer, c.Request)
		case "profile":
			pprof.Profile(c.Writer, c.Request)
		case "symbol":
			pprof.Symbol(c.Writer, c.Request)
		case "trace":
			pprof.Trace(c.Writer, c.Request)
		default:
			pprof.Index(c.Writer, c.Request)
		}
	})
}

// purgeLoop applies the retention window once a day until ctx is done
func (a *app) purgeLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var n int64
			err := resilience.Retry(ctx, "retention_purge", func() error {
				var err error
				n, err = a.privacy.PurgeExpired(ctx, a.cfg.RetentionDays)
				return err
			})
			if err != nil {
				a.logger.Error("Retention purge failed", "error", err)
				continue
			}
			a.logger.Info("Retention purge completed", "deleted", n, "retention_days", a.cfg.RetentionDays)
		}
	}
}

// Close releases everything newApp opened
func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.analytics != nil {
		a.analytics.Close()
	}
	if a.questions != nil {
		a.questions.Close()
	}
	if a.redis != nil {
		errors.SafeClose(a.redis, "redis")
	}
	if a.db != nil {
		errors.SafeClose(a.db, "database")
	}
}
