// Package api exposes the quiz engine and the admin dashboard over HTTP.
package api

import (
	"context"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/analytics"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/auth"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/cache"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/middleware"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/monitoring"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/privacy"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/ratelimit"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/survey"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ResponseStore is the admin read side. *database.Repository satisfies it.
type ResponseStore interface {
	ListResponses(ctx context.Context, filter database.ListFilter) ([]*database.Response, error)
	CountResponses(ctx context.Context, filter database.ListFilter) (int, error)
	GetResponse(ctx context.Context, id string) (*database.Response, error)
}

// HealthChecker reports storage health. *database.Repository satisfies it.
type HealthChecker interface {
	Ping(ctx context.Context) error
	GetPoolStats() map[string]interface{}
}

// Deps are the services the handlers call into
type Deps struct {
	Survey      *survey.Service
	Responses   ResponseStore
	Health      HealthChecker
	Privacy     *privacy.Service
	Analytics   *analytics.Service
	Auth        *auth.Service
	Limiter     *ratelimit.RateLimiter
	Metrics     *monitoring.Metrics
	Logger      *monitoring.Logger
	Questions   *cache.Cache
	Compression *middleware.CompressionMiddleware
}

// Handlers implements every HTTP endpoint
type Handlers struct {
	Deps
}

// New creates the handler set
func New(deps Deps) *Handlers {
	if deps.Compression == nil {
		deps.Compression = middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig())
	}
	return &Handlers{Deps: deps}
}
