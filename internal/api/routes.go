package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts the public, admin and operational routes on r
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", h.GetMetrics)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/questions", h.Questions.Middleware(h.Metrics), h.GetQuestions)
		v1.POST("/quiz/score", h.ScoreQuiz)
		v1.POST("/quiz/submissions", h.Limiter.SubmissionRateLimitMiddleware(), h.SubmitQuiz)
		v1.GET("/results/:id", h.GetResult)
		v1.GET("/privacy/policy", h.GetPrivacyPolicy)
	}

	admin := v1.Group("/admin")
	admin.POST("/login", h.Limiter.LoginRateLimitMiddleware(), h.Login)

	protected := admin.Group("", h.Auth.RequireAdmin(), h.Compression.Handler())
	{
		protected.GET("/responses", h.ListResponses)
		protected.GET("/responses/:id", h.GetResponse)
		protected.DELETE("/responses/:id", h.DeleteResponse)
		protected.GET("/analytics/summary", h.GetAnalyticsSummary)
		protected.GET("/export.csv", h.ExportResponses)
		protected.POST("/retention/purge", h.PurgeExpired)
		protected.GET("/stats", h.GetAdminStats)
	}
}
