package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"stockdesk/internal/config"
	"stockdesk/internal/handler"
	"stockdesk/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. A nil
// limiter leaves mutations unthrottled.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	rateLimiter *limiter.Limiter,
	reportH *handler.ReportHandler,
	adjustmentH *handler.AdjustmentHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Every API route forwards the caller's token upstream.
	v1 := r.Group("/api/v1")
	v1.Use(middleware.TokenCookie(cfg.Server.CookieName))

	mutating := []gin.HandlerFunc{}
	if rateLimiter != nil {
		mutating = append(mutating, middleware.RateLimit(rateLimiter, log))
	}
	guard := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutating...), h)
	}

	// Reports
	reports := v1.Group("/reports")
	reports.GET("", reportH.List)
	reports.GET("/:domain/:name", reportH.Show)
	reports.GET("/:domain/:name/export", reportH.Export)
	reports.GET("/:domain/:name/download", reportH.Download)
	reports.POST("/:domain/:name/archive", guard(reportH.Archive)...)

	// Stock adjustments
	adjustments := v1.Group("/stock-adjustments")
	adjustments.GET("", adjustmentH.List)
	adjustments.GET("/:id", adjustmentH.GetByID)
	adjustments.GET("/:id/activities", adjustmentH.Activities)
	adjustments.POST("", guard(adjustmentH.Create)...)
	adjustments.PATCH("/:id", guard(adjustmentH.Update)...)
	adjustments.DELETE("/:id", guard(adjustmentH.Delete)...)
	adjustments.POST("/:id/submit", guard(adjustmentH.Submit)...)
	adjustments.POST("/:id/approve", guard(adjustmentH.Approve)...)
	adjustments.POST("/:id/reject", guard(adjustmentH.Reject)...)
	adjustments.POST("/:id/apply", guard(adjustmentH.Apply)...)

	// Form options
	v1.GET("/options/adjustment-form", adjustmentH.FormOptions)

	return r
}
