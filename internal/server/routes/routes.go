package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/osa911/contactrelay/internal/api/handlers"
	"github.com/osa911/contactrelay/internal/api/middleware"
	"github.com/osa911/contactrelay/internal/logging"
)

// GlobalOptions configures middleware that applies to all routes
type GlobalOptions struct {
	ServiceName    string
	AllowedOrigins []string
	LogRequests    bool
	HSTS           bool
	RateLimit      middleware.RateLimitConfig
}

// Setup configures all routes
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	// Health check
	router.GET("/", h.Health.Check)

	// Contact routes (public)
	SetupContactRoutes(router, h.Contact, m)

	router.NoRoute(handlers.NotFound)
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, opts GlobalOptions) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(opts.ServiceName))
	router.Use(middleware.RequestLogger(logger, opts.LogRequests))
	router.Use(middleware.SecurityHeaders(opts.HSTS))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RateLimitMiddleware(opts.RateLimit))
}
