package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cogstack/cogstack-api/config"
	"github.com/cogstack/cogstack-api/internal/cache"
	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/handlers"
	"github.com/cogstack/cogstack-api/internal/mcp"
	"github.com/cogstack/cogstack-api/internal/middleware"
	"github.com/cogstack/cogstack-api/internal/services"
	"github.com/cogstack/cogstack-api/pkg/httpclient"
	"github.com/cogstack/cogstack-api/pkg/recaptcha"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	contactBodyLimit  = 64 * 1024
	validateBodyLimit = 16 * 1024
)

// rateLimiters groups the per-route limiters so they can be stopped together
type rateLimiters struct {
	general *middleware.RateLimiter
	contact *middleware.RateLimiter
}

func newRateLimiters() *rateLimiters {
	return &rateLimiters{
		general: middleware.NewRateLimiter(50, 100), // 50 req/sec, burst of 100
		contact: middleware.NewRateLimiter(0.2, 5),  // 1 req/5s, burst of 5 (prevent spam)
	}
}

func (rl *rateLimiters) Stop() {
	rl.general.Stop()
	rl.contact.Stop()
}

// newRouter wires services, handlers and middleware into a gin engine
func newRouter(cfg *config.Config, transport contact.Transport, limiters *rateLimiters) *gin.Engine {
	httpClient := httpclient.NewStandardClient()

	contactService := services.NewContactService(
		transport,
		cache.NewSubmissionCache(cfg.Contact.DedupeTTL()),
		recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient),
		httpClient,
		cfg,
	)
	stackService := services.NewStackService()

	contactHandler := handlers.NewContactHandler(contactService)
	stackHandler := handlers.NewStackHandler(stackService)
	mcpHandler := handlers.NewMCPHandler(mcp.NewServer(stackService, contactService, cfg.Observability.ServiceVersion))
	healthHandler := handlers.NewHealthHandler(cfg.Observability.ServiceVersion, cfg.Contact.Transport,
		func() bool { return contact.Available(transport) })

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := append([]string(nil), cfg.Server.AllowedOrigins...)
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", limiters.general.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", limiters.general.Middleware(), gin.WrapH(promhttp.Handler()))

	// SECURITY: Apply body size limits to prevent DoS attacks
	v1 := router.Group("/api/v1")
	v1.POST("/contact", limiters.contact.Middleware(), middleware.BodySizeLimitMiddleware(contactBodyLimit), contactHandler.SubmitContact)
	v1.POST("/contact/validate", limiters.general.Middleware(), middleware.BodySizeLimitMiddleware(validateBodyLimit), contactHandler.ValidateContact)
	v1.GET("/stack/layers", limiters.general.Middleware(), stackHandler.GetLayers)
	v1.GET("/stack/layers/:id", limiters.general.Middleware(), stackHandler.GetLayer)

	// MCP endpoint for AI tools; read-only
	v1.POST("/mcp", limiters.general.Middleware(), middleware.BodySizeLimitMiddleware(validateBodyLimit), mcpHandler.HandleMCP)

	return router
}
