// Package server provides HTTP server setup and configuration.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sebasr/greet-service/internal/config"
	"github.com/sebasr/greet-service/internal/handlers"
	"github.com/sebasr/greet-service/internal/middleware"
	"github.com/sebasr/greet-service/internal/repository"
)

// Health paths are served without request logging
const (
	healthPath    = "/api/v1/health"
	readinessPath = "/api/v1/health/ready"
)

const (
	defaultVersion  = "1.0.0"
	defaultRate     = 100
	defaultRateSpan = time.Minute
)

// Dependencies holds all dependencies needed to create a server
type Dependencies struct {
	Config   *config.Config
	Greeter  handlers.Greeter
	UserRepo repository.UserRepository
	DB       handlers.HealthChecker // Optional: readiness skips the database when nil
	Logger   zerolog.Logger
}

// New creates a new Gin router with all routes configured
func New(deps *Dependencies) *gin.Engine {
	// Set Gin to release mode to disable ANSI colors in logs
	gin.SetMode(gin.ReleaseMode)

	// gin.New() instead of gin.Default(): request logging goes through zerolog
	router := gin.New()

	serverCfg := serverConfig(deps.Config)

	// Only listed proxies may set the client IP used as the rate limit key
	if err := router.SetTrustedProxies(serverCfg.TrustedProxies); err != nil {
		deps.Logger.Warn().Err(err).Msg("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger, healthPath, readinessPath))

	// Add CORS middleware for web client support
	router.Use(cors.New(cors.Config{
		AllowOrigins:     serverCfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Encoding", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Per-IP rate limiting
	router.Use(middleware.NewRateLimitMiddleware(serverCfg.RateLimit, serverCfg.RateLimitPeriod))

	// Compress responses and accept gzip request bodies
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	// Initialize handlers
	greetingHandler := handlers.NewGreetingHandler(deps.Greeter)
	healthHandler := handlers.NewHealthHandler(deps.DB, serverCfg.Version)

	api := router.Group("/api")
	registerGreetingRoutes(api, greetingHandler)

	// API v1 routes
	v1 := api.Group("/v1")
	{
		v1.GET("/health", healthHandler.Live)
		v1.GET("/health/ready", healthHandler.Ready)

		registerGreetingRoutes(v1, greetingHandler)

		if deps.UserRepo != nil {
			userHandler := handlers.NewUserHandler(deps.UserRepo)

			users := v1.Group("/users")
			{
				users.POST("", userHandler.CreateUser)
				users.GET("", userHandler.FindUser)
				users.GET("/:id", userHandler.GetUser)
			}
		}
	}

	return router
}

// registerGreetingRoutes mounts the greeting endpoint on group.
// The bare /greet/ route sends an empty name to the handler so it
// answers 400 instead of the router's 404.
func registerGreetingRoutes(group *gin.RouterGroup, h *handlers.GreetingHandler) {
	group.GET("/greet/", h.Greet)
	group.GET("/greet/:name", h.Greet)
}

// serverConfig returns the server settings with defaults filled in
func serverConfig(cfg *config.Config) config.ServerConfig {
	var sc config.ServerConfig
	if cfg != nil {
		sc = cfg.Server
	}

	if len(sc.AllowOrigins) == 0 {
		sc.AllowOrigins = []string{"*"}
	}
	if sc.RateLimit <= 0 {
		sc.RateLimit = defaultRate
	}
	if sc.RateLimitPeriod <= 0 {
		sc.RateLimitPeriod = defaultRateSpan
	}
	if sc.Version == "" {
		sc.Version = defaultVersion
	}

	return sc
}
