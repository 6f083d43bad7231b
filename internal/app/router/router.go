// Package router assembles the HTTP routes.
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "auratrack_backend/internal/feature/auth/transport/handler"
	entryhandler "auratrack_backend/internal/feature/entries/transport/handler"
	"auratrack_backend/internal/platform/http/handler"
	jwtmw "auratrack_backend/internal/platform/jwt"
	"auratrack_backend/internal/shared/ratelimiter"
)

// Options configures cross-cutting middleware.
type Options struct {
	JWTSecret   string
	CORSOrigins []string // empty disables CORS headers
	// AuthAttemptsPerMinute caps signup and login calls per client IP; 0 disables the cap.
	AuthAttemptsPerMinute int
	// HealthChecks are run by /healthz; nil reports liveness only.
	HealthChecks map[string]handler.Check
}

func NewRouter(opts Options, authHandler *authhandler.AuthHandler, entries *entryhandler.EntryHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Total-Count"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Public
	health := handler.NewHealthHandler(opts.HealthChecks)
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)
	r.GET("/catalog", entries.Catalog)

	limiter := ratelimiter.NewRateLimiter(opts.AuthAttemptsPerMinute, time.Minute)

	a := r.Group("/auth")
	{
		a.POST("/signup", limiter.Middleware(), authHandler.Signup)
		a.POST("/login", limiter.Middleware(), authHandler.Login)
		a.POST("/refresh", authHandler.Refresh)
		a.POST("/logout", authHandler.Logout)
		a.GET("/session", jwtmw.AuthRequired(opts.JWTSecret), authHandler.Session)
	}

	// Bearer token required; the owner comes from the token.
	e := r.Group("/entries")
	e.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		e.POST("", entries.Create)
		e.GET("", entries.List)
		e.GET("/export", entries.Export)
		e.GET("/insights", entries.Insights)
		e.GET("/:id", entries.Get)
		e.PATCH("/:id", entries.Update)
		e.DELETE("/:id", entries.Delete)
	}

	return r
}

// requestLogger writes one slog record per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}
