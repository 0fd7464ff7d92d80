package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/ngo-portal/portal-backend/internal/api/http"
	"github.com/ngo-portal/portal-backend/internal/api/http/middleware"
	"github.com/ngo-portal/portal-backend/internal/metrics"
	portalhttp "github.com/ngo-portal/portal-backend/internal/portal/http"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
	"github.com/ngo-portal/portal-backend/internal/portal/web"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *zap.Logger
	Manager     *session.Manager
	Bundle      *locale.Bundle
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Redis is reported by the health check; nil means disabled.
	Redis *redis.Client

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	if dep.Metrics != nil {
		r.Use(dep.Metrics.Middleware())
	}

	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", session.HeaderName, middleware.RequestIDHeader},
			ExposeHeaders:    []string{session.HeaderName, middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)
	if dep.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	if dep.RateLimitRPS > 0 {
		api.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	}

	portalhttp.New(dep.Manager, dep.Bundle, dep.Logger).Register(api)

	if err := web.New(dep.Manager, dep.Bundle, dep.Logger).Register(r); err != nil {
		return nil, err
	}

	return r, nil
}
