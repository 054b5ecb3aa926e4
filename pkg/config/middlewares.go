package config

import (
	"net/http"

	"github.com/baker339/DOGR/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SetupMiddleware installs the global middleware stack.
func SetupMiddleware(e *echo.Echo, cfg *Config, logger *zap.Logger) {
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	corsCfg := echomw.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	e.Use(echomw.CORSWithConfig(corsCfg))

	if cfg.RateLimitPerSecond > 0 {
		e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitPerSecond))))
	}
}
