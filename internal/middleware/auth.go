package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baker339/DOGR/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenVerifier turns a bearer token into an authenticated session.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (session.Session, error)
}

// Auth rejects requests without a valid bearer token and attaches the
// verified session to the echo context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			s, err := verifier.Verify(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				zap.L().Debug("token rejected", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			session.Set(c, s)
			return next(c)
		}
	}
}

// AdminOnly lets through sessions whose user id is listed in adminIDs.
func AdminOnly(adminIDs []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := session.From(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !s.IsAdmin(adminIDs) {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
