package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/pkg/jwtutil"
	"github.com/Psychotichub/panel/pkg/logger"
	"github.com/Psychotichub/panel/prometheus"
)

// AuthMiddleware validates the JWT token from the Authorization header
// and stores the caller's identity in the request context. Site and
// company come from the token, never from request input.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("site", claims.Site)
		c.Set("company", claims.Company)

		return next(c)
	}
}

// RequireTenantContext rejects callers whose token carries no tenant
// scope. Manager and admin accounts have no site/company of their own
// and cannot reach tenant-scoped routes.
func RequireTenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		site, _ := c.Get("site").(string)
		company, _ := c.Get("company").(string)
		if site == "" || company == "" {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
		}
		return next(c)
	}
}

// RequireAdmin gates mutating routes to site administrators.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin privileges required"})
		}
		return next(c)
	}
}
