package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Psychotichub/panel/internal/apperr"
	"github.com/Psychotichub/panel/internal/tenant"
)

// writeError maps the data layer's error taxonomy to HTTP statuses in
// one place. Unexpected errors stay generic; store driver detail never
// reaches the caller.
func writeError(c echo.Context, err error) error {
	switch {
	case apperr.IsValidation(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case apperr.IsDuplicate(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case apperr.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case apperr.IsConnection(err):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
	case apperr.IsSchemaConflict(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant storage requires migration"})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// resolveTenant resolves the caller's tenant from the identity the auth
// middleware stored in the context.
func resolveTenant(c echo.Context, registry *tenant.Registry) (*tenant.Handle, error) {
	site, _ := c.Get("site").(string)
	company, _ := c.Get("company").(string)
	return registry.Resolve(c.Request().Context(), site, company)
}
