package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/identity"
	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/jwtutil"
	"github.com/Psychotichub/panel/pkg/logger"
	"github.com/Psychotichub/panel/prometheus"
)

// AuthHandler serves login and account management against the global
// identity store. Identity is consulted before tenant resolution:
// manager and admin accounts have no tenant key at all.
type AuthHandler struct {
	identity *identity.Store
}

func NewAuthHandler(store *identity.Store) *AuthHandler {
	return &AuthHandler{identity: store}
}

// Login authenticates a caller. A request carrying site and company
// authenticates a tenant user; one without authenticates a
// manager/admin.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Site     string `json:"site,omitempty"`
		Company  string `json:"company,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var key *tenant.Key
	if req.Site != "" || req.Company != "" {
		k := tenant.NewKey(req.Site, req.Company)
		key = &k
	}

	user, err := h.identity.Authenticate(c.Request().Context(), req.Username, req.Password, key)
	if err != nil {
		return writeError(c, err)
	}

	token, err := jwtutil.GenerateToken(user.Username, user.Role, user.Site, user.Company)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"username": user.Username,
			"role":     user.Role,
			"site":     user.Site,
			"company":  user.Company,
		},
	})
}

// Register creates a tenant user account inside the caller's own
// tenant. Only admins may register accounts.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse register request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	site, _ := c.Get("site").(string)
	company, _ := c.Get("company").(string)
	createdBy, _ := c.Get("username").(string)
	key := tenant.NewKey(site, company)

	user, err := h.identity.Create(c.Request().Context(), req.Username, req.Password, model.RoleUser, &key, createdBy)
	if err != nil {
		log.Error("Failed to create account", zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"username": user.Username,
		"role":     user.Role,
		"site":     user.Site,
		"company":  user.Company,
	})
}

// ChangePassword recomputes the caller's password hash.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	username, _ := c.Get("username").(string)
	site, _ := c.Get("site").(string)
	company, _ := c.Get("company").(string)

	var key *tenant.Key
	if site != "" || company != "" {
		k := tenant.NewKey(site, company)
		key = &k
	}

	user, err := h.identity.Authenticate(c.Request().Context(), username, req.CurrentPassword, key)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.identity.ChangePassword(c.Request().Context(), user.ID, req.NewPassword); err != nil {
		log.Error("Failed to change password", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
