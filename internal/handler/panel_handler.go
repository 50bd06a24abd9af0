package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/logger"
	"github.com/Psychotichub/panel/prometheus"
)

// PanelHandler serves panel CRUD for the caller's tenant. Mutating
// routes are additionally gated by the admin middleware.
type PanelHandler struct {
	registry *tenant.Registry
}

func NewPanelHandler(registry *tenant.Registry) *PanelHandler {
	return &PanelHandler{registry: registry}
}

// List returns all panels for the caller's tenant.
func (h *PanelHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPanelOperation("list")

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		log.Error("Failed to resolve tenant", zap.Error(err))
		return writeError(c, err)
	}

	panels, err := handle.Panels().List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list panels", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, panels)
}

// Create adds a panel/circuit pair to the caller's tenant.
func (h *PanelHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPanelOperation("create")

	var req struct {
		PanelName string `json:"panelName"`
		Circuit   string `json:"circuit"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse panel creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		log.Error("Failed to resolve tenant", zap.Error(err))
		return writeError(c, err)
	}

	username, _ := c.Get("username").(string)
	panel, err := handle.Panels().Create(c.Request().Context(), req.PanelName, req.Circuit, username)
	if err != nil {
		log.Error("Failed to create panel", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, panel)
}

// Update renames a panel and/or its circuit.
func (h *PanelHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPanelOperation("update")

	var req struct {
		OriginalPanelName string `json:"originalPanelName"`
		PanelName         string `json:"panelName"`
		Circuit           string `json:"circuit"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse panel update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		log.Error("Failed to resolve tenant", zap.Error(err))
		return writeError(c, err)
	}

	panel, err := handle.Panels().Update(c.Request().Context(), req.OriginalPanelName, req.PanelName, req.Circuit)
	if err != nil {
		log.Error("Failed to update panel", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, panel)
}

// Delete removes all circuits under a panel name.
func (h *PanelHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPanelOperation("delete")

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		log.Error("Failed to resolve tenant", zap.Error(err))
		return writeError(c, err)
	}

	if err := handle.Panels().Delete(c.Request().Context(), c.Param("panelName")); err != nil {
		log.Error("Failed to delete panel", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "panel deleted"})
}

// Search finds a panel by name within the caller's tenant.
func (h *PanelHandler) Search(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPanelOperation("search")

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		log.Error("Failed to resolve tenant", zap.Error(err))
		return writeError(c, err)
	}

	panel, err := handle.Panels().FindByName(c.Request().Context(), c.Param("panelName"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, panel)
}

// Exists reports whether a panel name is present in the caller's
// tenant, used by the autocomplete form.
func (h *PanelHandler) Exists(c echo.Context) error {
	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	exists, err := handle.Panels().Exists(c.Request().Context(), c.Param("panelName"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exists": exists})
}
