package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/logger"
)

// MaterialHandler serves the tenant's material price list.
type MaterialHandler struct {
	registry *tenant.Registry
}

func NewMaterialHandler(registry *tenant.Registry) *MaterialHandler {
	return &MaterialHandler{registry: registry}
}

func (h *MaterialHandler) List(c echo.Context) error {
	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	materials, err := handle.Materials().List(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list materials", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, materials)
}

func (h *MaterialHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		MaterialName string  `json:"materialName"`
		Unit         string  `json:"unit"`
		Price        float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse material request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	username, _ := c.Get("username").(string)
	material, err := handle.Materials().Create(c.Request().Context(), req.MaterialName, req.Unit, req.Price, username)
	if err != nil {
		log.Error("Failed to create material", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, material)
}

func (h *MaterialHandler) Delete(c echo.Context) error {
	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	if err := handle.Materials().Delete(c.Request().Context(), c.Param("materialName")); err != nil {
		logger.FromEcho(c).Error("Failed to delete material", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "material deleted"})
}
