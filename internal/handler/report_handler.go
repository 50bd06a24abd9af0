package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/logger"
)

const dateLayout = "2006-01-02"

// ReportHandler serves the tenant's daily material reports.
type ReportHandler struct {
	registry *tenant.Registry
}

func NewReportHandler(registry *tenant.Registry) *ReportHandler {
	return &ReportHandler{registry: registry}
}

func (h *ReportHandler) ListByDate(c echo.Context) error {
	date, err := time.Parse(dateLayout, c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	reports, err := handle.Reports().ListByDate(c.Request().Context(), date)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list reports", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Date         string  `json:"date"`
		MaterialName string  `json:"materialName"`
		Quantity     float64 `json:"quantity"`
		Location     string  `json:"location"`
		PanelName    string  `json:"panelName"`
		Circuit      string  `json:"circuit"`
		Notes        string  `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse report request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	username, _ := c.Get("username").(string)
	report, err := handle.Reports().Create(c.Request().Context(), model.DailyReport{
		Date:         date,
		MaterialName: req.MaterialName,
		Quantity:     req.Quantity,
		Location:     req.Location,
		PanelName:    req.PanelName,
		Circuit:      req.Circuit,
		Notes:        req.Notes,
		CreatedBy:    username,
	})
	if err != nil {
		log.Error("Failed to create report", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	if err := handle.Reports().Delete(c.Request().Context(), uint(id)); err != nil {
		logger.FromEcho(c).Error("Failed to delete report", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "report deleted"})
}
