package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/logger"
)

// PriceHandler serves saved price aggregates for the tenant.
type PriceHandler struct {
	registry *tenant.Registry
}

func NewPriceHandler(registry *tenant.Registry) *PriceHandler {
	return &PriceHandler{registry: registry}
}

func (h *PriceHandler) ListRange(c echo.Context) error {
	start, err := time.Parse(dateLayout, c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date, expected YYYY-MM-DD"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	prices, err := handle.Prices().ListRange(c.Request().Context(), start, end)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list total prices", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, prices)
}

func (h *PriceHandler) Save(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		MaterialName  string  `json:"materialName"`
		TotalQuantity float64 `json:"totalQuantity"`
		TotalPrice    float64 `json:"totalPrice"`
		StartDate     string  `json:"startDate"`
		EndDate       string  `json:"endDate"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse total price request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date, expected YYYY-MM-DD"})
	}

	handle, err := resolveTenant(c, h.registry)
	if err != nil {
		return writeError(c, err)
	}

	username, _ := c.Get("username").(string)
	price, err := handle.Prices().Save(c.Request().Context(), model.TotalPrice{
		MaterialName:  req.MaterialName,
		TotalQuantity: req.TotalQuantity,
		TotalPrice:    req.TotalPrice,
		StartDate:     start,
		EndDate:       end,
		CreatedBy:     username,
	})
	if err != nil {
		log.Error("Failed to save total price", zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, price)
}
