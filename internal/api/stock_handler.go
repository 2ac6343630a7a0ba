package api

import (
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type StockHandler struct {
	inventoryService *service.InventoryService
}

func NewStockHandler(inventoryService *service.InventoryService) *StockHandler {
	return &StockHandler{inventoryService: inventoryService}
}

func (h *StockHandler) ListStock(c echo.Context) error {
	stock, err := h.inventoryService.ListStock(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

func (h *StockHandler) GetStock(c echo.Context) error {
	variantID, err := paramID(c, "variantId")
	if err != nil {
		return respondError(c, err)
	}
	stock, err := h.inventoryService.GetStock(c.Request().Context(), variantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// SetStock --> PUT /api/stock/:variantId {"quantity": n}
func (h *StockHandler) SetStock(c echo.Context) error {
	variantID, err := paramID(c, "variantId")
	if err != nil {
		return respondError(c, err)
	}
	var in struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.Bind(&in); err != nil || in.Quantity == nil {
		return invalidPayload(c)
	}
	stock, err := h.inventoryService.SetStock(c.Request().Context(), variantID, *in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}
