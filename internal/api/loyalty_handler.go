package api

import (
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type LoyaltyHandler struct {
	loyaltyService  *service.LoyaltyService
	discountService *service.DiscountService
}

func NewLoyaltyHandler(loyaltyService *service.LoyaltyService, discountService *service.DiscountService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService, discountService: discountService}
}

func (h *LoyaltyHandler) GetProgram(c echo.Context) error {
	program, err := h.loyaltyService.GetProgram(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, program)
}

func (h *LoyaltyHandler) SaveProgram(c echo.Context) error {
	var in service.ProgramInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	program, err := h.loyaltyService.SaveProgram(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, program)
}

func (h *LoyaltyHandler) CreateDiscount(c echo.Context) error {
	var in service.DiscountInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	discount, err := h.discountService.CreateDiscount(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, discount)
}

// ListDiscounts --> GET /api/discounts?customer_id=&include_redeemed=true.
// Without customer_id only general discounts are listed.
func (h *LoyaltyHandler) ListDiscounts(c echo.Context) error {
	customerID, err := queryID(c, "customer_id")
	if err != nil {
		return respondError(c, err)
	}
	var owner *uint
	if customerID != 0 {
		owner = &customerID
	}
	discounts, err := h.discountService.ListDiscounts(c.Request().Context(), owner, queryBool(c, "include_redeemed"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, discounts)
}

func (h *LoyaltyHandler) GetDiscount(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	discount, err := h.discountService.GetDiscount(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, discount)
}
