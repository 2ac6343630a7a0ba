package api

import (
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

const idempotentKeyHeader = "Idempotent-Key"

// CartHandler serves a customer's cart and its checkout.
type CartHandler struct {
	cartService  *service.CartService
	orderService *service.OrderService
}

func NewCartHandler(cartService *service.CartService, orderService *service.OrderService) *CartHandler {
	return &CartHandler{cartService: cartService, orderService: orderService}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	cart, err := h.cartService.GetCart(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.CartItemInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	cart, err := h.cartService.AddItem(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return respondError(c, err)
	}
	var in service.UpdateCartItemInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	cart, err := h.cartService.UpdateItem(c.Request().Context(), id, itemID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return respondError(c, err)
	}
	cart, err := h.cartService.RemoveItem(c.Request().Context(), id, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AbandonCart(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.cartService.AbandonCart(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout --> POST /api/customers/:id/checkout
func (h *CartHandler) Checkout(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	req.IdempotentKey = c.Request().Header.Get(idempotentKeyHeader)

	order, err := h.orderService.Checkout(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}
