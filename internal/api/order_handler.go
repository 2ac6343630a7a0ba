package api

import (
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Buyout --> POST /api/orders/buyout
func (h *OrderHandler) Buyout(c echo.Context) error {
	var req service.BuyoutRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	req.IdempotentKey = c.Request().Header.Get(idempotentKeyHeader)

	order, err := h.orderService.Buyout(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders --> GET /api/orders?customer_id=&status=&day=YYYY-MM-DD
func (h *OrderHandler) ListOrders(c echo.Context) error {
	customerID, err := queryID(c, "customer_id")
	if err != nil {
		return respondError(c, err)
	}
	orders, err := h.orderService.ListOrders(c.Request().Context(), service.OrderQuery{
		CustomerID: customerID,
		Status:     c.QueryParam("status"),
		Day:        c.QueryParam("day"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	order, err := h.orderService.UpdateOrder(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type paymentMethodRequest struct {
	OrderID uint `json:"order_id"`
	service.PaymentInput
}

func (h *OrderHandler) CreatePaymentMethod(c echo.Context) error {
	var req paymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if req.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "order_id is required"})
	}
	pm, err := h.orderService.CreatePaymentMethod(c.Request().Context(), req.OrderID, req.PaymentInput)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, pm)
}

// ListPaymentMethods --> GET /api/payment-methods?order_id=
func (h *OrderHandler) ListPaymentMethods(c echo.Context) error {
	orderID, err := queryID(c, "order_id")
	if err != nil {
		return respondError(c, err)
	}
	pms, err := h.orderService.ListPaymentMethods(c.Request().Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pms)
}

func (h *OrderHandler) GetPaymentMethod(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	pm, err := h.orderService.GetPaymentMethod(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pm)
}

func (h *OrderHandler) DeletePaymentMethod(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.orderService.DeletePaymentMethod(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
