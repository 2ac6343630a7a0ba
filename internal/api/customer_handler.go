package api

import (
	"net/http"

	"coffee-shop/internal/entity"
	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	customerService     *service.CustomerService
	loyaltyService      *service.LoyaltyService
	notificationService *service.NotificationService
}

func NewCustomerHandler(customerService *service.CustomerService, loyaltyService *service.LoyaltyService, notificationService *service.NotificationService) *CustomerHandler {
	return &CustomerHandler{
		customerService:     customerService,
		loyaltyService:      loyaltyService,
		notificationService: notificationService,
	}
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var in service.CustomerInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	customer, err := h.customerService.CreateCustomer(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.customerService.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	customers, err := h.customerService.ListCustomers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// GetStamps --> GET /api/customers/:id/stamps
func (h *CustomerHandler) GetStamps(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	stamps, err := h.loyaltyService.GetStamps(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"customer_id": id, "current_stamps": stamps})
}

// AddStamp --> POST /api/customers/:id/stamps {"stamps": n}; n defaults to 1.
func (h *CustomerHandler) AddStamp(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in struct {
		Stamps *int `json:"stamps"`
	}
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	n := 1
	if in.Stamps != nil {
		n = *in.Stamps
	}
	result, err := h.loyaltyService.AddStamp(c.Request().Context(), id, n)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListDiscounts --> GET /api/customers/:id/discounts?include_redeemed=true
func (h *CustomerHandler) ListDiscounts(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	discounts, err := h.loyaltyService.ListCustomerDiscounts(c.Request().Context(), id, queryBool(c, "include_redeemed"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, discounts)
}

func (h *CustomerHandler) ListNotifications(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	notifications, err := h.notificationService.List(c.Request().Context(), string(entity.AudienceCustomer), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}
