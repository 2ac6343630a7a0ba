package api

import (
	"net/http"

	"coffee-shop/internal/entity"
	"coffee-shop/internal/notify"
	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	hub                 *notify.Hub
}

func NewNotificationHandler(notificationService *service.NotificationService, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, hub: hub}
}

// scope reads ?audience= (default STAFF) and ?customer_id=.
func scope(c echo.Context) (string, uint, error) {
	audience := c.QueryParam("audience")
	if audience == "" {
		audience = string(entity.AudienceStaff)
	}
	customerID, err := queryID(c, "customer_id")
	return audience, customerID, err
}

func (h *NotificationHandler) List(c echo.Context) error {
	audience, customerID, err := scope(c)
	if err != nil {
		return respondError(c, err)
	}
	notifications, err := h.notificationService.List(c.Request().Context(), audience, customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.notificationService.MarkRead(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) ReadAll(c echo.Context) error {
	audience, customerID, err := scope(c)
	if err != nil {
		return respondError(c, err)
	}
	n, err := h.notificationService.ReadAll(c.Request().Context(), audience, customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": n})
}

func (h *NotificationHandler) Clear(c echo.Context) error {
	audience, customerID, err := scope(c)
	if err != nil {
		return respondError(c, err)
	}
	n, err := h.notificationService.Clear(c.Request().Context(), audience, customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": n})
}

// Stream upgrades to a websocket that receives new orders and staff
// notifications as they happen.
func (h *NotificationHandler) Stream(c echo.Context) error {
	if err := h.hub.ServeWS(c.Response(), c.Request()); err != nil {
		logger.Warn().Err(err).Msg("Websocket upgrade failed")
	}
	return nil
}
