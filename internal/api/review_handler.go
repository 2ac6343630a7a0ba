package api

import (
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var in service.ReviewInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	review, err := h.reviewService.CreateReview(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	productID, err := queryID(c, "product_id")
	if err != nil {
		return respondError(c, err)
	}
	reviews, err := h.reviewService.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.reviewService.DeleteReview(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
