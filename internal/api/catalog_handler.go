package api

import (
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts --> GET /api/products?category=
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.catalogService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	product, err := h.catalogService.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.ProductUpdate
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	product, err := h.catalogService.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) AddVariant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.VariantInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	variant, err := h.catalogService.AddVariant(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, variant)
}

// ListAddons --> GET /api/addons?all=true includes unavailable addons.
func (h *CatalogHandler) ListAddons(c echo.Context) error {
	addons, err := h.catalogService.ListAddons(c.Request().Context(), !queryBool(c, "all"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, addons)
}

func (h *CatalogHandler) CreateAddon(c echo.Context) error {
	var in service.AddonInput
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	addon, err := h.catalogService.CreateAddon(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, addon)
}

func (h *CatalogHandler) UpdateAddon(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.AddonUpdate
	if err := c.Bind(&in); err != nil {
		return invalidPayload(c)
	}
	if err := h.catalogService.UpdateAddon(c.Request().Context(), id, in); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAddon marks the addon unavailable.
func (h *CatalogHandler) DeleteAddon(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalogService.DisableAddon(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
