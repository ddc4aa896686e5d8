package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/dto"
	"storefront-api/internal/metrics"
	"storefront-api/internal/middleware"
	"storefront-api/internal/pagination"
	"storefront-api/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	collector      *metrics.Collector
}

func NewCatalogHandler(catalogService service.CatalogService, collector *metrics.Collector) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		collector:      collector,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ListProducts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": products})
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": product})
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.ListCategories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": categories})
}

func (h *CatalogHandler) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.catalogService.Subscribe(ctx, req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *CatalogHandler) Unsubscribe(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.catalogService.Unsubscribe(ctx, req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *CatalogHandler) CreateTicket(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	var req dto.SupportTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ticket, err := h.catalogService.CreateTicket(ctx, claims.UserID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": ticket})
}

func (h *CatalogHandler) ListTickets(c echo.Context) error {
	ctx := c.Request().Context()

	p := pagination.ParseParams(c.QueryParams(), pagination.StandardDefaults)
	page, err := h.catalogService.ListTickets(ctx, p)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(page.Data, p.Page, p.Limit, page.Total, nil))
}

func (h *CatalogHandler) QuoteShipping(c echo.Context) error {
	ctx := c.Request().Context()

	weight, _ := strconv.ParseFloat(c.QueryParam("weight"), 64)
	rate := h.catalogService.QuoteShipping(ctx, c.QueryParam("country"), weight)

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": rate})
}

// MetricsSnapshot exposes the injected collector on the admin surface.
func (h *CatalogHandler) MetricsSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": h.collector.Snapshot()})
}
