package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/pagination"
	"storefront-api/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	overview, err := h.dashboardService.Overview(ctx, c.QueryParam("period"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": overview})
}

func (h *DashboardHandler) SalesChart(c echo.Context) error {
	ctx := c.Request().Context()

	buckets, err := h.dashboardService.SalesChart(ctx, c.QueryParam("period"), c.QueryParam("groupBy"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": buckets})
}

func (h *DashboardHandler) TopProducts(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	products, err := h.dashboardService.TopProducts(ctx, limit, c.QueryParam("period"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": products})
}

func (h *DashboardHandler) RecentOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	orders, err := h.dashboardService.RecentOrders(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": orders})
}

func (h *DashboardHandler) ActivityLog(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.ParseParams(c.QueryParams(), pagination.StandardDefaults)

	page, err := h.dashboardService.ActivityLog(ctx, c.QueryParam("action"), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(page.Data, params.Page, params.Limit, page.Total, nil))
}
