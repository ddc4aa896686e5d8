package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/dto"
	"storefront-api/internal/middleware"
	"storefront-api/internal/pagination"
	"storefront-api/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, links, err := h.orderService.Create(ctx, claims.UserID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success":     true,
		"order":       order,
		"reviewLinks": links,
	})
}

// List is role-scoped: admins see every order, customers their own.
func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	if claims.IsAdmin() {
		orders, err := h.orderService.ListAll(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{"success": true, "data": orders})
	}

	orders, err := h.orderService.ListForUser(ctx, claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": orders})
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	orders, err := h.orderService.ListForUser(ctx, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": orders})
}

func (h *OrderHandler) GetByID(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	order, err := h.orderService.GetByID(ctx, c.Param("id"), claims)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": order})
}

func (h *OrderHandler) AdminList(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.ParseParams(c.QueryParams(), pagination.StandardDefaults)
	filter := &dto.AdminOrderFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}
	if from := c.QueryParam("dateFrom"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.QueryParam("dateTo"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.DateTo = &t
		}
	}
	if min := c.QueryParam("amountMin"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			filter.AmountMin = &v
		}
	}
	if max := c.QueryParam("amountMax"); max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			filter.AmountMax = &v
		}
	}

	page, err := h.orderService.AdminList(ctx, filter, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(page.Data, params.Page, params.Limit, page.Total, nil))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	var patch dto.StatusPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.UpdateStatus(ctx, c.Param("id"), &patch, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": order})
}

func (h *OrderHandler) BulkUpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	var req dto.BulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	modified, err := h.orderService.BulkUpdateStatus(ctx, req.OrderIDs, &req.Patch, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "modifiedCount": modified})
}

// Cancel is the DELETE /orders/:id route. Orders are never removed;
// this is a soft status change guarded against already-shipped orders.
func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	var req dto.CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.Cancel(ctx, c.Param("id"), req.Reason, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": order})
}

// SubmitReview is public: the review token carried in the body is the
// only credential.
func (h *OrderHandler) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	review, err := h.orderService.SubmitReview(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": review})
}

func (h *OrderHandler) AnalyticsSummary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.orderService.Summary(ctx, c.QueryParam("period"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": summary})
}
