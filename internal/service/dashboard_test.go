package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

func newDashboardService(t *testing.T, db *gorm.DB) DashboardService {
	t.Helper()
	return NewDashboardService(
		db,
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewSupportRepository(db),
		repository.NewNewsletterRepository(db),
		repository.NewActivityLogRepository(db),
		zerolog.Nop(),
	)
}

func markPaid(t *testing.T, svc OrderService, orderID string) {
	t.Helper()
	paid := true
	_, err := svc.UpdateStatus(context.Background(), orderID, &dto.StatusPatch{IsPaid: &paid}, "admin-1")
	require.NoError(t, err)
}

func TestOverviewEmptyWindowReturnsZeroes(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	// One paid order, but well outside the 7d window.
	order := mustCreateOrder(t, orderSvc, "user-1")
	markPaid(t, orderSvc, order.ID)
	backdateOrder(t, db, order.ID, time.Now().Add(-60*24*time.Hour))

	overview, err := dashboard.Overview(ctx, "7d")
	require.NoError(t, err)

	assert.Equal(t, int64(0), overview.Orders.TotalOrders)
	assert.Equal(t, 0.0, overview.Orders.TotalRevenue)
	assert.Equal(t, 0.0, overview.Orders.AverageOrderValue)
	assert.Equal(t, int64(0), overview.Users.Total)
	assert.Empty(t, overview.StatusCounts)
	assert.Empty(t, overview.Support)
}

func TestOverviewRecentActivityIgnoresPeriod(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	// Order (and its audit entry) outside the window: the aggregates
	// exclude it, the activity feed still shows it.
	order := mustCreateOrder(t, orderSvc, "user-1")
	backdateOrder(t, db, order.ID, time.Now().Add(-60*24*time.Hour))

	overview, err := dashboard.Overview(ctx, "7d")
	require.NoError(t, err)

	assert.Equal(t, int64(0), overview.Orders.TotalOrders)
	require.NotEmpty(t, overview.RecentActivity)
	assert.Equal(t, model.ActionOrderCreated, overview.RecentActivity[0].Action)
}

func TestOverviewAggregates(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	first := mustCreateOrder(t, orderSvc, "user-1")
	mustCreateOrder(t, orderSvc, "user-2")
	markPaid(t, orderSvc, first.ID)

	require.NoError(t, db.Create(&model.User{
		ID: "user-1", Email: "a@example.com", PasswordHash: "x", Name: "A", Role: model.RoleCustomer, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&model.SupportTicket{
		ID: "tick-1", UserID: "user-1", Subject: "where is my order", Message: "hello", Status: model.TicketStatusOpen,
	}).Error)

	overview, err := dashboard.Overview(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), overview.Orders.TotalOrders)
	assert.Equal(t, 26.0, overview.Orders.TotalRevenue)
	assert.Equal(t, int64(2), overview.StatusCounts[model.OrderStatusPending])
	assert.Equal(t, int64(1), overview.Users.Total)
	assert.Equal(t, int64(1), overview.Users.Active)
	assert.Equal(t, int64(1), overview.Support[model.TicketStatusOpen])
}

func TestSalesChartBucketsAscending(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	today1 := mustCreateOrder(t, orderSvc, "user-1")
	today2 := mustCreateOrder(t, orderSvc, "user-1")
	old := mustCreateOrder(t, orderSvc, "user-1")

	markPaid(t, orderSvc, today1.ID)
	markPaid(t, orderSvc, today2.ID)
	markPaid(t, orderSvc, old.ID)
	backdateOrder(t, db, old.ID, time.Now().Add(-3*24*time.Hour))

	buckets, err := dashboard.SalesChart(ctx, "7d", "day")
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	// Ascending bucket order: the older day first.
	assert.Less(t, buckets[0].Bucket, buckets[1].Bucket)
	assert.Equal(t, int64(1), buckets[0].OrderCount)
	assert.Equal(t, int64(2), buckets[1].OrderCount)
	assert.Equal(t, 52.0, buckets[1].Revenue)
	assert.Equal(t, 26.0, buckets[1].AverageOrderValue)
}

func TestTopProducts(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	order := mustCreateOrder(t, orderSvc, "user-1")
	markPaid(t, orderSvc, order.ID)

	products, err := dashboard.TopProducts(ctx, 10, "7d")
	require.NoError(t, err)

	// prod-b sold qty 2, prod-a qty 1: quantity descending.
	require.Len(t, products, 2)
	assert.Equal(t, "prod-b", products[0].ProductID)
	assert.Equal(t, int64(2), products[0].TotalSold)
	assert.Equal(t, 10.0, products[0].TotalRevenue)
	assert.Equal(t, "prod-a", products[1].ProductID)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	older := mustCreateOrder(t, orderSvc, "user-1")
	backdateOrder(t, db, older.ID, time.Now().Add(-time.Hour))
	newer := mustCreateOrder(t, orderSvc, "user-1")

	orders, err := dashboard.RecentOrders(ctx, 1)
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, newer.ID, orders[0].ID)
}

func TestActivityLogPagination(t *testing.T) {
	db := newTestDB(t)
	orderSvc := newOrderService(t, db)
	dashboard := newDashboardService(t, db)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		mustCreateOrder(t, orderSvc, "user-1")
	}

	page, err := dashboard.ActivityLog(ctx, model.ActionOrderCreated,
		pagination.Params{Page: 2, Limit: 10, Skip: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(15), page.Total)
	assert.Len(t, page.Data, 5)
	assert.False(t, page.Meta.HasNextPage)
	assert.True(t, page.Meta.HasPrevPage)
}
