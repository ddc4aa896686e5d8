package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront-api/internal/auth"
	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.AutoMigrate(db))
	return db
}

func newOrderService(t *testing.T, db *gorm.DB) OrderService {
	t.Helper()
	return NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewActivityLogRepository(db),
		zerolog.Nop(),
	)
}

func customerClaims(userID string) *auth.Claims {
	return &auth.Claims{UserID: userID, Role: model.RoleCustomer}
}

func adminClaims(userID string) *auth.Claims {
	return &auth.Claims{UserID: userID, Role: model.RoleAdmin}
}

// twoItemOrder is the standard checkout fixture: qty 1 @ $10 and
// qty 2 @ $5, tax $1, shipping $5, total $26.
func twoItemOrder() *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		OrderItems: []dto.OrderItemRequest{
			{ProductID: "prod-a", Name: "Widget A", Price: 10, Quantity: 1},
			{ProductID: "prod-b", Name: "Widget B", Price: 5, Quantity: 2},
		},
		ShippingAddress: dto.ShippingAddressRequest{
			Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		},
		PaymentMethod: "card",
		TaxPrice:      1,
		ShippingPrice: 5,
		TotalPrice:    26,
	}
}

func mustCreateOrder(t *testing.T, svc OrderService, userID string) *model.Order {
	t.Helper()
	order, _, err := svc.Create(context.Background(), userID, twoItemOrder())
	require.NoError(t, err)
	return order
}

func countAuditEntries(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.ActivityLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}

func backdateOrder(t *testing.T, db *gorm.DB, orderID string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&model.Order{}).Where("id = ?", orderID).
		Update("created_at", createdAt).Error)
}
