package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

func newCatalogService(t *testing.T, db *gorm.DB) CatalogService {
	t.Helper()
	return NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewNewsletterRepository(db),
		repository.NewSupportRepository(db),
		client.NewShippingRateClient(&config.Shipping{TimeoutSeconds: 1}, zerolog.Nop()),
	)
}

func TestGetProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Product{
		ID: "prod-live", Name: "Live", Price: 9.99, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&model.Product{
		ID: "prod-retired", Name: "Retired", Price: 4.99, IsActive: false,
	}).Error)

	product, err := svc.GetProduct(ctx, "prod-live")
	require.NoError(t, err)
	assert.Equal(t, "Live", product.Name)

	// Inactive and missing products are indistinguishable to the storefront.
	for _, id := range []string{"prod-retired", "prod-nope"} {
		_, err := svc.GetProduct(ctx, id)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	}
}

func TestNewsletterSubscribeResubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "Reader@Example.com"))
	require.NoError(t, svc.Unsubscribe(ctx, "reader@example.com"))
	require.NoError(t, svc.Subscribe(ctx, "reader@example.com"))

	var sub model.NewsletterSubscriber
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&sub).Error)
	assert.True(t, sub.IsSubscribed)

	var count int64
	require.NoError(t, db.Model(&model.NewsletterSubscriber{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewsletterValidation(t *testing.T) {
	svc := newCatalogService(t, newTestDB(t))
	ctx := context.Background()

	err := svc.Subscribe(ctx, "not-an-email")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)

	err = svc.Unsubscribe(ctx, "never@example.com")
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}

func TestCreateTicket(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "user-1", &dto.SupportTicketRequest{
		Subject: "missing parcel",
		Message: "my order never arrived",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)

	_, err = svc.CreateTicket(ctx, "user-1", &dto.SupportTicketRequest{Subject: " ", Message: ""})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
}

func TestListTicketsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	for _, subject := range []string{"first", "second", "third"} {
		_, err := svc.CreateTicket(ctx, "user-1", &dto.SupportTicketRequest{
			Subject: subject,
			Message: "details",
		})
		require.NoError(t, err)
	}
	require.NoError(t, db.Model(&model.SupportTicket{}).
		Where("subject = ?", "third").
		Update("created_at", time.Now().Add(time.Hour)).Error)

	page, err := svc.ListTickets(ctx, pagination.ParseParams(nil, pagination.StandardDefaults))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "third", page.Data[0].Subject)

	small, err := svc.ListTickets(ctx, pagination.Params{Page: 1, Limit: 2, Skip: 0})
	require.NoError(t, err)
	assert.Len(t, small.Data, 2)
	assert.True(t, small.Meta.HasNextPage)
}

func TestQuoteShippingUsesStaticTable(t *testing.T) {
	svc := newCatalogService(t, newTestDB(t))

	rate := svc.QuoteShipping(context.Background(), "US", 0.5)
	assert.Equal(t, 5.0, rate.Price)
}
