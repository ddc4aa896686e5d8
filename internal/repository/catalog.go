package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	ListActive(ctx context.Context) ([]*model.Product, error)
	CountSince(ctx context.Context, since *time.Time) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "prod-espresso-01", Name: "Espresso Maker", Description: "Stovetop espresso maker, 6 cups", Price: 39.90, Stock: 25, IsActive: true},
		{ID: "prod-grinder-01", Name: "Burr Grinder", Description: "Conical burr coffee grinder", Price: 59.00, Stock: 12, IsActive: true},
		{ID: "prod-beans-01", Name: "House Blend Beans 1kg", Description: "Medium roast arabica blend", Price: 18.50, Stock: 200, IsActive: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) ListActive(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) CountSince(ctx context.Context, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *productRepoImpl) CountOutOfStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("stock <= 0").
		Count(&count).Error
	return count, err
}

type CategoryRepository interface {
	ListActive(ctx context.Context) ([]*model.Category, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepoImpl{db: db}
}

func (r *categoryRepoImpl) ListActive(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error

	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&count).Error
	return count, err
}

type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
	CountSubscribed(ctx context.Context, since *time.Time) (int64, error)
}

type newsletterRepoImpl struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepoImpl{db: db}
}

func (r *newsletterRepoImpl) Subscribe(ctx context.Context, email string) error {
	sub := model.NewsletterSubscriber{
		ID:           uuid.NewString(),
		Email:        email,
		IsSubscribed: true,
	}

	// Re-subscribing flips the flag back on an existing row.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_subscribed": true, "unsubscribed_at": nil}),
	}).Create(&sub).Error
}

func (r *newsletterRepoImpl) Unsubscribe(ctx context.Context, email string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"is_subscribed": false, "unsubscribed_at": &now})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *newsletterRepoImpl) CountSubscribed(ctx context.Context, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("is_subscribed = ?", true)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

type SupportRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) error
	List(ctx context.Context, p pagination.Params) (*pagination.Page[model.SupportTicket], error)
	CountByStatus(ctx context.Context, since *time.Time) (map[model.TicketStatus]int64, error)
}

type supportRepoImpl struct {
	db *gorm.DB
}

func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &supportRepoImpl{db: db}
}

func (r *supportRepoImpl) Create(ctx context.Context, ticket *model.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *supportRepoImpl) List(ctx context.Context, p pagination.Params) (*pagination.Page[model.SupportTicket], error) {
	return pagination.Paginate[model.SupportTicket](ctx, r.db, nil, p, pagination.Options{
		Sort: "created_at DESC",
	})
}

func (r *supportRepoImpl) CountByStatus(ctx context.Context, since *time.Time) (map[model.TicketStatus]int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SupportTicket{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var rows []struct {
		Status model.TicketStatus
		Count  int64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
