package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront-api/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	FindByReviewToken(ctx context.Context, token string) (*model.Order, error)
	UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) error
	BulkUpdateFields(ctx context.Context, orderIDs []string, fields map[string]interface{}) (int64, error)
	CreateReview(ctx context.Context, review *model.ProductReview) error

	SalesByBucket(ctx context.Context, since *time.Time, groupBy string) ([]SalesBucket, error)
	TopProducts(ctx context.Context, since *time.Time, limit int) ([]ProductSales, error)
	PaidSummary(ctx context.Context, since *time.Time) (*OrderSummary, error)
	StatusCounts(ctx context.Context, since *time.Time) (map[model.OrderStatus]int64, error)
	Recent(ctx context.Context, limit int) ([]*model.Order, error)
}

// SalesBucket is one time bucket of paid-order aggregates.
type SalesBucket struct {
	Bucket            string  `json:"bucket"`
	Revenue           float64 `json:"revenue"`
	OrderCount        int64   `json:"orderCount"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type ProductSales struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	TotalSold    int64   `json:"totalSold"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type OrderSummary struct {
	TotalOrders       int64   `json:"totalOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindByReviewToken(ctx context.Context, token string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("review_token = ?", token).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) CreateReview(ctx context.Context, review *model.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *orderRepoImpl) UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepoImpl) BulkUpdateFields(ctx context.Context, orderIDs []string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id IN ?", orderIDs).
		Updates(fields)

	return result.RowsAffected, result.Error
}

// bucketExpr returns the SQL expression truncating created_at to a
// day/week/month bucket. MySQL and SQLite spell date formatting
// differently, so the expression depends on the live dialect.
func bucketExpr(db *gorm.DB, groupBy string) string {
	mysql := db.Dialector.Name() == "mysql"

	switch groupBy {
	case "week":
		if mysql {
			return "DATE_FORMAT(created_at, '%x-%v')"
		}
		return "strftime('%Y-%W', created_at)"
	case "month":
		if mysql {
			return "DATE_FORMAT(created_at, '%Y-%m')"
		}
		return "strftime('%Y-%m', created_at)"
	default: // day
		if mysql {
			return "DATE_FORMAT(created_at, '%Y-%m-%d')"
		}
		return "strftime('%Y-%m-%d', created_at)"
	}
}

func (r *orderRepoImpl) SalesByBucket(ctx context.Context, since *time.Time, groupBy string) ([]SalesBucket, error) {
	expr := bucketExpr(r.db, groupBy)

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(expr + " AS bucket, " +
			"SUM(total_price) AS revenue, " +
			"COUNT(*) AS order_count, " +
			"AVG(total_price) AS average_order_value").
		Where("is_paid = ?", true)

	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var buckets []SalesBucket
	err := q.Group(expr).Order("bucket ASC").Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	return buckets, nil
}

func (r *orderRepoImpl) TopProducts(ctx context.Context, since *time.Time, limit int) ([]ProductSales, error) {
	q := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("order_items.product_id AS product_id, " +
			"MAX(order_items.name) AS name, " +
			"MAX(order_items.image) AS image, " +
			"SUM(order_items.quantity) AS total_sold, " +
			"SUM(order_items.unit_price * order_items.quantity) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.is_paid = ?", true)

	if since != nil {
		q = q.Where("orders.created_at >= ?", *since)
	}

	var products []ProductSales
	err := q.Group("order_items.product_id").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *orderRepoImpl) PaidSummary(ctx context.Context, since *time.Time) (*OrderSummary, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COUNT(*) AS total_orders, " +
			"COALESCE(SUM(total_price), 0) AS total_revenue, " +
			"COALESCE(AVG(total_price), 0) AS average_order_value").
		Where("is_paid = ?", true)

	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var summary OrderSummary
	if err := q.Scan(&summary).Error; err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *orderRepoImpl) StatusCounts(ctx context.Context, since *time.Time) (map[model.OrderStatus]int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status")

	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var rows []struct {
		OrderStatus model.OrderStatus
		Count       int64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.OrderStatus] = row.Count
	}

	return counts, nil
}

func (r *orderRepoImpl) Recent(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
