package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

type OrderService interface {
	Create(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*model.Order, []dto.ReviewLink, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	GetByID(ctx context.Context, orderID string, requester *auth.Claims) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, patch *dto.StatusPatch, actorID string) (*model.Order, error)
	BulkUpdateStatus(ctx context.Context, orderIDs []string, patch *dto.StatusPatch, actorID string) (int64, error)
	Cancel(ctx context.Context, orderID, reason, actorID string) (*model.Order, error)
	SubmitReview(ctx context.Context, req *dto.ReviewRequest) (*model.ProductReview, error)
	AdminList(ctx context.Context, filter *dto.AdminOrderFilter, params pagination.Params) (*pagination.Page[model.Order], error)

	SalesByPeriod(ctx context.Context, period, groupBy string) ([]repository.SalesBucket, error)
	TopProducts(ctx context.Context, limit int, period string) ([]repository.ProductSales, error)
	Summary(ctx context.Context, period string) (*repository.OrderSummary, error)
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	activityLog repository.ActivityLogRepository
	logger      zerolog.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	activityLog repository.ActivityLogRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		activityLog: activityLog,
		logger:      logger,
	}
}

// newReviewToken returns 32 random bytes hex-encoded, 64 characters.
func newReviewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// computeTotal recomputes the order total from the item snapshots. The
// client also sends a total, but it is verified here rather than
// trusted.
func computeTotal(items []dto.OrderItemRequest, taxPrice, shippingPrice float64) float64 {
	total := decimal.NewFromFloat(taxPrice).Add(decimal.NewFromFloat(shippingPrice))
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Round(2).Float64()
	return f
}

func (s *orderServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*model.Order, []dto.ReviewLink, error) {
	if len(req.OrderItems) == 0 {
		return nil, nil, apperr.Validation("order must contain at least one item")
	}
	for _, item := range req.OrderItems {
		if item.Quantity <= 0 {
			return nil, nil, apperr.Validation("item quantity must be positive")
		}
		if item.Price < 0 {
			return nil, nil, apperr.Validation("item price must not be negative")
		}
	}
	if req.TaxPrice < 0 || req.ShippingPrice < 0 {
		return nil, nil, apperr.Validation("tax and shipping must not be negative")
	}

	total := computeTotal(req.OrderItems, req.TaxPrice, req.ShippingPrice)
	if !decimal.NewFromFloat(total).Equal(decimal.NewFromFloat(req.TotalPrice).Round(2)) {
		return nil, nil, apperr.Validation("total price does not match order items")
	}

	token, err := newReviewToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate review token: %w", err)
	}

	items := make([]model.OrderItem, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		}
	}

	order := &model.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Items:          items,
		ShipAddress:    req.ShippingAddress.Address,
		ShipCity:       req.ShippingAddress.City,
		ShipPostalCode: req.ShippingAddress.PostalCode,
		ShipCountry:    req.ShippingAddress.Country,
		PaymentMethod:  req.PaymentMethod,
		TaxPrice:       req.TaxPrice,
		ShippingPrice:  req.ShippingPrice,
		TotalPrice:     total,
		OrderStatus:    model.OrderStatusPending,
		ShippingStatus: model.ShippingStatusPending,
		ReviewToken:    token,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Audit entry outside the order transaction; a crash in between
	// leaves the log behind the order state, which this domain accepts.
	if err := s.activityLog.Append(ctx, userID, model.ActionOrderCreated,
		fmt.Sprintf("order %s created with %d items, total %.2f", order.ID, len(order.Items), order.TotalPrice)); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("append audit entry")
	}

	links := make([]dto.ReviewLink, len(order.Items))
	for i, item := range order.Items {
		links[i] = dto.ReviewLink{ProductID: item.ProductID, Token: order.ReviewToken}
	}

	return order, links, nil
}

func (s *orderServiceImpl) ListForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// GetByID checks existence before ownership: a missing order is 404 for
// everyone, an existing order is 403 for anyone who is neither its
// owner nor an admin.
func (s *orderServiceImpl) GetByID(ctx context.Context, orderID string, requester *auth.Claims) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if order.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, apperr.Forbidden("not allowed to view this order")
	}

	return order, nil
}

// patchFields translates a StatusPatch into a column update map.
// Timestamp side effects: paid_at with isPaid, shipped_at when the
// order first transitions to shipped, delivered_at with isDelivered,
// cancelled_at with orderStatus=cancelled.
func patchFields(patch *dto.StatusPatch) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	now := time.Now()

	if patch.IsPaid != nil {
		fields["is_paid"] = *patch.IsPaid
		if *patch.IsPaid {
			fields["paid_at"] = now
		}
	}
	if patch.IsShipped != nil {
		// One-way flag: shipping cannot be undone through a patch.
		if !*patch.IsShipped {
			return nil, apperr.Validation("isShipped can only be set to true")
		}
		fields["shipping_status"] = model.ShippingStatusShipped
		fields["shipped_at"] = now
	}
	if patch.IsDelivered != nil {
		fields["is_delivered"] = *patch.IsDelivered
		if *patch.IsDelivered {
			fields["delivered_at"] = now
		}
	}
	if patch.OrderStatus != nil {
		status := model.OrderStatus(*patch.OrderStatus)
		if !status.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid order status %q", *patch.OrderStatus))
		}
		fields["order_status"] = status
		if status == model.OrderStatusCancelled {
			fields["cancelled_at"] = now
		}
	}
	if patch.ShippingStatus != nil {
		status := model.ShippingStatus(*patch.ShippingStatus)
		if !status.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid shipping status %q", *patch.ShippingStatus))
		}
		fields["shipping_status"] = status
		if status == model.ShippingStatusShipped {
			fields["shipped_at"] = now
		}
	}
	if patch.TrackingNumber != nil {
		fields["tracking_number"] = *patch.TrackingNumber
	}
	if patch.AdminNotes != nil {
		fields["admin_notes"] = *patch.AdminNotes
	}

	if len(fields) == 0 {
		return nil, apperr.Validation("status patch is empty")
	}

	return fields, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID string, patch *dto.StatusPatch, actorID string) (*model.Order, error) {
	fields, err := patchFields(patch)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateFields(ctx, orderID, fields); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	if err := s.activityLog.Append(ctx, actorID, model.ActionOrderStatusUpdate,
		fmt.Sprintf("order %s status updated: orderStatus=%s shippingStatus=%s paid=%t delivered=%t",
			order.ID, order.OrderStatus, order.ShippingStatus, order.IsPaid, order.IsDelivered)); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("append audit entry")
	}

	return order, nil
}

// BulkUpdateStatus applies the same patch to every id in one write and
// logs a single summary entry for the batch.
func (s *orderServiceImpl) BulkUpdateStatus(ctx context.Context, orderIDs []string, patch *dto.StatusPatch, actorID string) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, apperr.Validation("no order ids given")
	}

	fields, err := patchFields(patch)
	if err != nil {
		return 0, err
	}

	modified, err := s.orderRepo.BulkUpdateFields(ctx, orderIDs, fields)
	if err != nil {
		return 0, fmt.Errorf("bulk update orders: %w", err)
	}

	if err := s.activityLog.Append(ctx, actorID, model.ActionOrderBulkUpdate,
		fmt.Sprintf("bulk status update applied to %d of %d orders", modified, len(orderIDs))); err != nil {
		s.logger.Error().Err(err).Msg("append audit entry")
	}

	return modified, nil
}

// hasShipped reports whether the order left the warehouse in either
// status machine.
func hasShipped(order *model.Order) bool {
	if order.ShippedAt != nil {
		return true
	}
	switch order.ShippingStatus {
	case model.ShippingStatusShipped, model.ShippingStatusInTransit, model.ShippingStatusDelivered:
		return true
	}
	switch order.OrderStatus {
	case model.OrderStatusShipped, model.OrderStatusDelivered:
		return true
	}
	return false
}

func (s *orderServiceImpl) Cancel(ctx context.Context, orderID, reason, actorID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if hasShipped(order) {
		return nil, apperr.Conflict("cannot cancel an order that has already shipped")
	}

	now := time.Now()
	fields := map[string]interface{}{
		"order_status":        model.OrderStatusCancelled,
		"cancelled_at":        now,
		"cancellation_reason": reason,
	}
	if err := s.orderRepo.UpdateFields(ctx, orderID, fields); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	order.OrderStatus = model.OrderStatusCancelled
	order.CancelledAt = &now
	order.CancellationReason = reason

	if err := s.activityLog.Append(ctx, actorID, model.ActionOrderCancelled,
		fmt.Sprintf("order %s cancelled: %s", order.ID, reason)); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("append audit entry")
	}

	return order, nil
}

func (s *orderServiceImpl) AdminList(ctx context.Context, filter *dto.AdminOrderFilter, params pagination.Params) (*pagination.Page[model.Order], error) {
	conds := []pagination.Condition{
		pagination.DateRange("created_at", filter.DateFrom, filter.DateTo),
		pagination.NumberRange("total_price", filter.AmountMin, filter.AmountMax),
	}
	if filter.Status != "" {
		status := model.OrderStatus(filter.Status)
		if !status.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid order status %q", filter.Status))
		}
		conds = append(conds, pagination.Match("order_status", string(status)))
	}
	if filter.Search != "" {
		conds = append(conds, pagination.Search(filter.Search, "id", "user_id", "tracking_number"))
	}

	scope, err := pagination.BuildScope(conds...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid filter", err)
	}

	return pagination.Paginate[model.Order](ctx, s.db, scope, params, pagination.Options{
		Sort:    "created_at DESC",
		Preload: []string{"Items"},
	})
}

// SubmitReview accepts an unauthenticated review keyed by the order's
// review token. The token doubles as proof of purchase: the product
// must appear in the order's line items, and each product can be
// reviewed once per order.
func (s *orderServiceImpl) SubmitReview(ctx context.Context, req *dto.ReviewRequest) (*model.ProductReview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	order, err := s.orderRepo.FindByReviewToken(ctx, req.Token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("invalid review token")
		}
		return nil, fmt.Errorf("find order by review token: %w", err)
	}

	purchased := false
	for _, item := range order.Items {
		if item.ProductID == req.ProductID {
			purchased = true
			break
		}
	}
	if !purchased {
		return nil, apperr.Validation("product is not part of this order")
	}

	review := &model.ProductReview{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		OrderID:   order.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.orderRepo.CreateReview(ctx, review); err != nil {
		// The unique index on (product, order) rejects a second review.
		return nil, apperr.Wrap(apperr.KindConflict, "product already reviewed for this order", err)
	}

	return review, nil
}

// periodSince maps a relative period name to an absolute cutoff. The
// empty string and "none" mean no cutoff.
func periodSince(period string) (*time.Time, error) {
	var window time.Duration
	switch period {
	case "", "none":
		return nil, nil
	case "7d":
		window = 7 * 24 * time.Hour
	case "30d":
		window = 30 * 24 * time.Hour
	case "90d":
		window = 90 * 24 * time.Hour
	case "1y":
		window = 365 * 24 * time.Hour
	default:
		return nil, apperr.Validation(fmt.Sprintf("invalid period %q", period))
	}

	since := time.Now().Add(-window)
	return &since, nil
}

func (s *orderServiceImpl) SalesByPeriod(ctx context.Context, period, groupBy string) ([]repository.SalesBucket, error) {
	since, err := periodSince(period)
	if err != nil {
		return nil, err
	}

	switch groupBy {
	case "", "day", "week", "month":
	default:
		return nil, apperr.Validation(fmt.Sprintf("invalid groupBy %q", groupBy))
	}

	return s.orderRepo.SalesByBucket(ctx, since, groupBy)
}

func (s *orderServiceImpl) TopProducts(ctx context.Context, limit int, period string) ([]repository.ProductSales, error) {
	since, err := periodSince(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	return s.orderRepo.TopProducts(ctx, since, limit)
}

func (s *orderServiceImpl) Summary(ctx context.Context, period string) (*repository.OrderSummary, error) {
	since, err := periodSince(period)
	if err != nil {
		return nil, err
	}

	return s.orderRepo.PaidSummary(ctx, since)
}
