package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

// recentActivityCount entries ride along on the overview regardless of
// the period filter. The period scopes the aggregates only; the
// activity feed is always the latest ten.
const recentActivityCount = 10

type Overview struct {
	Users          UserSummary                  `json:"users"`
	Products       ProductSummary               `json:"products"`
	Orders         repository.OrderSummary      `json:"orders"`
	StatusCounts   map[model.OrderStatus]int64  `json:"ordersByStatus"`
	Categories     int64                        `json:"categories"`
	Support        map[model.TicketStatus]int64 `json:"supportByStatus"`
	Newsletter     int64                        `json:"newsletterSubscribers"`
	RecentActivity []*model.ActivityLog         `json:"recentActivity"`
}

type UserSummary struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type ProductSummary struct {
	Total      int64 `json:"total"`
	OutOfStock int64 `json:"outOfStock"`
}

type DashboardService interface {
	Overview(ctx context.Context, period string) (*Overview, error)
	SalesChart(ctx context.Context, period, groupBy string) ([]repository.SalesBucket, error)
	TopProducts(ctx context.Context, limit int, period string) ([]repository.ProductSales, error)
	RecentOrders(ctx context.Context, limit int) ([]*model.Order, error)
	ActivityLog(ctx context.Context, action string, params pagination.Params) (*pagination.Page[model.ActivityLog], error)
}

type dashboardServiceImpl struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	userRepo       repository.UserRepository
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	supportRepo    repository.SupportRepository
	newsletterRepo repository.NewsletterRepository
	activityLog    repository.ActivityLogRepository
	logger         zerolog.Logger
}

func NewDashboardService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supportRepo repository.SupportRepository,
	newsletterRepo repository.NewsletterRepository,
	activityLog repository.ActivityLogRepository,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardServiceImpl{
		db:             db,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		supportRepo:    supportRepo,
		newsletterRepo: newsletterRepo,
		activityLog:    activityLog,
		logger:         logger,
	}
}

// Overview fans the per-collection aggregations out onto goroutines and
// assembles a fixed-shape summary. Empty windows produce zero values,
// never errors.
func (s *dashboardServiceImpl) Overview(ctx context.Context, period string) (*Overview, error) {
	since, err := periodSince(period)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		StatusCounts: map[model.OrderStatus]int64{},
		Support:      map[model.TicketStatus]int64{},
	}

	errCh := make(chan error, 8)

	run := func(fn func() error) {
		go func() { errCh <- fn() }()
	}

	run(func() error {
		total, err := s.userRepo.CountSince(ctx, since)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		overview.Users.Total = total
		return nil
	})
	run(func() error {
		active, err := s.userRepo.CountActive(ctx)
		if err != nil {
			return fmt.Errorf("count active users: %w", err)
		}
		overview.Users.Active = active
		return nil
	})
	run(func() error {
		total, err := s.productRepo.CountSince(ctx, since)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		overview.Products.Total = total

		oos, err := s.productRepo.CountOutOfStock(ctx)
		if err != nil {
			return fmt.Errorf("count out-of-stock products: %w", err)
		}
		overview.Products.OutOfStock = oos
		return nil
	})
	run(func() error {
		summary, err := s.orderRepo.PaidSummary(ctx, since)
		if err != nil {
			return fmt.Errorf("order summary: %w", err)
		}
		overview.Orders = *summary
		return nil
	})
	run(func() error {
		counts, err := s.orderRepo.StatusCounts(ctx, since)
		if err != nil {
			return fmt.Errorf("order status counts: %w", err)
		}
		overview.StatusCounts = counts
		return nil
	})
	run(func() error {
		count, err := s.categoryRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		overview.Categories = count
		return nil
	})
	run(func() error {
		counts, err := s.supportRepo.CountByStatus(ctx, since)
		if err != nil {
			return fmt.Errorf("support ticket counts: %w", err)
		}
		overview.Support = counts
		return nil
	})
	run(func() error {
		count, err := s.newsletterRepo.CountSubscribed(ctx, since)
		if err != nil {
			return fmt.Errorf("count newsletter subscribers: %w", err)
		}
		overview.Newsletter = count
		return nil
	})

	for i := 0; i < 8; i++ {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}

	entries, err := s.activityLog.Recent(ctx, recentActivityCount)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	overview.RecentActivity = entries

	return overview, nil
}

func (s *dashboardServiceImpl) SalesChart(ctx context.Context, period, groupBy string) ([]repository.SalesBucket, error) {
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

func (s *dashboardServiceImpl) TopProducts(ctx context.Context, limit int, period string) ([]repository.ProductSales, error) {
	since, err := periodSince(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	return s.orderRepo.TopProducts(ctx, since, limit)
}

func (s *dashboardServiceImpl) RecentOrders(ctx context.Context, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.orderRepo.Recent(ctx, limit)
}

func (s *dashboardServiceImpl) ActivityLog(ctx context.Context, action string, params pagination.Params) (*pagination.Page[model.ActivityLog], error) {
	var conds []pagination.Condition
	if action != "" {
		conds = append(conds, pagination.Match("action", action))
	}

	scope, err := pagination.BuildScope(conds...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid filter", err)
	}

	return pagination.Paginate[model.ActivityLog](ctx, s.db, scope, params, pagination.Options{
		Sort: "created_at DESC",
	})
}
