package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

// CatalogService covers the storefront reads plus the small write
// surfaces (newsletter, support) that feed the dashboard aggregates.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
	CreateTicket(ctx context.Context, userID string, req *dto.SupportTicketRequest) (*model.SupportTicket, error)
	ListTickets(ctx context.Context, p pagination.Params) (*pagination.Page[model.SupportTicket], error)
	QuoteShipping(ctx context.Context, country string, weightKg float64) client.Rate
}

type catalogServiceImpl struct {
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	newsletterRepo repository.NewsletterRepository
	supportRepo    repository.SupportRepository
	shippingClient client.ShippingRateClient
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	newsletterRepo repository.NewsletterRepository,
	supportRepo repository.SupportRepository,
	shippingClient client.ShippingRateClient,
) CatalogService {
	return &catalogServiceImpl{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		newsletterRepo: newsletterRepo,
		supportRepo:    supportRepo,
		shippingClient: shippingClient,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Validation("a valid email is required")
	}
	return s.newsletterRepo.Subscribe(ctx, email)
}

func (s *catalogServiceImpl) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	err := s.newsletterRepo.Unsubscribe(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return apperr.NotFound("subscriber not found")
	}
	return err
}

func (s *catalogServiceImpl) CreateTicket(ctx context.Context, userID string, req *dto.SupportTicketRequest) (*model.SupportTicket, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, apperr.Validation("subject and message are required")
	}

	ticket := &model.SupportTicket{
		ID:      uuid.NewString(),
		UserID:  userID,
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  model.TicketStatusOpen,
	}
	if err := s.supportRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

func (s *catalogServiceImpl) ListTickets(ctx context.Context, p pagination.Params) (*pagination.Page[model.SupportTicket], error) {
	return s.supportRepo.List(ctx, p)
}

func (s *catalogServiceImpl) QuoteShipping(ctx context.Context, country string, weightKg float64) client.Rate {
	return s.shippingClient.QuoteRate(ctx, country, weightKg)
}
