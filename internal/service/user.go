package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*model.User, error)

	AddAddress(ctx context.Context, userID string, req *dto.AddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, req *dto.AddressRequest) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	UpdatePreferences(ctx context.Context, userID string, patch *dto.PreferencesPatch) (*model.User, error)

	AdminList(ctx context.Context, search string, params pagination.Params) (*pagination.Page[model.User], map[string]repository.UserOrderStats, error)
	ChangeRole(ctx context.Context, userID, role, actorID string) error
	SetActive(ctx context.Context, userID string, active bool, actorID string) error
}

type userServiceImpl struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	activityLog repository.ActivityLogRepository
	jwtSecret   string
	tokenTTL    time.Duration
	logger      zerolog.Logger
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	activityLog repository.ActivityLogRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		db:          db,
		userRepo:    userRepo,
		activityLog: activityLog,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

func profileOf(user *model.User) *dto.UserProfile {
	return &dto.UserProfile{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email is already registered")
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("store user in db: %w", err)
	}

	if err := s.activityLog.Append(ctx, user.ID, model.ActionUserRegistered,
		fmt.Sprintf("user %s registered", user.Email)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("append audit entry")
	}

	token, err := auth.IssueToken(s.jwtSecret, user, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &dto.AuthResponse{Token: token, User: profileOf(user)}, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Authentication("invalid email or password")
	}

	token, err := auth.IssueToken(s.jwtSecret, user, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &dto.AuthResponse{Token: token, User: profileOf(user)}, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*model.User, error) {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !strings.Contains(email, "@") {
			return nil, apperr.Validation("a valid email is required")
		}
		fields["email"] = email
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("profile patch is empty")
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.userRepo.FindByID(ctx, userID)
}

func parseAddressType(t string) (model.AddressType, error) {
	switch model.AddressType(t) {
	case model.AddressTypeShipping:
		return model.AddressTypeShipping, nil
	case model.AddressTypeBilling:
		return model.AddressTypeBilling, nil
	}
	return "", apperr.Validation(fmt.Sprintf("invalid address type %q", t))
}

// AddAddress inserts a user address, demoting any previous default of
// the same type when the new one is marked default. One default per
// type is the invariant.
func (s *userServiceImpl) AddAddress(ctx context.Context, userID string, req *dto.AddressRequest) (*model.Address, error) {
	addrType, err := parseAddressType(req.Type)
	if err != nil {
		return nil, err
	}
	if req.Address == "" || req.City == "" || req.Country == "" {
		return nil, apperr.Validation("address, city and country are required")
	}

	addr := &model.Address{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       addrType,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			if err := s.userRepo.ClearDefault(ctx, tx, userID, addrType); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}
		return s.userRepo.CreateAddress(ctx, tx, addr)
	})
	if err != nil {
		return nil, err
	}

	return addr, nil
}

func (s *userServiceImpl) UpdateAddress(ctx context.Context, userID, addressID string, req *dto.AddressRequest) (*model.Address, error) {
	addr, err := s.userRepo.FindAddress(ctx, userID, addressID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("address not found")
		}
		return nil, fmt.Errorf("find address: %w", err)
	}

	if req.Type != "" {
		addrType, err := parseAddressType(req.Type)
		if err != nil {
			return nil, err
		}
		addr.Type = addrType
	}
	if req.Address != "" {
		addr.Address = req.Address
	}
	if req.City != "" {
		addr.City = req.City
	}
	if req.PostalCode != "" {
		addr.PostalCode = req.PostalCode
	}
	if req.Country != "" {
		addr.Country = req.Country
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !addr.IsDefault {
			if err := s.userRepo.ClearDefault(ctx, tx, userID, addr.Type); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
			addr.IsDefault = true
		}
		return s.userRepo.UpdateAddress(ctx, tx, addr)
	})
	if err != nil {
		return nil, err
	}

	return addr, nil
}

func (s *userServiceImpl) DeleteAddress(ctx context.Context, userID, addressID string) error {
	err := s.userRepo.DeleteAddress(ctx, userID, addressID)
	if err == gorm.ErrRecordNotFound {
		return apperr.NotFound("address not found")
	}
	return err
}

func (s *userServiceImpl) UpdatePreferences(ctx context.Context, userID string, patch *dto.PreferencesPatch) (*model.User, error) {
	fields := map[string]interface{}{}
	if patch.EmailNotifications != nil {
		fields["pref_email_notifications"] = *patch.EmailNotifications
	}
	if patch.OrderUpdates != nil {
		fields["pref_order_updates"] = *patch.OrderUpdates
	}
	if patch.Newsletter != nil {
		fields["pref_newsletter"] = *patch.Newsletter
	}
	if patch.Currency != nil {
		fields["pref_currency"] = *patch.Currency
	}
	if patch.Language != nil {
		fields["pref_language"] = *patch.Language
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("preferences patch is empty")
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	return s.userRepo.FindByID(ctx, userID)
}

// AdminList pages over users and joins in the derived order aggregates
// for the page's users only.
func (s *userServiceImpl) AdminList(ctx context.Context, search string, params pagination.Params) (*pagination.Page[model.User], map[string]repository.UserOrderStats, error) {
	var conds []pagination.Condition
	if search != "" {
		conds = append(conds, pagination.Search(search, "email", "name"))
	}

	scope, err := pagination.BuildScope(conds...)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindValidation, "invalid filter", err)
	}

	page, err := pagination.Paginate[model.User](ctx, s.db, scope, params, pagination.Options{
		Sort: "created_at DESC",
	})
	if err != nil {
		return nil, nil, err
	}

	if len(page.Data) == 0 {
		return page, map[string]repository.UserOrderStats{}, nil
	}

	ids := make([]string, len(page.Data))
	for i, user := range page.Data {
		ids[i] = user.ID
	}

	stats, err := s.userRepo.OrderStats(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("user order stats: %w", err)
	}

	return page, stats, nil
}

func (s *userServiceImpl) ChangeRole(ctx context.Context, userID, role, actorID string) error {
	newRole := model.Role(role)
	if !newRole.Valid() {
		return apperr.Validation(fmt.Sprintf("invalid role %q", role))
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"role": newRole}); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("change role: %w", err)
	}

	if err := s.activityLog.Append(ctx, actorID, model.ActionUserRoleChanged,
		fmt.Sprintf("user %s role changed to %s", userID, newRole)); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("append audit entry")
	}

	return nil
}

func (s *userServiceImpl) SetActive(ctx context.Context, userID string, active bool, actorID string) error {
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"is_active": active}); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("set active: %w", err)
	}

	action := model.ActionUserDeactivated
	if active {
		action = model.ActionUserActivated
	}
	if err := s.activityLog.Append(ctx, actorID, action,
		fmt.Sprintf("user %s active=%t", userID, active)); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("append audit entry")
	}

	return nil
}
