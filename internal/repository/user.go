package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"storefront-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateFields(ctx context.Context, userID string, fields map[string]interface{}) error
	OrderStats(ctx context.Context, userIDs []string) (map[string]UserOrderStats, error)
	CountSince(ctx context.Context, since *time.Time) (int64, error)
	CountActive(ctx context.Context) (int64, error)

	CreateAddress(ctx context.Context, tx *gorm.DB, addr *model.Address) error
	FindAddress(ctx context.Context, userID, addressID string) (*model.Address, error)
	UpdateAddress(ctx context.Context, tx *gorm.DB, addr *model.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error
	ClearDefault(ctx context.Context, tx *gorm.DB, userID string, addrType model.AddressType) error
}

// UserOrderStats are the derived per-user aggregates shown on the admin
// user listing.
type UserOrderStats struct {
	UserID     string  `json:"userId"`
	OrderCount int64   `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{db: db}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Addresses").
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) UpdateFields(ctx context.Context, userID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepoImpl) OrderStats(ctx context.Context, userIDs []string) (map[string]UserOrderStats, error) {
	var rows []UserOrderStats
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("user_id, COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS total_spent").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	stats := make(map[string]UserOrderStats, len(rows))
	for _, row := range rows {
		stats[row.UserID] = row
	}

	return stats, nil
}

func (r *userRepoImpl) CountSince(ctx context.Context, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *userRepoImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CreateAddress runs inside the caller's transaction alongside
// ClearDefault so the one-default-per-type invariant holds.
func (r *userRepoImpl) CreateAddress(ctx context.Context, tx *gorm.DB, addr *model.Address) error {
	return tx.WithContext(ctx).Create(addr).Error
}

func (r *userRepoImpl) FindAddress(ctx context.Context, userID, addressID string) (*model.Address, error) {
	var addr model.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&addr).Error

	if err != nil {
		return nil, err
	}

	return &addr, nil
}

func (r *userRepoImpl) UpdateAddress(ctx context.Context, tx *gorm.DB, addr *model.Address) error {
	return tx.WithContext(ctx).Save(addr).Error
}

func (r *userRepoImpl) DeleteAddress(ctx context.Context, userID, addressID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&model.Address{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearDefault unsets the default flag on every address of the given
// type so the caller can promote a new one. Runs inside the caller's
// transaction.
func (r *userRepoImpl) ClearDefault(ctx context.Context, tx *gorm.DB, userID string, addrType model.AddressType) error {
	return tx.WithContext(ctx).Model(&model.Address{}).
		Where("user_id = ? AND type = ?", userID, addrType).
		Update("is_default", false).Error
}
