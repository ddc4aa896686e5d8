package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-api/internal/model"
)

type ActivityLogRepository interface {
	Append(ctx context.Context, userID, action, description string) error
	Recent(ctx context.Context, limit int) ([]*model.ActivityLog, error)
}

type activityLogRepoImpl struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepoImpl{db: db}
}

func (r *activityLogRepoImpl) Append(ctx context.Context, userID, action, description string) error {
	return r.db.WithContext(ctx).Create(&model.ActivityLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}).Error
}

func (r *activityLogRepoImpl) Recent(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	var entries []*model.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}
