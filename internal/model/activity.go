package model

import "time"

// ActivityLog is an append-only audit entry. The application only ever
// inserts rows; reads go through the paginated admin endpoints.
type ActivityLog struct {
	ID          string `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID      string `gorm:"size:36;index" json:"userId"`
	Action      string `gorm:"size:64;index;not null" json:"action"`
	Description string `gorm:"size:1024" json:"description"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// Action codes written by the services.
const (
	ActionOrderCreated      = "order.created"
	ActionOrderStatusUpdate = "order.status_updated"
	ActionOrderBulkUpdate   = "order.bulk_status_updated"
	ActionOrderCancelled    = "order.cancelled"
	ActionUserRegistered    = "user.registered"
	ActionUserRoleChanged   = "user.role_changed"
	ActionUserDeactivated   = "user.deactivated"
	ActionUserActivated     = "user.activated"
)
