package model

import "time"

type Product struct {
	ID          string  `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string  `gorm:"size:256;not null" json:"name"`
	Description string  `gorm:"size:2048" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Image       string  `gorm:"size:512" json:"image"`
	CategoryID  string  `gorm:"size:36;index" json:"categoryId"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	IsActive    bool    `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID       string `gorm:"primaryKey;size:36;not null" json:"id"`
	Name     string `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Slug     string `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewsletterSubscriber struct {
	ID             string     `gorm:"primaryKey;size:36;not null" json:"id"`
	Email          string     `gorm:"size:256;uniqueIndex;not null" json:"email"`
	IsSubscribed   bool       `gorm:"not null;default:true" json:"isSubscribed"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// ProductReview is submitted with an order's review token rather than
// a session; one review per product per order.
type ProductReview struct {
	ID        string `gorm:"primaryKey;size:36;not null" json:"id"`
	ProductID string `gorm:"size:36;index;not null;uniqueIndex:idx_review_once" json:"productId"`
	OrderID   string `gorm:"size:36;index;not null;uniqueIndex:idx_review_once" json:"orderId"`
	Rating    int    `gorm:"not null" json:"rating"`
	Comment   string `gorm:"size:2048" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
}

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

type SupportTicket struct {
	ID      string       `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID  string       `gorm:"size:36;index" json:"userId"`
	Subject string       `gorm:"size:256;not null" json:"subject"`
	Message string       `gorm:"size:4096;not null" json:"message"`
	Status  TicketStatus `gorm:"size:16;index;not null;default:open" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
