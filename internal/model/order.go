package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

type ShippingStatus string

const (
	ShippingStatusPending    ShippingStatus = "pending"
	ShippingStatusProcessing ShippingStatus = "processing"
	ShippingStatusShipped    ShippingStatus = "shipped"
	ShippingStatusInTransit  ShippingStatus = "in_transit"
	ShippingStatusDelivered  ShippingStatus = "delivered"
	ShippingStatusFailed     ShippingStatus = "failed"
)

func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusProcessing, ShippingStatusShipped,
		ShippingStatusInTransit, ShippingStatusDelivered, ShippingStatusFailed:
		return true
	}
	return false
}

// Order is one placed purchase. Items and the shipping address are
// immutable after creation; everything else changes only through the
// status-update paths. Orders are never hard-deleted, cancellation is a
// status change.
type Order struct {
	ID     string `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID string `gorm:"size:36;index;not null" json:"userId"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	// Embedded postal address, snapshotted at checkout.
	ShipAddress    string `gorm:"size:256;not null" json:"shipAddress"`
	ShipCity       string `gorm:"size:128;not null" json:"shipCity"`
	ShipPostalCode string `gorm:"size:32;not null" json:"shipPostalCode"`
	ShipCountry    string `gorm:"size:64;not null" json:"shipCountry"`

	PaymentMethod string `gorm:"size:32;not null" json:"paymentMethod"`

	TaxPrice      float64 `gorm:"not null" json:"taxPrice"`
	ShippingPrice float64 `gorm:"not null" json:"shippingPrice"`
	TotalPrice    float64 `gorm:"not null" json:"totalPrice"`

	IsPaid      bool       `gorm:"not null;default:false" json:"isPaid"`
	PaidAt      *time.Time `json:"paidAt"`
	IsDelivered bool       `gorm:"not null;default:false" json:"isDelivered"`
	DeliveredAt *time.Time `json:"deliveredAt"`

	OrderStatus OrderStatus `gorm:"size:32;index;not null;default:pending" json:"orderStatus"`

	ShippingCarrier  string         `gorm:"size:64" json:"shippingCarrier"`
	TrackingNumber   string         `gorm:"size:128" json:"trackingNumber"`
	ShippingStatus   ShippingStatus `gorm:"size:32;not null;default:pending" json:"shippingStatus"`
	ShippedAt        *time.Time     `json:"shippedAt"`
	ShippingEstimate *time.Time     `json:"shippingEstimate"`

	CancelledAt        *time.Time `json:"cancelledAt"`
	CancellationReason string     `gorm:"size:512" json:"cancellationReason"`

	AdminNotes string `gorm:"size:1024" json:"adminNotes"`

	// 32 random bytes, hex encoded. Grants unauthenticated review
	// submission for the purchased items; generated once at creation.
	// Visible only to the order's owner and to admins, which is exactly
	// who may fetch the order.
	ReviewToken string `gorm:"size:64;uniqueIndex;not null" json:"reviewToken"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderItem snapshots the product at time of purchase. Line totals are
// always computed from these fields, never from the current product row.
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   string `gorm:"size:36;index;not null" json:"orderId"`
	ProductID string `gorm:"size:36;index;not null" json:"productId"`

	Name      string  `gorm:"size:256;not null" json:"name"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Image     string  `gorm:"size:512" json:"image"`

	CreatedAt time.Time `json:"createdAt"`
}
