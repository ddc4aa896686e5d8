package dto

import "time"

type OrderItemRequest struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
	Image     string  `json:"image"`
}

type ShippingAddressRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

// ReviewLink lets the buyer submit a review for one purchased product
// without authenticating.
type ReviewLink struct {
	ProductID string `json:"productId"`
	Token     string `json:"token"`
}

// StatusPatch is the admin status update. Nil fields are left
// untouched. isShipped is one-way: only true is accepted, false is
// rejected as invalid.
type StatusPatch struct {
	IsPaid         *bool   `json:"isPaid"`
	IsShipped      *bool   `json:"isShipped"`
	IsDelivered    *bool   `json:"isDelivered"`
	OrderStatus    *string `json:"orderStatus"`
	ShippingStatus *string `json:"shippingStatus"`
	TrackingNumber *string `json:"trackingNumber"`
	AdminNotes     *string `json:"adminNotes"`
}

type BulkStatusRequest struct {
	OrderIDs []string    `json:"orderIds"`
	Patch    StatusPatch `json:"patch"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type AdminOrderFilter struct {
	Search    string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	AmountMin *float64
	AmountMax *float64
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type ProfilePatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type AddressRequest struct {
	Type       string `json:"type"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

type PreferencesPatch struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	OrderUpdates       *bool   `json:"orderUpdates"`
	Newsletter         *bool   `json:"newsletter"`
	Currency           *string `json:"currency"`
	Language           *string `json:"language"`
}

type RoleChangeRequest struct {
	Role string `json:"role"`
}

type ReviewRequest struct {
	Token     string `json:"token"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

type SupportTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}
