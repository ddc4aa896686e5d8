package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleSupport  Role = "support"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin || r == RoleSupport
}

// User carries the stored credential hash; it is never serialized, the
// json tag keeps it out of every response.
type User struct {
	ID           string `gorm:"primaryKey;size:36;not null" json:"id"`
	Email        string `gorm:"size:256;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Name         string `gorm:"size:128;not null" json:"name"`
	Role         Role   `gorm:"size:16;index;not null;default:customer" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`

	Addresses   []Address       `gorm:"foreignKey:UserID" json:"addresses"`
	Preferences UserPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

// Address is an embedded user address. At most one default per type,
// enforced by the user service on every write.
type Address struct {
	ID         string      `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID     string      `gorm:"size:36;index;not null" json:"userId"`
	Type       AddressType `gorm:"size:16;not null" json:"type"`
	Address    string      `gorm:"size:256;not null" json:"address"`
	City       string      `gorm:"size:128;not null" json:"city"`
	PostalCode string      `gorm:"size:32;not null" json:"postalCode"`
	Country    string      `gorm:"size:64;not null" json:"country"`
	IsDefault  bool        `gorm:"not null;default:false" json:"isDefault"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserPreferences struct {
	EmailNotifications bool   `gorm:"not null;default:true" json:"emailNotifications"`
	OrderUpdates       bool   `gorm:"not null;default:true" json:"orderUpdates"`
	Newsletter         bool   `gorm:"not null;default:false" json:"newsletter"`
	Currency           string `gorm:"size:8;not null;default:USD" json:"currency"`
	Language           string `gorm:"size:8;not null;default:en" json:"language"`
}
