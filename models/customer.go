package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerPreferences holds fit and fabric preferences for a customer
type CustomerPreferences struct {
	FitType          string   `json:"fitType"` // "slim", "regular", "loose"
	PreferredFabrics []string `json:"preferredFabrics"`
	Notes            string   `json:"notes"`
}

// Customer represents a customer profile linked one-to-one with a User
type Customer struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	UserID        uint                `gorm:"not null;uniqueIndex" json:"user_id"`
	User          User                `gorm:"foreignKey:UserID" json:"user"`
	Address       string              `gorm:"type:text" json:"address"`
	Preferences   CustomerPreferences `gorm:"serializer:json" json:"preferences"`
	TotalOrders   int                 `gorm:"default:0" json:"total_orders"` // denormalized count of this customer's orders
	LoyaltyPoints int                 `gorm:"default:0" json:"loyalty_points"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
