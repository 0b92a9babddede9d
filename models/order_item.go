package models

import (
	"time"

	"gorm.io/gorm"
)

// Per-item production statuses
const (
	ItemPending   = "pending"
	ItemCutting   = "cutting"
	ItemStitching = "stitching"
	ItemFinishing = "finishing"
	ItemCompleted = "completed"
)

// ItemSpecifications holds tailoring details for one garment
type ItemSpecifications struct {
	Style   string `json:"style"`
	Collar  string `json:"collar"`
	Sleeves string `json:"sleeves"`
	Pockets string `json:"pockets"`
	Notes   string `json:"notes"`
}

// OrderItem represents one garment line within an order.
// Measurements here are free-form per-item tags such as "Chest: 42";
// structured body measurements live on the Measurement model.
type OrderItem struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	OrderID        uint               `gorm:"not null;index" json:"order_id"`
	ItemType       string             `gorm:"not null" json:"item_type"` // "Shirt", "Suit", ...
	Fabric         string             `json:"fabric"`
	Color          string             `json:"color"`
	Specifications ItemSpecifications `gorm:"serializer:json" json:"specifications"`
	Measurements   []string           `gorm:"serializer:json" json:"measurements"`
	Price          float64            `gorm:"not null" json:"price"`
	Status         string             `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
