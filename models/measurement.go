package models

import (
	"time"

	"gorm.io/gorm"
)

// Measurement stores a customer's body measurements for an order as a
// generic bag of named values ("chest": 42, "sleeve_length": 25.5, ...).
// At most one record per order is expected, kept that way by
// find-or-create-then-update semantics rather than a constraint.
type Measurement struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	OrderID   uint               `gorm:"not null;index" json:"order_id"`
	Values    map[string]float64 `gorm:"serializer:json" json:"values"`
	Notes     string             `gorm:"type:text" json:"notes"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Measurement model
func (Measurement) TableName() string {
	return "measurements"
}
