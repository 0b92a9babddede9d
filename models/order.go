package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Any status may be set from any other status; the quick
// status update is a manual override tool, not a state machine.
const (
	OrderReceived   = "received"
	OrderInProgress = "in-progress"
	OrderReady      = "ready"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Order represents a single customer commission
type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrderNumber    string         `gorm:"uniqueIndex;not null" json:"order_number"` // "SS000042"
	CustomerID     uint           `gorm:"not null;index" json:"customer_id"`
	Customer       Customer       `gorm:"foreignKey:CustomerID" json:"customer"`
	WorkerID       *uint          `gorm:"index" json:"worker_id"` // nullable, set on assignment
	Worker         *Worker        `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	TotalAmount    float64        `gorm:"not null" json:"total_amount"`
	AdvancePayment float64        `gorm:"default:0" json:"advance_payment"`
	BalanceAmount  float64        `gorm:"not null" json:"balance_amount"` // always total_amount - advance_payment
	Status         string         `gorm:"not null;default:'received'" json:"status"`
	Priority       string         `gorm:"default:'medium'" json:"priority"`
	DeliveryDate   *time.Time     `json:"delivery_date"`
	Notes          string         `gorm:"type:text" json:"notes"`
	PhotoKey       *string        `json:"photo_key"`                    // S3 key of the reference photo, if uploaded
	PhotoURL       *string        `gorm:"-" json:"photo_url,omitempty"` // computed, presigned URL
	Items          []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Measurements   []Measurement  `gorm:"foreignKey:OrderID" json:"measurements,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order no longer counts as open work
func (o *Order) IsTerminal() bool {
	return o.Status == OrderDelivered || o.Status == OrderCancelled
}

// ValidOrderStatus reports whether s is one of the known order statuses
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderReceived, OrderInProgress, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
