package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is one note in an order's discussion thread (customer, assigned
// worker and admins coordinating fittings and delivery)
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	SenderID  uint           `gorm:"not null" json:"sender_id"`
	Sender    User           `gorm:"foreignKey:SenderID" json:"sender"`
	Text      string         `gorm:"not null;type:text" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
