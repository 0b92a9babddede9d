package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system (admin, customer or worker)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `json:"phone"`
	Role      string         `gorm:"not null;default:'customer'" json:"role"` // "admin", "customer" or "worker"
	// No gorm default: a default tag on a plain bool makes GORM drop the
	// zero value false on insert, so the column would silently come back true.
	// Every creation path sets this field explicitly.
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
