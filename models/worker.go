package models

import (
	"time"

	"gorm.io/gorm"
)

// Worker payment types
const (
	PaymentHourly   = "hourly"
	PaymentMonthly  = "monthly"
	PaymentPerPiece = "per_piece"
)

// WorkingHours describes a worker's weekly schedule
type WorkingHours struct {
	Start       string `json:"start"` // "09:00"
	End         string `json:"end"`   // "18:00"
	DaysPerWeek int    `json:"daysPerWeek"`
}

// Worker represents a tailor/worker profile linked one-to-one with a User.
// Occupancy is never stored on the row: a worker is "busy" exactly when they
// have an assigned order that is not delivered or cancelled, and that is
// computed from orders on every read.
type Worker struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user"`
	Skills           []string       `gorm:"serializer:json" json:"skills"`
	PaymentType      string         `gorm:"default:'hourly'" json:"payment_type"` // "hourly", "monthly" or "per_piece"
	HourlyRate       *float64       `json:"hourly_rate"`
	MonthlyFee       *float64       `json:"monthly_fee"`
	PieceRate        *float64       `json:"piece_rate"`
	Specialization   string         `json:"specialization"`
	Experience       int            `gorm:"default:0" json:"experience"` // years
	Address          string         `gorm:"type:text" json:"address"`
	EmergencyContact string         `json:"emergency_contact"`
	JoinDate         time.Time      `json:"join_date"`
	IsActive         bool           `json:"is_active"` // no gorm default, creation paths set it explicitly
	WorkingHours     WorkingHours   `gorm:"serializer:json" json:"working_hours"`
	WorkHistory      string         `gorm:"type:text" json:"work_history"`
	AssignedOrders   []Order        `gorm:"foreignKey:WorkerID" json:"assigned_orders,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Worker model
func (Worker) TableName() string {
	return "workers"
}

// CurrentOrders returns the number of assigned orders still in progress.
// AssignedOrders must be preloaded by the caller.
func (w *Worker) CurrentOrders() int {
	busy := 0
	for _, order := range w.AssignedOrders {
		if !order.IsTerminal() {
			busy++
		}
	}
	return busy
}

// OccupancyStatus derives "busy" or "available" from the worker's open orders
func (w *Worker) OccupancyStatus() string {
	if w.CurrentOrders() > 0 {
		return "busy"
	}
	return "available"
}
