package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentCompleted = "COMPLETED"

	MethodCash  = "CASH"
	MethodCard  = "CARD"
	MethodMpesa = "MPESA"
)

// Payment rows are append-only; the booking's paid_amount is the running sum.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID     uint      `gorm:"index;column:booking_id" json:"booking_id"`
	Amount        float64   `json:"amount"`
	Method        string    `gorm:"size:32" json:"method"`
	Status        string    `gorm:"size:32;default:COMPLETED" json:"status"`
	TransactionID string    `gorm:"column:transaction_id;size:64" json:"transaction_id,omitempty"`
	ProcessedAt   time.Time `gorm:"column:processed_at" json:"processed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
