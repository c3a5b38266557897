package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending    = "PENDING"
	BookingConfirmed  = "CONFIRMED"
	BookingCheckedIn  = "CHECKED_IN"
	BookingCheckedOut = "CHECKED_OUT"
	BookingCancelled  = "CANCELLED"
)

// ActiveBookingStatuses are the states in which a booking blocks its rooms
// from being offered for an overlapping date range.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed, BookingCheckedIn}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingNumber string `gorm:"column:booking_number;uniqueIndex;size:32" json:"booking_number"`
	Status        string `gorm:"size:32;default:PENDING" json:"status"`

	GuestName    string `gorm:"size:255" json:"guest_name"`
	GuestEmail   string `gorm:"size:150;index" json:"guest_email"`
	GuestPhone   string `gorm:"size:32" json:"guest_phone"`
	GuestCountry string `gorm:"size:100" json:"guest_country"`
	GuestIDNo    string `gorm:"column:guest_id_no;size:64" json:"guest_id_no,omitempty"`

	CheckInDate  time.Time `gorm:"column:check_in_date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"check_out_date"`
	Adults       int       `gorm:"default:1" json:"adults"`
	Children     int       `gorm:"default:0" json:"children"`

	TotalAmount   float64 `gorm:"column:total_amount" json:"total_amount"`
	PaidAmount    float64 `gorm:"column:paid_amount;default:0" json:"paid_amount"`
	Currency      string  `gorm:"size:8" json:"currency"`
	PaymentMethod string  `gorm:"column:payment_method;size:32" json:"payment_method,omitempty"`

	// Version guards concurrent paid_amount updates (compare-and-set).
	Version uint `gorm:"default:0" json:"-"`

	CancelledAt    *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	ActualCheckIn  *time.Time `gorm:"column:actual_check_in" json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actual_check_out,omitempty"`

	UpdatedByID *uint `gorm:"column:updated_by_id" json:"updated_by_id,omitempty"`

	Rooms    []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms"`
	Payments []Payment     `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

// Balance is the amount still owed on the booking.
func (b *Booking) Balance() float64 {
	return b.TotalAmount - b.PaidAmount
}
