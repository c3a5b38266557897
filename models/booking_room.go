package models

import (
	"gorm.io/gorm"
)

// BookingRoom binds one reserved room to a booking with the nightly rate
// snapshotted at booking time, so later rate changes never reprice history.
type BookingRoom struct {
	gorm.Model
	BookingID uint `gorm:"index;column:booking_id" json:"booking_id"`
	RoomID    uint `gorm:"index;column:room_id" json:"room_id"`

	RatePerNight float64 `gorm:"column:rate_per_night" json:"rate_per_night"`
	Nights       int     `gorm:"default:0" json:"nights"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
