package models

import (
	"gorm.io/gorm"
)

const (
	RoomAvailable   = "AVAILABLE"
	RoomReserved    = "RESERVED"
	RoomOccupied    = "OCCUPIED"
	RoomCleaning    = "CLEANING"
	RoomMaintenance = "MAINTENANCE"
)

type Room struct {
	gorm.Model

	RoomTypeID *uint  `json:"room_type_id,omitempty" gorm:"column:room_type_id;index"`
	RoomNumber string `json:"room_number" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Floor      string `json:"floor" gorm:"type:varchar(10)"`
	Status     string `json:"status" gorm:"size:32;default:AVAILABLE"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

func ValidRoomStatus(status string) bool {
	switch status {
	case RoomAvailable, RoomReserved, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}
